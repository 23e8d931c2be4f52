// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
	"github.com/hackerinthewoods/sitectl/internal/provision"
	"github.com/hackerinthewoods/sitectl/internal/query"
	"github.com/hackerinthewoods/sitectl/internal/template"
)

// queryCommandAction evaluates an expression over the synthesized template,
// or the deployed one with --deployed.
func queryCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %v", meta.Args[1:])

	expr := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if expr == "" {
		return errors.New("an expression is required, e.g. sitectl query 'keys(Resources)'")
	}

	sess := newSession(cmd)
	s, err := LoadSite(ctx, cmd, sess)
	if err != nil {
		return err
	}

	var body []byte
	if cmd.Bool("deployed") {
		c, err := sess.Clients(ctx)
		if err != nil {
			return err
		}
		deployed, err := provision.NewEngine(c.CloudFormation).Deployed(ctx, s.StackName)
		if err != nil {
			return err
		}
		if deployed == nil {
			return fmt.Errorf("stack %s: %w", s.StackName, provision.ErrStackNotFound)
		}
		if body, err = template.Normalize(deployed); err != nil {
			return err
		}
	} else if body, err = s.Template.JSON(); err != nil {
		return err
	}

	val, err := query.Eval(expr, body)
	if err != nil {
		return err
	}
	out, err := query.Format(val)
	if err != nil {
		return err
	}

	fmt.Fprintln(meta.Stdout, out)
	return nil
}

func queryCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "deployed",
			Usage: "query the deployed template instead of the synthesized one",
			Value: false,
		},
	}
	flags = append(flags, NewSiteFlags("query", meta.Config.Source)...)
	flags = append(flags, NewAWSFlags("query", meta.Config.Source)...)

	return &cli.Command{
		Name:      "query",
		Usage:     "evaluate an expression over the template",
		UsageText: "sitectl query [options] EXPR",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: queryCommandAction,
	}
}
