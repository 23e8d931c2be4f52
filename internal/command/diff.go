// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/differ"
	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
	"github.com/hackerinthewoods/sitectl/internal/provision"
)

// ErrDrift is returned by diff --exit-code when the templates differ.
var ErrDrift = errors.New("deployed stack differs from the synthesized template")

// diffCommandAction compares the deployed template with the synthesized one.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %v", meta.Args[1:])

	sess := newSession(cmd)
	s, err := LoadSite(ctx, cmd, sess)
	if err != nil {
		return err
	}
	body, err := s.Template.JSON()
	if err != nil {
		return err
	}

	c, err := sess.Clients(ctx)
	if err != nil {
		return err
	}
	deployed, err := provision.NewEngine(c.CloudFormation).Deployed(ctx, s.StackName)
	if err != nil {
		return err
	}
	if deployed == nil {
		log.Infof("stack %s is not deployed", s.StackName)
	}

	res, err := differ.Diff(deployed, body, differ.Options{
		Ignore: cmd.StringSlice("ignore"),
		Color:  cmd.Bool("color"),
	}, meta.Stdout)
	if err != nil {
		return err
	}

	if res.Changed() {
		log.Infof("diff: added=%d removed=%d modified=%d", len(res.Added), len(res.Removed), len(res.Modified))
		if cmd.Bool("exit-code") {
			return fmt.Errorf("%w: %s", ErrDrift, s.StackName)
		}
	}
	return nil
}

func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare the deployed stack with the synthesized template",
		UsageText: "sitectl diff [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "fail when the templates differ",
				Value: false,
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "top level template sections to leave out, e.g. Metadata",
			},
		}, NewSiteFlags("diff", meta.Config.Source)...), NewAWSFlags("diff", meta.Config.Source)...),
		Action: diffCommandAction,
	}
}
