// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
	"github.com/hackerinthewoods/sitectl/internal/template"
)

// synthCommandAction builds the site and prints its CloudFormation template.
func synthCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %v", meta.Args[1:])

	s, err := LoadSite(ctx, cmd, newSession(cmd))
	if err != nil {
		return err
	}

	body, err := render(s.Template, cmd.String("output"))
	if err != nil {
		return err
	}

	if out := cmd.String("out"); out != "" {
		if err := os.WriteFile(out, body, 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("failed to write template: %w", err)
		}
		log.Infof("template written: path=%s resources=%d", out, len(s.Template.Resources))
		return nil
	}

	_, err = meta.Stdout.Write(body)
	return err
}

func render(tpl *template.Template, format string) ([]byte, error) {
	if format == "yaml" {
		return tpl.YAML()
	}
	return tpl.JSON()
}

func synthCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "synth",
		Usage:     "synthesize the CloudFormation template",
		UsageText: "sitectl synth [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "template format",
				Value:   "json",
				Validator: func(value string) error {
					return FlagValidators(value, TemplateOutputValidator)
				},
			},
			NewOutFlag(),
		}, NewSiteFlags("synth", meta.Config.Source)...), NewAWSFlags("synth", meta.Config.Source)...),
		Action: synthCommandAction,
	}
}
