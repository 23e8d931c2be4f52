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
	"github.com/hackerinthewoods/sitectl/internal/theme"
)

// themeCommandAction prints the design tokens, or the tailwind theme document
// with --output json.
func themeCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %v", meta.Args[1:])

	tokens, err := theme.Load()
	if err != nil {
		return err
	}
	if err := tokens.Validate(); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}

	if cmd.String("output") != "json" {
		tokens.Render(meta.Stdout, cmd.Bool("swatches"))
		return nil
	}

	b, err := tokens.TailwindJSON()
	if err != nil {
		return fmt.Errorf("failed to render theme: %w", err)
	}
	if out := cmd.String("out"); out != "" {
		if err := os.WriteFile(out, b, 0o644); err != nil { //nolint:gosec
			return fmt.Errorf("failed to write theme: %w", err)
		}
		log.Infof("theme written: path=%s", out)
		return nil
	}
	_, err = meta.Stdout.Write(b)
	return err
}

func themeCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "show the site's design tokens",
		UsageText: "sitectl theme [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "text table or tailwind json",
				Value:   "text",
				Validator: func(value string) error {
					return FlagValidators(value, OneOf("text", "json"))
				},
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "write the json document to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "swatches",
				Usage: "paint a color sample beside each color",
				Value: true,
			},
		},
		Action: themeCommandAction,
	}
}
