// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/config"
	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// The arg[1] immediately following the binary (arg[0]) is the sitectl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is fine; every value can come from flags or the
	// environment.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("no config file: err=%v", err)
	}
	cfg.Namespace = ns
	config.Config.Namespace = ns

	return NewApp(meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}), nil
}

// NewApp assembles the command tree around meta.
func NewApp(meta meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:      "sitectl",
		Usage:     "static site control",
		Writer:    meta.Stdout,
		ErrWriter: meta.Stderr,
		Reader:    meta.Stdin,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "sitectl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		synthCommandBuilder(meta),
		lsCommandBuilder(meta),
		diffCommandBuilder(meta),
		deployCommandBuilder(meta),
		publishCommandBuilder(meta),
		destroyCommandBuilder(meta),
		queryCommandBuilder(meta),
		themeCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}
