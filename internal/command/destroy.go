// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/cacheutil"
	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
	"github.com/hackerinthewoods/sitectl/internal/provision"
	"github.com/hackerinthewoods/sitectl/internal/resolve"
	"github.com/hackerinthewoods/sitectl/internal/template"
	"github.com/hackerinthewoods/sitectl/internal/ui"
)

// destroyCommandAction deletes the site's stack. The hosted zone is not part
// of the stack and is left alone.
func destroyCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %v", meta.Args[1:])

	sess := newSession(cmd)
	host := cmd.String("host-name")
	if resolve.IsRef(host) {
		c, err := sess.Clients(ctx)
		if err != nil {
			return err
		}
		if host, err = resolve.New(c.SSM).Value(ctx, host); err != nil {
			return err
		}
	}
	if host == "" && cmd.String("stack-name") == "" {
		return errors.New("--host-name or --stack-name is required")
	}
	name := StackName(cmd, host)

	c, err := sess.Clients(ctx)
	if err != nil {
		return err
	}
	engine := provision.NewEngine(c.CloudFormation)
	engine.Timeout = cmd.Duration("timeout")

	outputs, err := engine.Outputs(ctx, name)
	if err != nil {
		if errors.Is(err, provision.ErrStackNotFound) {
			fmt.Fprintf(meta.Stdout, "%s: not deployed\n", name)
			return nil
		}
		return err
	}

	if err := approve(ctx, cmd, fmt.Sprintf("Destroy stack %s?", name)); err != nil {
		return err
	}

	err = ui.Spin(ctx, "Destroying "+name, meta.Stderr, func(status func(string)) error {
		engine.OnStatus = status
		return engine.Destroy(ctx, name)
	})
	if err != nil {
		// CloudFormation refuses to delete a bucket that still holds objects.
		return fmt.Errorf("%w (empty the asset bucket first if it still holds objects)", err)
	}

	if err := cacheutil.Forget(outputs[template.OutputAssetBucket]); err != nil {
		log.WithError(err).Warnf("publish cache not cleared")
	}

	fmt.Fprintf(meta.Stdout, "%s: destroyed\n", name)
	return nil
}

func destroyCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "how long to wait for the stack to be deleted",
			Value: 30 * time.Minute,
		},
		NewYesFlag(),
	}
	flags = append(flags, NewSiteFlags("destroy", meta.Config.Source)...)
	flags = append(flags, NewAWSFlags("destroy", meta.Config.Source)...)

	return &cli.Command{
		Name:      "destroy",
		Usage:     "delete the site's stack",
		UsageText: "sitectl destroy [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: destroyCommandAction,
	}
}
