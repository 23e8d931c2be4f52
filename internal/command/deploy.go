// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/cacheutil"
	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
	"github.com/hackerinthewoods/sitectl/internal/provision"
	"github.com/hackerinthewoods/sitectl/internal/template"
	"github.com/hackerinthewoods/sitectl/internal/ui"
	"github.com/hackerinthewoods/sitectl/internal/zone"
)

// deployCommandAction checks the hosted zone, applies the stack and then
// publishes the build directory into it.
func deployCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %v", meta.Args[1:])

	sess := newSession(cmd)
	s, err := LoadSite(ctx, cmd, sess)
	if err != nil {
		return err
	}
	c, err := sess.Clients(ctx)
	if err != nil {
		return err
	}

	hz, err := zone.Lookup(ctx, c.Route53, s.Params.Zone)
	if err != nil {
		return err
	}
	log.Infof("hosted zone %s (%s) has %d records", hz.Name, hz.ID, hz.Records)

	// The build is checked before the stack is touched.
	var buildDir string
	if !cmd.Bool("no-publish") {
		if buildDir, err = resolveBuildDir(s); err != nil {
			return err
		}
	}

	body, err := s.Template.JSON()
	if err != nil {
		return err
	}
	tags, err := StackTags(cmd, s.Params.HostName)
	if err != nil {
		return err
	}

	counts := s.Template.Counts()
	prompt := fmt.Sprintf("Deploy %s (%d resources) to stack %s?", s.Params.HostName, len(s.Template.Resources), s.StackName)
	for _, t := range sortedKeys(counts) {
		log.Debugf("plan: type=%s count=%d", t, counts[t])
	}
	if err := approve(ctx, cmd, prompt); err != nil {
		return err
	}

	engine := provision.NewEngine(c.CloudFormation)
	engine.Timeout = cmd.Duration("timeout")

	var res *provision.Result
	err = ui.Spin(ctx, "Deploying "+s.StackName, meta.Stderr, func(status func(string)) error {
		engine.OnStatus = status
		var err error
		res, err = engine.Apply(ctx, provision.StackSpec{Name: s.StackName, Body: body, Tags: tags})
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(meta.Stdout, "%s: %s\n", s.StackName, res.Status)
	for _, k := range sortedKeys(res.Outputs) {
		fmt.Fprintf(meta.Stdout, "  %s = %s\n", k, res.Outputs[k])
	}

	// A new stack means a new, empty asset bucket.
	if res.Created {
		if err := cacheutil.Forget(res.Outputs[template.OutputAssetBucket]); err != nil {
			log.WithError(err).Warnf("publish cache not cleared")
		}
	}

	if cmd.Bool("no-publish") {
		log.Infof("skipping publish")
		return nil
	}
	return runPublish(ctx, cmd, s, c, res.Outputs, buildDir)
}

func deployCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-publish",
			Usage: "apply the stack without uploading the build",
			Value: false,
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "stack tag as key=value, may be repeated",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "how long to wait for the stack to settle",
			Value: 30 * time.Minute,
		},
		NewYesFlag(),
	}
	flags = append(flags, NewPublishFlags()...)
	flags = append(flags, NewSiteFlags("deploy", meta.Config.Source)...)
	flags = append(flags, NewAWSFlags("deploy", meta.Config.Source)...)

	return &cli.Command{
		Name:      "deploy",
		Usage:     "apply the stack and publish the site",
		UsageText: "sitectl deploy [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: deployCommandAction,
	}
}
