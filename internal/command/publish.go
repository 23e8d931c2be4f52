// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
	"github.com/hackerinthewoods/sitectl/internal/provision"
	"github.com/hackerinthewoods/sitectl/internal/publish"
	"github.com/hackerinthewoods/sitectl/internal/template"
	"github.com/hackerinthewoods/sitectl/internal/ui"
	"github.com/hackerinthewoods/sitectl/internal/util"
)

// publishCommandAction uploads the build into an already applied stack.
func publishCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %v", meta.Args[1:])

	sess := newSession(cmd)
	s, err := LoadSite(ctx, cmd, sess)
	if err != nil {
		return err
	}
	buildDir, err := resolveBuildDir(s)
	if err != nil {
		return err
	}
	c, err := sess.Clients(ctx)
	if err != nil {
		return err
	}

	outputs, err := provision.NewEngine(c.CloudFormation).Outputs(ctx, s.StackName)
	if err != nil {
		return fmt.Errorf("stack %s: %w", s.StackName, err)
	}

	return runPublish(ctx, cmd, s, c, outputs, buildDir)
}

// runPublish executes the site's deployment action against the physical names
// the stack reported.
func runPublish(ctx context.Context, cmd *cli.Command, s *Site, c *Clients, outputs map[string]string, buildDir string) error {
	meta := GetMeta(cmd)

	bucket := outputs[template.OutputAssetBucket]
	if bucket == "" {
		return fmt.Errorf("stack %s has no %s output", s.StackName, template.OutputAssetBucket)
	}
	distID := outputs[template.OutputDistributionID]
	if distID == "" {
		log.Warnf("stack %s has no %s output, skipping invalidation", s.StackName, template.OutputDistributionID)
	}

	concurrency := int(cmd.Int("concurrency"))
	if err := FlagValidators(concurrency, PositiveValidator); err != nil {
		return fmt.Errorf("invalid --concurrency: %w", err)
	}

	req := publish.FromAction(s.Topology.Deployment, bucket, distID)
	req.BuildDir = buildDir

	var summary *publish.Summary
	err := ui.Spin(ctx, "Publishing to "+bucket, meta.Stderr, func(status func(string)) error {
		p := &publish.Publisher{
			S3:          c.S3,
			CloudFront:  c.CloudFront,
			Concurrency: concurrency,
			Incremental: cmd.Bool("incremental"),
			OnProgress: func(done, total int) {
				status(fmt.Sprintf("%d/%d", done, total))
			},
		}
		var err error
		summary, err = p.Publish(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(meta.Stdout, summary)
	return nil
}

func resolveBuildDir(s *Site) (string, error) {
	dir, err := util.ResolveBuildDir(s.Params.BuildDir, s.Params.IndexDocument)
	if err != nil {
		return "", fmt.Errorf("build directory %q: %w", s.Params.BuildDir, err)
	}
	return dir, nil
}

func publishCommandBuilder(meta meta.Meta) *cli.Command {
	flags := NewPublishFlags()
	flags = append(flags, NewSiteFlags("publish", meta.Config.Source)...)
	flags = append(flags, NewAWSFlags("publish", meta.Config.Source)...)

	return &cli.Command{
		Name:      "publish",
		Usage:     "upload the build and invalidate the distribution",
		UsageText: "sitectl publish [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: publishCommandAction,
	}
}
