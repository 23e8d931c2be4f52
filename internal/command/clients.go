// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	awsx "github.com/hackerinthewoods/sitectl/internal/aws"
	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/provision"
	"github.com/hackerinthewoods/sitectl/internal/publish"
	"github.com/hackerinthewoods/sitectl/internal/resolve"
	"github.com/hackerinthewoods/sitectl/internal/zone"
)

// Clients are the AWS service clients the commands talk to.
type Clients struct {
	CloudFormation provision.CloudFormationAPI
	S3             publish.Uploader
	CloudFront     publish.Invalidator
	Route53        zone.Route53API
	SSM            resolve.SSMAPI
}

// NewClients builds the AWS clients from the --region, --profile, --endpoint
// and --max-attempts flags. Tests replace it with fakes.
var NewClients = func(ctx context.Context, cmd *cli.Command) (*Clients, error) {
	var opts []awsx.Option
	if v := cmd.String("profile"); v != "" {
		opts = append(opts, awsx.WithProfile(v))
	}
	if v := cmd.String("region"); v != "" {
		opts = append(opts, awsx.WithRegion(v))
	}
	endpoint := cmd.String("endpoint")
	if endpoint != "" {
		opts = append(opts, awsx.WithEndpoint(endpoint))
	}
	if n := int(cmd.Int("max-attempts")); n > 0 {
		opts = append(opts, awsx.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), n)
		}))
	}

	cfg, err := awsx.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region != awsx.DefaultRegion {
		log.Warnf("region %s: CloudFront only accepts certificates from %s", cfg.Region, awsx.DefaultRegion)
	}

	var s3Opts []func(*s3.Options)
	if endpoint != "" {
		s3Opts = append(s3Opts, awsx.WithS3PathStyle())
	}

	return &Clients{
		CloudFormation: awsx.NewCloudFormation(cfg),
		S3:             awsx.NewS3(cfg, s3Opts...),
		CloudFront:     awsx.NewCloudFront(cfg),
		Route53:        awsx.NewRoute53(cfg),
		SSM:            awsx.NewSSM(cfg),
	}, nil
}
