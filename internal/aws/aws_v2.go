// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cfnv2 "github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cloudfrontv2 "github.com/aws/aws-sdk-go-v2/service/cloudfront"
	route53v2 "github.com/aws/aws-sdk-go-v2/service/route53"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	ssmv2 "github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/hackerinthewoods/sitectl/internal/log"
)

// DefaultRegion is where CloudFront certificates and the site stack live.
const DefaultRegion = "us-east-1"

// options holds optional overrides for AWS config loading.
type options struct {
	profile  string
	region   string
	endpoint string
	retryer  func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile, region, endpoint and retryer without changing callers.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s, endpoint=%s", o.profile, o.region, o.endpoint)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(o.endpoint))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}
	log.Debugf("loadOpts built: len=%d", len(loadOpts))

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	log.Debugf("config loaded: region=%s", cfg.Region)
	return cfg, nil
}

// NewS3 constructs a v2 S3 client from the provided config. Additional service
// options can be supplied via optFns.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created")
	return client
}

// NewCloudFormation constructs a CloudFormation client.
func NewCloudFormation(cfg awsv2.Config, optFns ...func(*cfnv2.Options)) *cfnv2.Client {
	client := cfnv2.NewFromConfig(cfg, optFns...)
	log.Debugf("cloudformation client created")
	return client
}

// NewCloudFront constructs a CloudFront client.
func NewCloudFront(cfg awsv2.Config, optFns ...func(*cloudfrontv2.Options)) *cloudfrontv2.Client {
	client := cloudfrontv2.NewFromConfig(cfg, optFns...)
	log.Debugf("cloudfront client created")
	return client
}

// NewRoute53 constructs a Route 53 client.
func NewRoute53(cfg awsv2.Config, optFns ...func(*route53v2.Options)) *route53v2.Client {
	client := route53v2.NewFromConfig(cfg, optFns...)
	log.Debugf("route53 client created")
	return client
}

// NewSSM constructs an SSM client.
func NewSSM(cfg awsv2.Config, optFns ...func(*ssmv2.Options)) *ssmv2.Client {
	client := ssmv2.NewFromConfig(cfg, optFns...)
	log.Debugf("ssm client created")
	return client
}

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain
// and finally DefaultRegion.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points every client at a single base endpoint, e.g. a
// LocalStack instance.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// WithS3PathStyle forces path-style S3 addressing, which emulators need.
func WithS3PathStyle() func(*s3v2.Options) {
	return func(o *s3v2.Options) {
		o.UsePathStyle = true
	}
}
