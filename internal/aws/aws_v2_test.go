// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"os"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's shared AWS config out of the tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent/aws-config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent/aws-credentials")
	for _, k := range []string{"AWS_PROFILE", "AWS_DEFAULT_PROFILE", "AWS_REGION", "AWS_DEFAULT_REGION", "AWS_ENDPOINT_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// TestOptions verifies that each option sets its field.
func TestOptions(t *testing.T) {
	var opts options
	WithProfile("site")(&opts)
	WithRegion("eu-west-1")(&opts)
	WithEndpoint("http://localhost:4566")(&opts)
	WithRetryer(func() awsv2.Retryer { return retry.NewStandard() })(&opts)

	assert.Equal(t, "site", opts.profile)
	assert.Equal(t, "eu-west-1", opts.region)
	assert.Equal(t, "http://localhost:4566", opts.endpoint)
	require.NotNil(t, opts.retryer)
	assert.NotNil(t, opts.retryer())
}

// TestLoadAWSConfig_DefaultRegion verifies the CloudFront region is used
// when nothing in the environment names one.
func TestLoadAWSConfig_DefaultRegion(t *testing.T) {
	isolate(t)

	cfg, err := LoadAWSConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, cfg.Region)
}

// TestLoadAWSConfig_OptionsOrder verifies that later options override
// earlier ones.
func TestLoadAWSConfig_OptionsOrder(t *testing.T) {
	isolate(t)

	cfg, err := LoadAWSConfig(context.Background(), WithRegion("us-west-2"), WithRegion("eu-central-1"))
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", cfg.Region)
}

// TestLoadAWSConfig_Endpoint verifies the base endpoint reaches the config.
func TestLoadAWSConfig_Endpoint(t *testing.T) {
	isolate(t)

	cfg, err := LoadAWSConfig(context.Background(), WithEndpoint("http://localhost:4566"))
	require.NoError(t, err)
	require.NotNil(t, cfg.BaseEndpoint)
	assert.Equal(t, "http://localhost:4566", *cfg.BaseEndpoint)
}

// TestClients verifies each constructor yields a client from a valid config.
func TestClients(t *testing.T) {
	isolate(t)

	cfg, err := LoadAWSConfig(context.Background(), WithRegion("us-east-1"))
	require.NoError(t, err)

	assert.IsType(t, &s3v2.Client{}, NewS3(cfg, WithS3PathStyle()))
	assert.NotNil(t, NewCloudFormation(cfg))
	assert.NotNil(t, NewCloudFront(cfg))
	assert.NotNil(t, NewRoute53(cfg))
	assert.NotNil(t, NewSSM(cfg))
}

// TestWithS3PathStyle verifies the option flips path-style addressing.
func TestWithS3PathStyle(t *testing.T) {
	var o s3v2.Options
	WithS3PathStyle()(&o)
	assert.True(t, o.UsePathStyle)
}
