// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = `{
  "AWSTemplateFormatVersion": "2010-09-09",
  "Metadata": {"sitectl:Version": "v1.2.3"},
  "Resources": {
    "Assets": {"Type": "AWS::S3::Bucket", "Properties": {"BucketName": "example-website-prod-static-assets"}},
    "Redirect": {"Type": "AWS::S3::Bucket", "Properties": {"BucketName": "www.example.com"}},
    "Dist": {"Type": "AWS::CloudFront::Distribution", "Properties": {"DistributionConfig": {"Aliases": ["example.com"], "Enabled": true, "HttpPort": 80}}}
  },
  "Outputs": {"SiteURL": {"Value": "https://example.com"}}
}`

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`length(Resources)`, "3"},
		{`keys(Resources)`, `["Assets","Dist","Redirect"]`},
		{`Resources.Assets.Properties.BucketName`, "example-website-prod-static-assets"},
		{`upper(Outputs.SiteURL.Value)`, "HTTPS://EXAMPLE.COM"},
		{`Metadata["sitectl:Version"]`, "v1.2.3"},
		{`template.AWSTemplateFormatVersion`, "2010-09-09"},
		{`Resources.Dist.Properties.DistributionConfig.Enabled`, "true"},
		{`Resources.Dist.Properties.DistributionConfig.HttpPort`, "80"},
		{`Resources.Dist.Properties.DistributionConfig.Aliases`, `["example.com"]`},
		{`sort([for id, r in Resources : id if r.Type == "AWS::S3::Bucket"])`, `["Assets","Redirect"]`},
		{`try(Resources.Missing.Type, "none")`, "none"},
		{`length(Parameters)`, "0"},
		{`length(Outputs)`, "1"},
		{`length(Resources.Dist.Properties.DistributionConfig)`, "3"},
		{`length(Resources.Dist.Properties.DistributionConfig.Aliases)`, "1"},
		{`length(keys(Resources))`, "3"},
		{`length("example")`, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			val, err := Eval(tt.expr, []byte(body))
			require.NoError(t, err)
			got, err := Format(val)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	_, err := Eval(`Resources.`, []byte(body))
	assert.ErrorContains(t, err, "parse")

	_, err = Eval(`Resources.Missing.Type`, []byte(body))
	assert.ErrorContains(t, err, "evaluate")

	_, err = Eval(`nosuchfunc(1)`, []byte(body))
	assert.Error(t, err)

	_, err = Eval(`1`, []byte(`[1,2]`))
	assert.Error(t, err)

	_, err = Eval(`length(1)`, []byte(body))
	assert.Error(t, err)

	_, err = Eval(`1`, []byte(`{broken`))
	assert.Error(t, err)
}
