// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/hackerinthewoods/sitectl/internal/site"
)

func buildTemplate(t *testing.T) *Template {
	t.Helper()
	topo, err := site.Build(site.Params{
		HostName:       "example.com",
		CertificateArn: "arn:aws:acm:us-east-1:123456789012:certificate/abc-123",
		Zone: site.ZoneAttributes{
			HostedZoneID: "Z0123456789ABC",
			ZoneName:     "example.com",
		},
	})
	require.NoError(t, err)

	tpl, err := Synthesize(topo, Options{Description: "Stack for the example.com website.", Version: "test"})
	require.NoError(t, err)
	return tpl
}

func renderJSON(t *testing.T, tpl *Template) string {
	t.Helper()
	b, err := tpl.JSON()
	require.NoError(t, err)
	return string(b)
}

func TestSynthesize_Counts(t *testing.T) {
	tpl := buildTemplate(t)

	assert.Equal(t, map[string]int{
		TypeBucket:       2,
		TypeBucketPolicy: 1,
		TypeDistribution: 2,
		TypeRecordSet:    2,
	}, tpl.Counts())
	assert.Len(t, tpl.ResourceIDs(), 7)
}

func TestSynthesize_Aliases(t *testing.T) {
	doc := renderJSON(t, buildTemplate(t))

	primary := gjson.Get(doc, "Resources.WebsiteWebsiteProductionDistribution.Properties.DistributionConfig")
	assert.Equal(t, `["example.com"]`, primary.Get("Aliases|@ugly").Raw)
	assert.True(t, primary.Get("DefaultCacheBehavior.Compress").Bool())
	assert.Equal(t, "index.html", primary.Get("DefaultRootObject").String())
	assert.Equal(t, "PriceClass_100", primary.Get("PriceClass").String())
	assert.Equal(t, "http-only", primary.Get("Origins.0.CustomOriginConfig.OriginProtocolPolicy").String())
	assert.Equal(t, "sni-only", primary.Get("ViewerCertificate.SslSupportMethod").String())

	redirect := gjson.Get(doc, "Resources.WebsiteWebsiteProductionDistributionRedirect.Properties.DistributionConfig")
	assert.Equal(t, `["www.example.com"]`, redirect.Get("Aliases|@ugly").Raw)
	assert.False(t, redirect.Get("DefaultCacheBehavior.Compress").Bool())
	assert.True(t, redirect.Get("DefaultRootObject").Exists())
	assert.Equal(t, "", redirect.Get("DefaultRootObject").String())
}

func TestSynthesize_OriginsPointAtWebsiteEndpoints(t *testing.T) {
	doc := renderJSON(t, buildTemplate(t))

	domain := gjson.Get(doc, "Resources.WebsiteWebsiteProductionDistributionRedirect.Properties.DistributionConfig.Origins.0.DomainName")
	split := domain.Get(`Fn\:\:Select.1.Fn\:\:Split`)
	require.True(t, split.Exists(), domain.Raw)
	assert.Equal(t, "://", split.Get("0").String())
	assert.Equal(t, `["WebsiteWebsiteProductionAssetsWwwRedirect","WebsiteURL"]`, split.Get(`1.Fn\:\:GetAtt|@ugly`).Raw)
}

func TestSynthesize_RedirectBucket(t *testing.T) {
	doc := renderJSON(t, buildTemplate(t))

	props := gjson.Get(doc, "Resources.WebsiteWebsiteProductionAssetsWwwRedirect.Properties")
	assert.Equal(t, "www.example.com", props.Get("BucketName").String())
	assert.Equal(t, "example.com", props.Get("WebsiteConfiguration.RedirectAllRequestsTo.HostName").String())
	assert.Equal(t, "https", props.Get("WebsiteConfiguration.RedirectAllRequestsTo.Protocol").String())
}

func TestSynthesize_Records(t *testing.T) {
	doc := renderJSON(t, buildTemplate(t))

	apex := gjson.Get(doc, "Resources.WebsiteAliasRecordProduction.Properties")
	assert.Equal(t, "example.com.", apex.Get("Name").String())
	assert.Equal(t, "A", apex.Get("Type").String())
	assert.Equal(t, "Z0123456789ABC", apex.Get("HostedZoneId").String())
	assert.Equal(t, CloudFrontHostedZoneID, apex.Get("AliasTarget.HostedZoneId").String())

	www := gjson.Get(doc, "Resources.WebsiteAliasRecordProductionWwwRedirect.Properties")
	assert.Equal(t, "www.example.com.", www.Get("Name").String())
}

func TestSynthesize_DeploymentMetadata(t *testing.T) {
	doc := renderJSON(t, buildTemplate(t))

	md := gjson.Get(doc, `Metadata.sitectl\:Deployment`)
	require.True(t, md.Exists())
	assert.Equal(t, "public, max-age=86400", md.Get("CacheControl").String())
	assert.Equal(t, `["/*"]`, md.Get("Paths|@ugly").Raw)
	assert.False(t, md.Get("Prune").Bool())
	assert.Equal(t, "WebsiteWebsiteProductionAssets", md.Get("Destination").String())
	assert.Equal(t, "test", gjson.Get(doc, `Metadata.sitectl\:Version`).String())
}

func TestSynthesize_Outputs(t *testing.T) {
	doc := renderJSON(t, buildTemplate(t))

	assert.Equal(t, "WebsiteWebsiteProductionAssets", gjson.Get(doc, "Outputs.AssetBucketName.Value.Ref").String())
	assert.Equal(t, "WebsiteWebsiteProductionDistribution", gjson.Get(doc, "Outputs.DistributionId.Value.Ref").String())
	assert.Equal(t, "https://example.com", gjson.Get(doc, "Outputs.SiteURL.Value").String())

	for _, key := range []string{OutputAssetBucket, OutputDistributionID} {
		join := gjson.Get(doc, "Outputs."+key+`.Export.Name.Fn\:\:Join`)
		require.True(t, join.Exists(), key)
		assert.Equal(t, "-", join.Get("0").String())
		assert.Equal(t, "AWS::StackName", join.Get("1.0.Ref").String())
		assert.Equal(t, key, join.Get("1.1").String())
	}
	assert.False(t, gjson.Get(doc, "Outputs.SiteURL.Export").Exists())
}

func TestSynthesize_Deterministic(t *testing.T) {
	a := renderJSON(t, buildTemplate(t))
	b := renderJSON(t, buildTemplate(t))
	assert.Equal(t, a, b)
}

func TestSynthesize_NilTopology(t *testing.T) {
	_, err := Synthesize(nil, Options{})
	assert.ErrorIs(t, err, site.ErrConfig)
}

func TestYAMLMatchesJSON(t *testing.T) {
	tpl := buildTemplate(t)

	j, err := tpl.JSON()
	require.NoError(t, err)
	y, err := tpl.YAML()
	require.NoError(t, err)

	nj, err := Normalize(j)
	require.NoError(t, err)
	ny, err := Normalize(y)
	require.NoError(t, err)
	assert.JSONEq(t, string(nj), string(ny))
}

func TestNormalize(t *testing.T) {
	got, err := Normalize([]byte("  "))
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = Normalize([]byte("b: 1\na: x\n"))
	assert.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1}`, string(got))

	_, err = Normalize([]byte("{broken"))
	assert.Error(t, err)
}
