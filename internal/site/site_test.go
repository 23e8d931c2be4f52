// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package site

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCert = "arn:aws:acm:us-east-1:123456789012:certificate/0f1e2d3c-aaaa-bbbb-cccc-1234567890ab"

func validParams() Params {
	return Params{
		HostName:       "example.com",
		CertificateArn: testCert,
		Zone: ZoneAttributes{
			HostedZoneID: "Z0123456789ABC",
			ZoneName:     "example.com",
		},
	}
}

func TestBuild_Counts(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	assert.Equal(t, 1, topo.Count(KindZone))
	assert.Equal(t, 1, topo.Count(KindAssetStore))
	assert.Equal(t, 2, topo.Count(KindDistribution))
	assert.Equal(t, 1, topo.Count(KindRedirectStore))
	assert.Equal(t, 2, topo.Count(KindAliasRecord))
	assert.Equal(t, 1, topo.Count(KindDeploymentAction))
	assert.NoError(t, topo.Validate())
}

func TestBuild_Order(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	var kinds []Kind
	for _, r := range topo.Resources() {
		kinds = append(kinds, r.Kind())
	}
	assert.Equal(t, []Kind{
		KindZone,
		KindAssetStore,
		KindDistribution,
		KindDeploymentAction,
		KindAliasRecord,
		KindRedirectStore,
		KindDistribution,
		KindAliasRecord,
	}, kinds)
}

func TestBuild_Aliases(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	assert.Equal(t, []string{"example.com"}, topo.Distribution.Aliases.Names)
	assert.Equal(t, []string{"www.example.com"}, topo.RedirectDistribution.Aliases.Names)
	assert.Equal(t, testCert, topo.Distribution.Aliases.CertificateArn)
	assert.Equal(t, testCert, topo.RedirectDistribution.Aliases.CertificateArn)
}

func TestBuild_RedirectStore(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	assert.Equal(t, "www.example.com", topo.Redirect.BucketName)
	assert.Equal(t, "example.com", topo.Redirect.RedirectHostName)
	assert.Equal(t, "https", topo.Redirect.Protocol)
	assert.Equal(t, topo.Redirect.ID, topo.RedirectDistribution.Origin.StoreID)
	assert.Equal(t, "", topo.RedirectDistribution.DefaultRootObject)
	assert.False(t, topo.RedirectDistribution.DefaultBehavior.Compress)
}

func TestBuild_AssetStore(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	assert.Equal(t, "example-com-website-prod-static-assets", topo.Assets.BucketName)
	assert.True(t, topo.Assets.PublicRead)
	assert.Equal(t, "index.html", topo.Assets.IndexDocument)
	assert.Equal(t, "404/index.html", topo.Assets.ErrorDocument)
	assert.Equal(t, OriginHTTPOnly, topo.Distribution.Origin.ProtocolPolicy)
	assert.True(t, topo.Distribution.DefaultBehavior.Compress)
	assert.Equal(t, "PriceClass_100", topo.Distribution.PriceClass)
}

func TestBuild_DeploymentAction(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	d := topo.Deployment
	assert.Equal(t, CacheControl{Public: true, MaxAge: 24 * time.Hour}, d.CacheControl)
	assert.Equal(t, "public, max-age=86400", d.CacheControl.String())
	assert.Equal(t, []string{"/*"}, d.Paths)
	assert.False(t, d.Prune)
	assert.Equal(t, "build", d.Source)
	assert.Equal(t, topo.Assets.ID, d.DestinationID)
	assert.Equal(t, topo.Distribution.ID, d.DistributionID)
}

func TestBuild_RecordNames(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	assert.Equal(t, "example.com", topo.Record.RecordName)
	assert.Equal(t, "www.example.com", topo.RedirectRecord.RecordName)
	assert.Equal(t, topo.Distribution.ID, topo.Record.DistributionID)
	assert.Equal(t, topo.RedirectDistribution.ID, topo.RedirectRecord.DistributionID)
}

func TestBuild_LogicalIDs(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	assert.Equal(t, "WebsiteWebsiteProductionAssets", topo.Assets.ID)
	assert.Equal(t, "WebsiteAliasRecordProductionWwwRedirect", topo.RedirectRecord.ID)

	r, ok := topo.Lookup("DeployWebsite")
	require.True(t, ok)
	assert.Equal(t, KindDeploymentAction, r.Kind())

	_, ok = topo.Lookup("Nope")
	assert.False(t, ok)
}

func TestBuild_Normalizes(t *testing.T) {
	p := validParams()
	p.HostName = "Example.COM."
	p.Zone.ZoneName = "example.com."

	topo, err := Build(p)
	require.NoError(t, err)
	assert.Equal(t, "example.com", topo.Record.RecordName)
	assert.Equal(t, "www.example.com", topo.Redirect.BucketName)
}

func TestBuild_Subdomain(t *testing.T) {
	p := validParams()
	p.HostName = "blog.example.com"

	topo, err := Build(p)
	require.NoError(t, err)
	assert.Equal(t, "www.blog.example.com", topo.RedirectRecord.RecordName)
	assert.Equal(t, "blog-example-com-website-prod-static-assets", topo.Assets.BucketName)
}

func TestWithDefaults_AssetBucketPerHost(t *testing.T) {
	tests := []struct {
		host string
		zone string
		want string
	}{
		{"example.com", "example.com", "example-com-website-prod-static-assets"},
		{"example.org", "example.org", "example-org-website-prod-static-assets"},
		{"blog.example.com", "example.com", "blog-example-com-website-prod-static-assets"},
		{"Blog.Other.NET.", "other.net", "blog-other-net-website-prod-static-assets"},
	}

	seen := map[string]string{}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			p := validParams()
			p.HostName = tt.host
			p.Zone.ZoneName = tt.zone

			topo, err := Build(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, topo.Assets.BucketName)

			other, dup := seen[topo.Assets.BucketName]
			assert.False(t, dup, "%s shares a bucket with %s", tt.host, other)
			seen[topo.Assets.BucketName] = tt.host
		})
	}
}

func TestBuild_MissingParameters(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantMsg string
	}{
		{"no certificate", func(p *Params) { p.CertificateArn = "" }, "missing certificateArn"},
		{"blank certificate", func(p *Params) { p.CertificateArn = "  " }, "missing certificateArn"},
		{"no host", func(p *Params) { p.HostName = "" }, "missing hostName"},
		{"no zone id", func(p *Params) { p.Zone.HostedZoneID = "" }, "missing zone.hostedZoneId"},
		{"no zone name", func(p *Params) { p.Zone.ZoneName = "" }, "missing zone.zoneName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			topo, err := Build(p)
			assert.Nil(t, topo, "no resource may be declared")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_ReportsAllMissing(t *testing.T) {
	err := Params{}.Validate()
	require.Error(t, err)
	for _, f := range []string{"hostName", "certificateArn", "zone.hostedZoneId", "zone.zoneName"} {
		assert.Contains(t, err.Error(), "missing "+f)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantMsg string
	}{
		{"host outside zone", func(p *Params) { p.HostName = "example.org" }, "not within zone"},
		{"bad host", func(p *Params) { p.HostName = "-bad-.example.com" }, "not a valid DNS name"},
		{"bad cert", func(p *Params) { p.CertificateArn = "not-an-arn" }, "not an ACM certificate ARN"},
		{"bad price class", func(p *Params) { p.PriceClass = "PriceClass_1" }, "priceClass"},
		{"bad stack id", func(p *Params) { p.StackID = "9lives" }, "stackId"},
		{"absolute index", func(p *Params) { p.IndexDocument = "/index.html" }, "relative keys"},
		{
			"redirect bucket too long",
			func(p *Params) {
				p.HostName = "a123456789012345678901234567890123456789012345678901234567.example.com"
				p.AssetBucketName = "assets"
			},
			"bucket name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestTopologyValidate_BrokenReferences(t *testing.T) {
	topo, err := Build(validParams())
	require.NoError(t, err)

	topo.Deployment.DestinationID = topo.Redirect.ID
	topo.RedirectDistribution.Aliases.Names = nil

	err = topo.Validate()
	require.Error(t, err)
	// The redirect store is declared after the deployment action.
	assert.Contains(t, err.Error(), "DeployWebsite references undeclared")
	assert.Contains(t, err.Error(), "has no alias set")
}

func TestCacheControl_String(t *testing.T) {
	assert.Equal(t, "max-age=60", CacheControl{MaxAge: time.Minute}.String())
	assert.Equal(t, "public, max-age=0", CacheControl{Public: true}.String())
}

func TestLogicalID(t *testing.T) {
	assert.Equal(t, "WebsiteAliasRecordProduction", LogicalID("Website-alias-record-production"))
	assert.Equal(t, "A1B", LogicalID("a.1-b"))
	assert.Equal(t, "", LogicalID("--"))
}
