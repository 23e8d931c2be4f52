// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package site

import (
	"fmt"
	"strings"
	"time"
)

// Kind names the category of a declared resource.
type Kind string

const (
	KindZone             Kind = "Zone"
	KindAssetStore       Kind = "AssetStore"
	KindDistribution     Kind = "Distribution"
	KindDeploymentAction Kind = "DeploymentAction"
	KindAliasRecord      Kind = "AliasRecord"
	KindRedirectStore    Kind = "RedirectStore"
)

// Resource is a single declaration in the topology.
type Resource interface {
	LogicalID() string
	Kind() Kind
	// Name is the resource's most recognizable physical name (bucket name,
	// record name, first alias).
	Name() string
}

// Zone is the imported hosted zone. It is never created or modified.
type Zone struct {
	ID           string
	HostedZoneID string
	ZoneName     string
}

func (z *Zone) LogicalID() string { return z.ID }
func (z *Zone) Kind() Kind        { return KindZone }
func (z *Zone) Name() string      { return z.ZoneName }

// AssetStore is the public website bucket holding the built site.
type AssetStore struct {
	ID            string
	BucketName    string
	PublicRead    bool
	IndexDocument string
	ErrorDocument string
}

func (s *AssetStore) LogicalID() string { return s.ID }
func (s *AssetStore) Kind() Kind        { return KindAssetStore }
func (s *AssetStore) Name() string      { return s.BucketName }

// RedirectStore is a content-less bucket that redirects every request.
type RedirectStore struct {
	ID               string
	BucketName       string
	RedirectHostName string
	Protocol         string
}

func (s *RedirectStore) LogicalID() string { return s.ID }
func (s *RedirectStore) Kind() Kind        { return KindRedirectStore }
func (s *RedirectStore) Name() string      { return s.BucketName }

// OriginProtocolPolicy values accepted by CloudFront custom origins.
const (
	OriginHTTPOnly = "http-only"
	ViewerHTTPS    = "redirect-to-https"
	ProtocolHTTPS  = "https"
	SSLSupportSNI  = "sni-only"
	MinimumTLS     = "TLSv1.2_2021"
)

// Origin binds a distribution to a bucket's website endpoint.
type Origin struct {
	// StoreID is the logical ID of the AssetStore or RedirectStore.
	StoreID        string
	ProtocolPolicy string
}

// Behavior is the distribution's default cache behavior.
type Behavior struct {
	Compress             bool
	ViewerProtocolPolicy string
}

// AliasConfig is the alternate domain set bound to a TLS certificate.
type AliasConfig struct {
	CertificateArn         string
	Names                  []string
	SSLSupportMethod       string
	MinimumProtocolVersion string
}

// Distribution is a CloudFront distribution with exactly one origin, one
// default behavior and one alias set.
type Distribution struct {
	ID                string
	Origin            Origin
	DefaultBehavior   Behavior
	Aliases           AliasConfig
	PriceClass        string
	DefaultRootObject string
}

func (d *Distribution) LogicalID() string { return d.ID }
func (d *Distribution) Kind() Kind        { return KindDistribution }
func (d *Distribution) Name() string      { return strings.Join(d.Aliases.Names, ",") }

// AliasRecord maps a hostname to a distribution with a Route 53 alias A record.
type AliasRecord struct {
	ID             string
	ZoneID         string
	RecordName     string
	DistributionID string
}

func (r *AliasRecord) LogicalID() string { return r.ID }
func (r *AliasRecord) Kind() Kind        { return KindAliasRecord }
func (r *AliasRecord) Name() string      { return r.RecordName }

// CacheControl is the Cache-Control metadata applied to deployed objects.
type CacheControl struct {
	Public bool
	MaxAge time.Duration
}

// DeploymentCacheControl is applied to every published object.
var DeploymentCacheControl = CacheControl{Public: true, MaxAge: 24 * time.Hour}

// String renders the header value, e.g. "public, max-age=86400".
func (c CacheControl) String() string {
	var parts []string
	if c.Public {
		parts = append(parts, "public")
	}
	parts = append(parts, fmt.Sprintf("max-age=%d", int64(c.MaxAge/time.Second)))
	return strings.Join(parts, ", ")
}

// DeploymentAction pushes the local build directory into the asset store and
// invalidates the primary distribution.
type DeploymentAction struct {
	ID             string
	ActionName     string
	Source         string
	DestinationID  string
	DistributionID string
	Paths          []string
	CacheControl   CacheControl
	Prune          bool
}

func (a *DeploymentAction) LogicalID() string { return a.ID }
func (a *DeploymentAction) Kind() Kind        { return KindDeploymentAction }
func (a *DeploymentAction) Name() string      { return a.ActionName }
