// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package site

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/hackerinthewoods/sitectl/internal/log"
)

// Topology is the full set of declarations for one site, in dependency order.
type Topology struct {
	Params Params

	Zone                 *Zone
	Assets               *AssetStore
	Distribution         *Distribution
	Deployment           *DeploymentAction
	Record               *AliasRecord
	Redirect             *RedirectStore
	RedirectDistribution *Distribution
	RedirectRecord       *AliasRecord

	order []Resource
}

// Build validates p and declares the site's resources. On a configuration
// error no topology is returned.
func Build(p Params) (*Topology, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.WithDefaults()
	id := func(suffix string) string { return LogicalID(p.StackID + "-" + suffix) }

	t := &Topology{Params: p}

	t.Zone = &Zone{
		ID:           "Route53",
		HostedZoneID: p.Zone.HostedZoneID,
		ZoneName:     p.Zone.ZoneName,
	}
	t.declare(t.Zone)

	t.Assets = &AssetStore{
		ID:            id("website-production-assets"),
		BucketName:    p.AssetBucketName,
		PublicRead:    true,
		IndexDocument: p.IndexDocument,
		ErrorDocument: p.ErrorDocument,
	}
	t.declare(t.Assets)

	t.Distribution = &Distribution{
		ID:     id("website-production-distribution"),
		Origin: Origin{StoreID: t.Assets.ID, ProtocolPolicy: OriginHTTPOnly},
		DefaultBehavior: Behavior{
			Compress:             true,
			ViewerProtocolPolicy: ViewerHTTPS,
		},
		Aliases:           aliases(p.CertificateArn, p.HostName),
		PriceClass:        p.PriceClass,
		DefaultRootObject: p.IndexDocument,
	}
	t.declare(t.Distribution)

	t.Deployment = &DeploymentAction{
		ID:             "DeployWebsite",
		ActionName:     "Website Deployment",
		Source:         p.BuildDir,
		DestinationID:  t.Assets.ID,
		DistributionID: t.Distribution.ID,
		Paths:          []string{"/*"},
		CacheControl:   DeploymentCacheControl,
		Prune:          false,
	}
	t.declare(t.Deployment)

	t.Record = &AliasRecord{
		ID:             id("alias-record-production"),
		ZoneID:         t.Zone.ID,
		RecordName:     p.HostName,
		DistributionID: t.Distribution.ID,
	}
	t.declare(t.Record)

	t.Redirect = &RedirectStore{
		ID:               id("website-production-assets-www-redirect"),
		BucketName:       p.RedirectHostName(),
		RedirectHostName: p.HostName,
		Protocol:         ProtocolHTTPS,
	}
	t.declare(t.Redirect)

	t.RedirectDistribution = &Distribution{
		ID:     id("website-production-distribution-redirect"),
		Origin: Origin{StoreID: t.Redirect.ID, ProtocolPolicy: OriginHTTPOnly},
		DefaultBehavior: Behavior{
			ViewerProtocolPolicy: ViewerHTTPS,
		},
		Aliases:           aliases(p.CertificateArn, p.RedirectHostName()),
		PriceClass:        p.PriceClass,
		DefaultRootObject: "",
	}
	t.declare(t.RedirectDistribution)

	t.RedirectRecord = &AliasRecord{
		ID:             id("alias-record-production-www-redirect"),
		ZoneID:         t.Zone.ID,
		RecordName:     p.RedirectHostName(),
		DistributionID: t.RedirectDistribution.ID,
	}
	t.declare(t.RedirectRecord)

	log.Debugf("topology built: host=%s, resources=%d", p.HostName, len(t.order))
	return t, nil
}

func aliases(certificateArn string, names ...string) AliasConfig {
	return AliasConfig{
		CertificateArn:         certificateArn,
		Names:                  names,
		SSLSupportMethod:       SSLSupportSNI,
		MinimumProtocolVersion: MinimumTLS,
	}
}

func (t *Topology) declare(r Resource) {
	log.Tracef("declare: kind=%s, id=%s, name=%s", r.Kind(), r.LogicalID(), r.Name())
	t.order = append(t.order, r)
}

// Resources returns the declarations in dependency order.
func (t *Topology) Resources() []Resource {
	out := make([]Resource, len(t.order))
	copy(out, t.order)
	return out
}

// Count returns the number of declarations of kind k.
func (t *Topology) Count(k Kind) int {
	n := 0
	for _, r := range t.order {
		if r.Kind() == k {
			n++
		}
	}
	return n
}

// Lookup returns the declaration with the given logical ID.
func (t *Topology) Lookup(logicalID string) (Resource, bool) {
	for _, r := range t.order {
		if r.LogicalID() == logicalID {
			return r, true
		}
	}
	return nil, false
}

// Validate checks the structural invariants of the topology: every reference
// points at an earlier declaration of the right kind and every distribution
// carries exactly one non-empty alias set.
func (t *Topology) Validate() error {
	var errs []error
	seen := map[string]Kind{}

	ref := func(from Resource, id string, want ...Kind) {
		k, ok := seen[id]
		if !ok {
			errs = append(errs, fmt.Errorf("%s references undeclared %s", from.LogicalID(), id))
			return
		}
		for _, w := range want {
			if k == w {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s references %s of kind %s", from.LogicalID(), id, k))
	}

	for _, r := range t.order {
		if _, dup := seen[r.LogicalID()]; dup {
			errs = append(errs, fmt.Errorf("duplicate logical id %s", r.LogicalID()))
		}

		switch r := r.(type) {
		case *Distribution:
			ref(r, r.Origin.StoreID, KindAssetStore, KindRedirectStore)
			if len(r.Aliases.Names) == 0 || r.Aliases.CertificateArn == "" {
				errs = append(errs, fmt.Errorf("%s has no alias set", r.ID))
			}
		case *AliasRecord:
			ref(r, r.ZoneID, KindZone)
			ref(r, r.DistributionID, KindDistribution)
		case *DeploymentAction:
			ref(r, r.DestinationID, KindAssetStore)
			ref(r, r.DistributionID, KindDistribution)
		}

		seen[r.LogicalID()] = r.Kind()
	}

	return errors.Join(errs...)
}

// LogicalID turns a dashed identifier into a CloudFormation logical ID, e.g.
// "Website-alias-record-production" becomes "WebsiteAliasRecordProduction".
func LogicalID(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
