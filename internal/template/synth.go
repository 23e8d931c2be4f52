// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"

	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/site"
)

// CloudFront's fixed hosted zone ID for alias targets.
const CloudFrontHostedZoneID = "Z2FDTNDATAQYW2"

// Resource types emitted by Synthesize.
const (
	TypeBucket       = "AWS::S3::Bucket"
	TypeBucketPolicy = "AWS::S3::BucketPolicy"
	TypeDistribution = "AWS::CloudFront::Distribution"
	TypeRecordSet    = "AWS::Route53::RecordSet"
)

// Output keys read back after a stack is applied.
const (
	OutputAssetBucket            = "AssetBucketName"
	OutputDistributionID         = "DistributionId"
	OutputDistributionDomain     = "DistributionDomainName"
	OutputRedirectDistributionID = "RedirectDistributionId"
	OutputSiteURL                = "SiteURL"
)

// MetadataDeployment is the template Metadata key describing the deployment
// action, which runs outside CloudFormation.
const MetadataDeployment = "sitectl:Deployment"

// Options tune the rendered template.
type Options struct {
	Description string
	Version     string
}

// Synthesize renders a topology into a CloudFormation template. The topology
// is checked first so a broken graph is never rendered.
func Synthesize(t *site.Topology, opts Options) (*Template, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nothing to synthesize", site.ErrConfig)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid topology: %w", err)
	}

	tpl := &Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              opts.Description,
		Metadata:                 map[string]any{},
		Resources:                map[string]Resource{},
		Outputs:                  map[string]Output{},
	}
	if opts.Version != "" {
		tpl.Metadata["sitectl:Version"] = opts.Version
	}

	for _, r := range t.Resources() {
		switch r := r.(type) {
		case *site.Zone:
			// Imported; referenced by ID only.
		case *site.AssetStore:
			assetStore(tpl, r)
		case *site.RedirectStore:
			redirectStore(tpl, r)
		case *site.Distribution:
			distribution(tpl, r)
		case *site.AliasRecord:
			aliasRecord(tpl, r, t.Zone)
		case *site.DeploymentAction:
			tpl.Metadata[MetadataDeployment] = map[string]any{
				"LogicalId":    r.ID,
				"ActionName":   r.ActionName,
				"Source":       r.Source,
				"Destination":  r.DestinationID,
				"Distribution": r.DistributionID,
				"Paths":        r.Paths,
				"CacheControl": r.CacheControl.String(),
				"Prune":        r.Prune,
			}
		default:
			return nil, fmt.Errorf("unsupported resource %T", r)
		}
		log.Tracef("synthesized: id=%s", r.LogicalID())
	}

	tpl.Outputs[OutputAssetBucket] = Output{
		Description: "Bucket holding the built site",
		Value:       Ref(t.Assets.ID),
		Export:      export(OutputAssetBucket),
	}
	tpl.Outputs[OutputDistributionID] = Output{
		Description: "Primary distribution to invalidate after publishing",
		Value:       Ref(t.Distribution.ID),
		Export:      export(OutputDistributionID),
	}
	tpl.Outputs[OutputDistributionDomain] = Output{
		Value: GetAtt(t.Distribution.ID, "DomainName"),
	}
	tpl.Outputs[OutputRedirectDistributionID] = Output{
		Value: Ref(t.RedirectDistribution.ID),
	}
	tpl.Outputs[OutputSiteURL] = Output{
		Value: "https://" + t.Params.HostName,
	}

	log.Debugf("template synthesized: resources=%d", len(tpl.Resources))
	return tpl, nil
}

// export names an output <stack name>-<key> so other stacks can import it.
func export(key string) *Export {
	return &Export{Name: Join("-", Ref("AWS::StackName"), key)}
}

func assetStore(tpl *Template, s *site.AssetStore) {
	tpl.Resources[s.ID] = Resource{
		Type: TypeBucket,
		Properties: map[string]any{
			"BucketName": s.BucketName,
			"WebsiteConfiguration": map[string]any{
				"IndexDocument": s.IndexDocument,
				"ErrorDocument": s.ErrorDocument,
			},
			"PublicAccessBlockConfiguration": map[string]any{
				"BlockPublicAcls":       !s.PublicRead,
				"BlockPublicPolicy":     !s.PublicRead,
				"IgnorePublicAcls":      !s.PublicRead,
				"RestrictPublicBuckets": !s.PublicRead,
			},
		},
	}

	if !s.PublicRead {
		return
	}

	tpl.Resources[s.ID+"Policy"] = Resource{
		Type: TypeBucketPolicy,
		Properties: map[string]any{
			"Bucket": Ref(s.ID),
			"PolicyDocument": map[string]any{
				"Version": "2012-10-17",
				"Statement": []any{
					map[string]any{
						"Effect":    "Allow",
						"Principal": "*",
						"Action":    "s3:GetObject",
						"Resource":  Join("", GetAtt(s.ID, "Arn"), "/*"),
					},
				},
			},
		},
	}
}

func redirectStore(tpl *Template, s *site.RedirectStore) {
	tpl.Resources[s.ID] = Resource{
		Type: TypeBucket,
		Properties: map[string]any{
			"BucketName": s.BucketName,
			"WebsiteConfiguration": map[string]any{
				"RedirectAllRequestsTo": map[string]any{
					"HostName": s.RedirectHostName,
					"Protocol": s.Protocol,
				},
			},
		},
	}
}

func distribution(tpl *Template, d *site.Distribution) {
	const originID = "origin1"

	aliases := make([]any, len(d.Aliases.Names))
	for i, n := range d.Aliases.Names {
		aliases[i] = n
	}

	tpl.Resources[d.ID] = Resource{
		Type: TypeDistribution,
		Properties: map[string]any{
			"DistributionConfig": map[string]any{
				"Enabled":           true,
				"Aliases":           aliases,
				"DefaultRootObject": d.DefaultRootObject,
				"HttpVersion":       "http2",
				"IPV6Enabled":       true,
				"PriceClass":        d.PriceClass,
				"Origins": []any{
					map[string]any{
						"Id":         originID,
						"DomainName": websiteDomain(d.Origin.StoreID),
						"CustomOriginConfig": map[string]any{
							"OriginProtocolPolicy": d.Origin.ProtocolPolicy,
							"HTTPPort":             80,
							"HTTPSPort":            443,
							"OriginSSLProtocols":   []any{"TLSv1.2"},
						},
					},
				},
				"DefaultCacheBehavior": map[string]any{
					"TargetOriginId":       originID,
					"ViewerProtocolPolicy": d.DefaultBehavior.ViewerProtocolPolicy,
					"Compress":             d.DefaultBehavior.Compress,
					"AllowedMethods":       []any{"GET", "HEAD"},
					"CachedMethods":        []any{"GET", "HEAD"},
					"ForwardedValues": map[string]any{
						"QueryString": false,
						"Cookies":     map[string]any{"Forward": "none"},
					},
				},
				"ViewerCertificate": map[string]any{
					"AcmCertificateArn":      d.Aliases.CertificateArn,
					"SslSupportMethod":       d.Aliases.SSLSupportMethod,
					"MinimumProtocolVersion": d.Aliases.MinimumProtocolVersion,
				},
			},
		},
	}
}

func aliasRecord(tpl *Template, r *site.AliasRecord, zone *site.Zone) {
	tpl.Resources[r.ID] = Resource{
		Type: TypeRecordSet,
		Properties: map[string]any{
			"HostedZoneId": zone.HostedZoneID,
			"Name":         r.RecordName + ".",
			"Type":         "A",
			"AliasTarget": map[string]any{
				"DNSName":      GetAtt(r.DistributionID, "DomainName"),
				"HostedZoneId": CloudFrontHostedZoneID,
			},
		},
	}
}
