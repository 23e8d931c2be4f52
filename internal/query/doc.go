// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package query evaluates HCL expressions over a synthesized template, e.g.
//
//	keys(Resources)
//	Resources.WebsiteWebsiteProductionDistribution.Properties.DistributionConfig.Aliases
//	[for id, r in Resources : id if r.Type == "AWS::S3::Bucket"]
package query
