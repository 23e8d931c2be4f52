// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package site is the site provisioning descriptor. Given a host name, an ACM
// certificate ARN and a hosted zone it declares, in dependency order, the
// asset bucket, its CloudFront distribution, the deployment action, the apex
// alias record and the www redirect bucket, distribution and record. Build is
// pure: it performs no I/O and the only error it returns is ErrConfig.
package site
