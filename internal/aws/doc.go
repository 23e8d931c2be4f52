// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS SDK configuration and constructs the service clients
// sitectl talks to: CloudFormation, S3, CloudFront, Route 53 and SSM.
package aws
