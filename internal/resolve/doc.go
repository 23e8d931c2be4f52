// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package resolve replaces "ssm:/path" parameter values with the contents of
// the named SSM Parameter Store entry so that account specific values such as
// the certificate ARN can live outside the project file.
package resolve
