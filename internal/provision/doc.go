// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package provision submits synthesized templates to CloudFormation, the
// engine that owns create, update, and delete ordering for the site's
// resources. It waits for each stack operation to settle using the SDK
// waiters and reads the stack outputs back for the publish step.
package provision
