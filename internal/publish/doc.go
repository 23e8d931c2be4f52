// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package publish carries out the site's deployment action: it uploads the
// local build directory to the asset bucket with the deployment cache policy
// and then invalidates the primary distribution. Objects are never removed
// from the bucket.
package publish
