// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package zone confirms that the externally owned hosted zone exists and
// matches the configured zone name before anything is deployed into it.
package zone
