// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package ui holds the small terminal interactions used by the mutating
// commands: an approval prompt and a progress spinner.
package ui
