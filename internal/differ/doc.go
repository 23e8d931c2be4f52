// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes and renders the differences between the template a
// stack was last deployed with and the one synthesized from the current
// parameters.
package differ
