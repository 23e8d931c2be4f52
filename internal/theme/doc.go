// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package theme holds the site's design tokens: the color palette and font
// stacks the CSS build extends its theme with. Tokens default to the stock
// palette and can be overridden from the theme section of sitectl.yaml.
package theme
