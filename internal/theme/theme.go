// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hackerinthewoods/sitectl/internal/config"
	"github.com/hackerinthewoods/sitectl/internal/log"
)

// Color token names, in display order.
var ColorNames = []string{"plate", "surface-1", "contrast-high", "contrast-medium", "contrast-low"}

// Font family token names, in display order.
var FontNames = []string{"mono", "term"}

// Tokens are the site's design tokens.
type Tokens struct {
	Colors map[string]string   `json:"colors" yaml:"colors"`
	Fonts  map[string][]string `json:"fontFamily" yaml:"fontFamily"`
}

// Default returns the stock palette and font stacks.
func Default() Tokens {
	return Tokens{
		Colors: map[string]string{
			"plate":           "hsl(0, 0%, 0%)",
			"surface-1":       "hsl(222, 18%, 6%)",
			"contrast-high":   "hsl(222, 100%, 100%)",
			"contrast-medium": "hsl(222, 2%, 80%)",
			"contrast-low":    "hsl(222, 10%, 20%)",
		},
		Fonts: map[string][]string{
			"mono": {"Roboto Mono", "Courier New", "monospace"},
			"term": {"VT323", "Roboto Mono", "monospace"},
		},
	}
}

// Load returns Default overlaid with the config file's theme section.
// Only keys present in the file are replaced.
func Load() (Tokens, error) {
	t := Default()

	colors, err := config.GetStringMap("theme.colors")
	switch {
	case errors.Is(err, config.ErrNotFound):
	case err != nil:
		return t, fmt.Errorf("theme.colors: %w", err)
	default:
		for k, v := range colors {
			t.Colors[k] = v
		}
	}

	for _, name := range FontNames {
		key := "theme.fontFamily." + name
		fonts, err := config.GetStringSlice(key)
		switch {
		case errors.Is(err, config.ErrNotFound):
		case err != nil:
			return t, fmt.Errorf("%s: %w", key, err)
		default:
			t.Fonts[name] = fonts
		}
	}

	log.Debugf("theme tokens: colors=%d fonts=%d", len(t.Colors), len(t.Fonts))
	return t, nil
}

var hslRE = regexp.MustCompile(`^hsl\(\s*(\d+(?:\.\d+)?)(?:deg)?\s*[,\s]\s*(\d+(?:\.\d+)?)%\s*[,\s]\s*(\d+(?:\.\d+)?)%\s*\)$`)

// ParseColor accepts "hsl(h, s%, l%)" or "#rrggbb".
func ParseColor(s string) (colorful.Color, error) {
	if m := hslRE.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		sat, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		if h > 360 || sat > 100 || l > 100 {
			return colorful.Color{}, fmt.Errorf("color %q out of range", s)
		}
		return colorful.Hsl(h, sat/100, l/100), nil
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color %q is neither hsl() nor #rrggbb", s)
	}
	return c, nil
}

// Validate checks every color parses and every named token is present.
func (t Tokens) Validate() error {
	var errs []error
	for _, name := range ColorNames {
		if _, ok := t.Colors[name]; !ok {
			errs = append(errs, fmt.Errorf("missing color %s", name))
		}
	}
	for name, v := range t.Colors {
		if _, err := ParseColor(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	for _, name := range FontNames {
		if len(t.Fonts[name]) == 0 {
			errs = append(errs, fmt.Errorf("missing font family %s", name))
		}
	}
	return errors.Join(errs...)
}

// Hex returns each color as #rrggbb. Unparseable colors are omitted.
func (t Tokens) Hex() map[string]string {
	out := make(map[string]string, len(t.Colors))
	for name, v := range t.Colors {
		if c, err := ParseColor(v); err == nil {
			out[name] = c.Clamped().Hex()
		}
	}
	return out
}

// TailwindJSON renders the theme document consumed by the CSS build: colors
// under theme.extend and font stacks replacing theme.fontFamily.
func (t Tokens) TailwindJSON() ([]byte, error) {
	doc := map[string]any{
		"theme": map[string]any{
			"extend":     map[string]any{"colors": t.Colors},
			"fontFamily": t.Fonts,
		},
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
