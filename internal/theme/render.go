// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
)

// Render writes the tokens as a table. With swatches, each color row gets a
// block painted in that color.
func (t Tokens) Render(w io.Writer, swatches bool) {
	hex := t.Hex()
	header := lipgloss.NewStyle().Bold(true)
	cell := lipgloss.NewStyle().PaddingRight(2)

	var rows [][]string
	for _, name := range names(t.Colors, ColorNames) {
		row := []string{name, t.Colors[name], hex[name]}
		if swatches {
			row = append(row, swatch(hex[name]))
		}
		rows = append(rows, row)
	}
	for _, name := range names(t.Fonts, FontNames) {
		row := []string{name, strings.Join(t.Fonts[name], ", "), ""}
		if swatches {
			row = append(row, "")
		}
		rows = append(rows, row)
	}

	headers := []string{"TOKEN", "VALUE", "HEX"}
	if swatches {
		headers = append(headers, "")
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.PaddingRight(2)
			}
			return cell
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, tbl)
}

func swatch(hex string) string {
	if hex == "" {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
}

// names returns the known names first, in order, then any extras sorted.
func names[V any](m map[string]V, known []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, n := range known {
		if _, ok := m[n]; ok {
			out = append(out, n)
			seen[n] = true
		}
	}
	var extra []string
	for n := range m {
		if !seen[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
