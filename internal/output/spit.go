// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/hackerinthewoods/sitectl/internal/config"
	"github.com/hackerinthewoods/sitectl/internal/log"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Rows extracts one row per element of the JSON array found at parent (the
// whole document when parent is empty). Row keys are column titles.
func Rows(raw []byte, parent string, cols Columns) []map[string]interface{} {
	doc := gjson.ParseBytes(raw)
	if parent != "" {
		doc = doc.Get(parent)
	}

	var rows []map[string]interface{}
	for _, item := range doc.Array() {
		row := make(map[string]interface{}, len(cols))
		for _, col := range cols {
			row[col.Title] = item.Get(col.Key).Value()
		}
		rows = append(rows, row)
	}
	return rows
}

// SliceDiceSpit filters, transforms, sorts and renders a JSON dataset
// according to the command's --filter, --sort, --output, --titles and --color
// flags. Output is written to w, or os.Stdout when w is nil.
func SliceDiceSpit(raw []byte, parent string, cols Columns, cmd *cli.Command, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	output := cmd.String("output")
	if output == "raw" {
		_, err := w.Write(raw)
		return err
	}

	filters, err := ParseFilters(cmd.String("filter"))
	if err != nil {
		return err
	}

	var dataset []map[string]interface{}
	for _, row := range Rows(raw, parent, cols) {
		if !matchAll(row, filters) {
			continue
		}
		for _, col := range cols {
			row[col.Title] = col.Format(row[col.Title])
		}
		dataset = append(dataset, row)
	}
	log.Debugf("dataset: rows=%d filters=%d", len(dataset), len(filters))

	SortDataset(dataset, cmd.String("sort"))

	switch output {
	case "json":
		b, err := json.Marshal(visible(dataset, cols))
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(visible(dataset, cols))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		TableWriter(dataset, cols, cmd, w)
	}
	return nil
}

// visible drops hidden columns so json and yaml match the table.
func visible(dataset []map[string]interface{}, cols Columns) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(dataset))
	for _, row := range dataset {
		v := make(map[string]interface{}, len(cols))
		for _, col := range cols {
			if col.Include {
				v[col.Title] = row[col.Title]
			}
		}
		out = append(out, v)
	}
	return out
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(
	resultSet []map[string]interface{},
	cols Columns,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(cols))
		for _, col := range cols {
			if !col.Include {
				continue
			}
			row = append(row, InterfaceToString(result[col.Title], "-"))
		}
		rows = append(rows, row)
	}

	if h, ok := cmd.Metadata["header"].(string); ok {
		fmt.Fprintln(w, headerStyle.Render(h))
	}

	pad := int(cmd.Int("padding"))
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if cmd.Bool("titles") {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(cols.Titles()...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if f, ok := cmd.Metadata["footer"].(string); ok {
		fmt.Fprintln(w, headerStyle.Render(f))
	}
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
