// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"regexp"
	"strings"
)

// filterRE splits key, optional negated operator and target. Operators:
// = equals, ~ equals ignoring case, ^ prefix, @ contains, / regex.
var filterRE = regexp.MustCompile(`^([^!=~^@/]+)(!?[=~^@/])(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Value   string

	re *regexp.Regexp
}

// ParseFilters parses a comma separated filter spec.
func ParseFilters(spec string) ([]Filter, error) {
	var out []Filter
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		m := filterRE.FindStringSubmatch(entry)
		if m == nil {
			return nil, fmt.Errorf("invalid filter %q", entry)
		}

		f := Filter{Key: strings.TrimSpace(m[1]), Operand: m[2], Value: m[3]}
		if strings.HasPrefix(f.Operand, "!") {
			f.Negate = true
			f.Operand = f.Operand[1:]
		}
		if f.Operand == "/" {
			re, err := regexp.Compile(f.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid filter regex %q: %w", f.Value, err)
			}
			f.re = re
		}
		out = append(out, f)
	}
	return out, nil
}

// Match reports whether value satisfies the filter.
func (f Filter) Match(value any) bool {
	s := InterfaceToString(value)

	var hit bool
	switch f.Operand {
	case "=":
		hit = s == f.Value
	case "~":
		hit = strings.EqualFold(s, f.Value)
	case "^":
		hit = strings.HasPrefix(s, f.Value)
	case "@":
		hit = strings.Contains(s, f.Value)
	case "/":
		hit = f.re != nil && f.re.MatchString(s)
	}
	return hit != f.Negate
}

// matchAll reports whether row passes every filter. Filters are matched on
// column titles.
func matchAll(row map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !f.Match(row[f.Key]) {
			return false
		}
	}
	return true
}
