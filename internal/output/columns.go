// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hackerinthewoods/sitectl/internal/log"
)

// Column is one field of a row: where to find it in the source JSON, what to
// call it, and how to transform it.
type Column struct {
	// gjson path into each source object.
	Key string
	// Output key and table title.
	Title string
	// Hidden columns can still be filtered and sorted on.
	Include bool
	// Transform spec: u upper, l lower, N truncate to N, -N elide middle.
	Transform string
}

// Columns is an ordered column set.
type Columns []Column

// Titles returns the titles of the included columns.
func (c Columns) Titles() []string {
	var out []string
	for _, col := range c {
		if col.Include {
			out = append(out, col.Title)
		}
	}
	return out
}

// Apply merges a --columns spec into a copy of c. Each comma separated entry
// is key[:title[:transform]]. A leading ! hides the column. An entry naming an
// existing key or title updates that column; anything else is appended.
// "*" alone keeps the defaults and "*::spec" sets a transform for every
// column.
func (c Columns) Apply(spec string) (Columns, error) {
	out := append(Columns(nil), c...)
	if spec == "" || spec == "*" {
		return out, nil
	}

	var global string
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		fields := strings.SplitN(entry, ":", 3)
		col := Column{Key: strings.TrimSpace(fields[0]), Include: true}
		if strings.HasPrefix(col.Key, "!") {
			col.Include = false
			col.Key = col.Key[1:]
		}
		if col.Key == "" {
			return nil, fmt.Errorf("invalid column spec %q", entry)
		}
		if len(fields) > 2 {
			col.Transform = strings.TrimSpace(fields[2])
			if !transformRE.MatchString(col.Transform) {
				return nil, fmt.Errorf("invalid transform %q in %q", col.Transform, entry)
			}
		}
		if col.Key == "*" {
			global = col.Transform
			continue
		}

		col.Title = col.Key
		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			col.Title = strings.TrimSpace(fields[1])
		}

		if i := out.index(col.Key); i >= 0 {
			out[i].Include = col.Include
			if len(fields) > 1 {
				out[i].Title = col.Title
			}
			if len(fields) > 2 {
				out[i].Transform = col.Transform
			}
			log.Tracef("column updated: key=%s", col.Key)
			continue
		}
		out = append(out, col)
		log.Tracef("column added: key=%s title=%s", col.Key, col.Title)
	}

	if global != "" {
		for i := range out {
			out[i].Transform = global + out[i].Transform
		}
	}
	return out, nil
}

func (c Columns) index(key string) int {
	for i, col := range c {
		if col.Key == key || col.Title == key {
			return i
		}
	}
	return -1
}

var (
	transformRE = regexp.MustCompile(`^([uUlL]|-?\d+)*$`)
	lengthRE    = regexp.MustCompile(`-?\d+`)
)

// Format transforms a value. Only strings are transformed. When several case
// or length specs are present the last one wins.
func (col Column) Format(value any) any {
	s, ok := value.(string)
	if !ok || col.Transform == "" {
		return value
	}

	lastL := strings.LastIndexAny(col.Transform, "lL")
	lastU := strings.LastIndexAny(col.Transform, "uU")
	switch {
	case lastL > lastU:
		s = strings.ToLower(s)
	case lastU > lastL:
		s = strings.ToUpper(s)
	}

	if m := lengthRE.FindAllString(col.Transform, -1); len(m) > 0 {
		n, _ := strconv.Atoi(m[len(m)-1])
		abs := n
		if abs < 0 {
			abs = -abs
		}
		if abs > 0 && len(s) > abs {
			if n < 0 && abs >= 4 {
				side := abs/2 - 1
				s = s[:side] + ".." + s[len(s)-side:]
			} else {
				s = s[:abs]
			}
		}
	}
	return s
}
