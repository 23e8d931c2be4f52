// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/template"
)

// Options tune the rendered delta.
type Options struct {
	// Ignore names top level template sections left out of the comparison.
	Ignore []string
	Color  bool
}

// Result summarizes a template comparison by logical ID.
type Result struct {
	Added    []string
	Removed  []string
	Modified []string
	// Other is true when something outside Resources differs.
	Other bool
}

// Changed reports whether the templates differ at all.
func (r *Result) Changed() bool {
	return len(r.Added)+len(r.Removed)+len(r.Modified) > 0 || r.Other
}

// Diff compares the deployed template with the synthesized one and writes an
// ASCII delta to w. Either body may be JSON or YAML. An empty deployed body
// means the stack does not exist yet.
func Diff(deployed, synthesized []byte, opts Options, w io.Writer) (*Result, error) {
	left, err := decode(deployed)
	if err != nil {
		return nil, fmt.Errorf("deployed template: %w", err)
	}
	right, err := decode(synthesized)
	if err != nil {
		return nil, fmt.Errorf("synthesized template: %w", err)
	}
	for _, key := range opts.Ignore {
		delete(left, key)
		delete(right, key)
	}

	res := summarize(left, right)
	log.Debugf("diff: added=%d removed=%d modified=%d", len(res.Added), len(res.Removed), len(res.Modified))

	delta := gojsondiff.New().CompareObjects(left, right)
	if !delta.Modified() {
		fmt.Fprintln(w, "There are no differences.")
		return res, nil
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	})
	out, err := f.Format(delta)
	if err != nil {
		return nil, fmt.Errorf("failed to format delta: %w", err)
	}
	fmt.Fprint(w, out)
	return res, nil
}

func decode(body []byte) (map[string]interface{}, error) {
	norm, err := template.Normalize(body)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{}
	if norm == nil {
		return doc, nil
	}
	if err := json.Unmarshal(norm, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func summarize(left, right map[string]interface{}) *Result {
	res := &Result{}
	lr, _ := left["Resources"].(map[string]interface{})
	rr, _ := right["Resources"].(map[string]interface{})

	for id, r := range rr {
		l, ok := lr[id]
		switch {
		case !ok:
			res.Added = append(res.Added, id)
		case !reflect.DeepEqual(l, r):
			res.Modified = append(res.Modified, id)
		}
	}
	for id := range lr {
		if _, ok := rr[id]; !ok {
			res.Removed = append(res.Removed, id)
		}
	}
	sort.Strings(res.Added)
	sort.Strings(res.Removed)
	sort.Strings(res.Modified)

	for k, v := range right {
		if k != "Resources" && !reflect.DeepEqual(left[k], v) {
			res.Other = true
		}
	}
	for k := range left {
		if _, ok := right[k]; !ok && k != "Resources" {
			res.Other = true
		}
	}
	return res
}
