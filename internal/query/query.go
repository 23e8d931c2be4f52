// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/hackerinthewoods/sitectl/internal/log"
)

// Sections of a template exposed as top level variables.
var Sections = []string{"Resources", "Outputs", "Metadata", "Parameters"}

// Context builds the evaluation context for a JSON template body. The whole
// document is bound to "template" and each present section to its own name.
func Context(body []byte) (*hcl.EvalContext, error) {
	ty, err := ctyjson.ImpliedType(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	doc, err := ctyjson.Unmarshal(body, ty)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	if !doc.Type().IsObjectType() {
		return nil, fmt.Errorf("template is %s, not an object", doc.Type().FriendlyName())
	}

	vars := map[string]cty.Value{"template": doc}
	for _, s := range Sections {
		if doc.Type().HasAttribute(s) {
			vars[s] = doc.GetAttr(s)
		} else {
			vars[s] = cty.EmptyObjectVal
		}
	}

	return &hcl.EvalContext{Variables: vars, Functions: Functions()}, nil
}

// Eval evaluates an HCL expression against a JSON template body.
func Eval(expression string, body []byte) (cty.Value, error) {
	ctx, err := Context(body)
	if err != nil {
		return cty.NilVal, err
	}

	expr, diags := hclsyntax.ParseExpression([]byte(expression), "query", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to parse expression: %w", diags)
	}

	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to evaluate expression: %w", diags)
	}
	log.Debugf("query: expr=%q type=%s", expression, val.Type().FriendlyName())
	return val, nil
}

// Format renders a value for display: strings bare, numbers and bools in
// their literal form, everything else as compact JSON.
func Format(val cty.Value) (string, error) {
	if val.IsNull() {
		return "null", nil
	}
	if !val.IsWhollyKnown() {
		return "", fmt.Errorf("value is not known")
	}

	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Bool:
		return fmt.Sprintf("%t", val.True()), nil
	case cty.Number:
		return val.AsBigFloat().Text('f', -1), nil
	}

	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LengthFunc counts the elements of a list, map, set or tuple, the
// attributes of an object, or the characters of a string. JSON objects decode
// to cty objects, so template sections need the object case.
var LengthFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{
			Name:             "value",
			Type:             cty.DynamicPseudoType,
			AllowDynamicType: true,
			AllowUnknown:     true,
		},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		v := args[0]
		ty := v.Type()
		switch {
		case v.IsNull():
			return cty.NilVal, fmt.Errorf("argument must not be null")
		case ty.IsObjectType():
			return cty.NumberIntVal(int64(len(ty.AttributeTypes()))), nil
		case !v.IsKnown():
			return cty.UnknownVal(cty.Number), nil
		case ty == cty.String:
			return stdlib.Strlen(v)
		}
		return stdlib.Length(v)
	},
})

// Functions is the function table available to expressions.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"abs":        stdlib.AbsoluteFunc,
		"ceil":       stdlib.CeilFunc,
		"floor":      stdlib.FloorFunc,
		"max":        stdlib.MaxFunc,
		"min":        stdlib.MinFunc,
		"format":     stdlib.FormatFunc,
		"join":       stdlib.JoinFunc,
		"lower":      stdlib.LowerFunc,
		"replace":    stdlib.ReplaceFunc,
		"split":      stdlib.SplitFunc,
		"substr":     stdlib.SubstrFunc,
		"title":      stdlib.TitleFunc,
		"trimprefix": stdlib.TrimPrefixFunc,
		"trimsuffix": stdlib.TrimSuffixFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"upper":      stdlib.UpperFunc,
		"coalesce":   stdlib.CoalesceFunc,
		"compact":    stdlib.CompactFunc,
		"concat":     stdlib.ConcatFunc,
		"contains":   stdlib.ContainsFunc,
		"distinct":   stdlib.DistinctFunc,
		"element":    stdlib.ElementFunc,
		"flatten":    stdlib.FlattenFunc,
		"keys":       stdlib.KeysFunc,
		"length":     LengthFunc,
		"lookup":     stdlib.LookupFunc,
		"merge":      stdlib.MergeFunc,
		"reverse":    stdlib.ReverseListFunc,
		"slice":      stdlib.SliceFunc,
		"sort":       stdlib.SortFunc,
		"values":     stdlib.ValuesFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
		"formatlist": stdlib.FormatListFunc,
		"regex":      stdlib.RegexFunc,
		"regexall":   stdlib.RegexAllFunc,
		"try":        tryfunc.TryFunc,
		"can":        tryfunc.CanFunc,
	}
}
