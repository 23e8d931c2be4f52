// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

// Template is a CloudFormation template document.
type Template struct {
	AWSTemplateFormatVersion string              `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string              `json:"Description,omitempty" yaml:"Description,omitempty"`
	Metadata                 map[string]any      `json:"Metadata,omitempty" yaml:"Metadata,omitempty"`
	Resources                map[string]Resource `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output   `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// Resource is a single entry of the Resources section.
type Resource struct {
	Type       string         `json:"Type" yaml:"Type"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
	Properties map[string]any `json:"Properties" yaml:"Properties"`
}

// Output is a single entry of the Outputs section.
type Output struct {
	Description string  `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any     `json:"Value" yaml:"Value"`
	Export      *Export `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// Export names a cross-stack export.
type Export struct {
	Name any `json:"Name" yaml:"Name"`
}

// JSON renders the template as indented JSON. Map keys are sorted so equal
// templates render byte-identical.
func (t *Template) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}
	return append(b, '\n'), nil
}

// YAML renders the template as YAML.
func (t *Template) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Counts returns the number of resources per CloudFormation type.
func (t *Template) Counts() map[string]int {
	counts := map[string]int{}
	for _, r := range t.Resources {
		counts[r.Type]++
	}
	return counts
}

// ResourceIDs returns the logical IDs sorted.
func (t *Template) ResourceIDs() []string {
	ids := make([]string, 0, len(t.Resources))
	for id := range t.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Normalize converts a template body in JSON or YAML into compact JSON with
// sorted keys so that two bodies can be compared structurally.
func Normalize(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var doc any
	if body[0] == '{' {
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse template JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template YAML: %w", err)
	}

	return json.Marshal(doc)
}

// Ref is the Ref intrinsic.
func Ref(logicalID string) map[string]any {
	return map[string]any{"Ref": logicalID}
}

// GetAtt is the Fn::GetAtt intrinsic.
func GetAtt(logicalID, attr string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{logicalID, attr}}
}

// Join is the Fn::Join intrinsic.
func Join(sep string, parts ...any) map[string]any {
	return map[string]any{"Fn::Join": []any{sep, parts}}
}

// websiteDomain extracts the website endpoint host from a bucket's WebsiteURL
// ("http://<bucket>.s3-website-<region>.amazonaws.com").
func websiteDomain(bucketID string) map[string]any {
	return map[string]any{
		"Fn::Select": []any{1, map[string]any{
			"Fn::Split": []any{"://", GetAtt(bucketID, "WebsiteURL")},
		}},
	}
}
