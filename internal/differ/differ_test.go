// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deployed = `{
  "AWSTemplateFormatVersion": "2010-09-09",
  "Metadata": {"sitectl:Version": "v1"},
  "Resources": {
    "Assets": {"Type": "AWS::S3::Bucket", "Properties": {"BucketName": "a"}},
    "Old": {"Type": "AWS::S3::Bucket", "Properties": {}}
  }
}`

const synthesized = `
AWSTemplateFormatVersion: "2010-09-09"
Metadata:
  sitectl:Version: v2
Resources:
  Assets:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: b
  New:
    Type: AWS::Route53::RecordSet
    Properties: {}
`

func TestDiff(t *testing.T) {
	var buf bytes.Buffer
	res, err := Diff([]byte(deployed), []byte(synthesized), Options{}, &buf)
	require.NoError(t, err)

	assert.True(t, res.Changed())
	assert.Equal(t, []string{"New"}, res.Added)
	assert.Equal(t, []string{"Old"}, res.Removed)
	assert.Equal(t, []string{"Assets"}, res.Modified)
	assert.True(t, res.Other)

	out := buf.String()
	assert.Contains(t, out, `"BucketName": "a"`)
	assert.Contains(t, out, `"BucketName": "b"`)
	assert.NotContains(t, out, "\x1b[")
}

func TestDiff_Ignore(t *testing.T) {
	var buf bytes.Buffer
	res, err := Diff([]byte(deployed), []byte(synthesized), Options{Ignore: []string{"Metadata"}}, &buf)
	require.NoError(t, err)
	assert.False(t, res.Other)
	assert.NotContains(t, buf.String(), "sitectl:Version")
}

func TestDiff_Identical(t *testing.T) {
	var buf bytes.Buffer
	res, err := Diff([]byte(deployed), []byte(deployed), Options{Color: true}, &buf)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, "There are no differences.\n", buf.String())
}

func TestDiff_NotDeployed(t *testing.T) {
	var buf bytes.Buffer
	res, err := Diff(nil, []byte(synthesized), Options{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Assets", "New"}, res.Added)
	assert.Empty(t, res.Removed)
}

func TestDiff_BadInput(t *testing.T) {
	_, err := Diff([]byte("{nope"), []byte(synthesized), Options{}, &bytes.Buffer{})
	assert.Error(t, err)
}
