// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package theme

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/hackerinthewoods/sitectl/internal/config"
)

func useConfig(t *testing.T, file string) {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("testdata", file))
	require.NoError(t, err)
	t.Setenv("SITECTL_CFG_FILE", abs)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
	_, err = config.Load()
	require.NoError(t, err)
}

func TestDefault(t *testing.T) {
	tok := Default()
	require.NoError(t, tok.Validate())

	assert.Equal(t, "hsl(222, 18%, 6%)", tok.Colors["surface-1"])
	assert.Equal(t, []string{"VT323", "Roboto Mono", "monospace"}, tok.Fonts["term"])

	hex := tok.Hex()
	assert.Equal(t, "#000000", hex["plate"])
	assert.Equal(t, "#ffffff", hex["contrast-high"])
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		hex     string
		wantErr bool
	}{
		{in: "hsl(0, 0%, 0%)", hex: "#000000"},
		{in: "hsl(0, 100%, 50%)", hex: "#ff0000"},
		{in: "hsl(120deg 100% 50%)", hex: "#00ff00"},
		{in: "#336699", hex: "#336699"},
		{in: "hsl(0, 101%, 50%)", wantErr: true},
		{in: "rgb(0,0,0)", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hex, c.Clamped().Hex())
		})
	}
}

func TestValidate(t *testing.T) {
	tok := Default()
	delete(tok.Colors, "plate")
	tok.Colors["surface-1"] = "blue"
	tok.Fonts["mono"] = nil

	err := tok.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing color plate")
	assert.Contains(t, err.Error(), "surface-1")
	assert.Contains(t, err.Error(), "missing font family mono")
}

func TestTailwindJSON(t *testing.T) {
	b, err := Default().TailwindJSON()
	require.NoError(t, err)

	doc := string(b)
	assert.Equal(t, "hsl(0, 0%, 0%)", gjson.Get(doc, "theme.extend.colors.plate").String())
	assert.Equal(t, "hsl(222, 2%, 80%)", gjson.Get(doc, "theme.extend.colors.contrast-medium").String())
	assert.Equal(t, `["Roboto Mono","Courier New","monospace"]`, gjson.Get(doc, "theme.fontFamily.mono|@ugly").Raw)
	assert.False(t, gjson.Get(doc, "theme.extend.fontFamily").Exists())
}

func TestLoad(t *testing.T) {
	useConfig(t, "theme.yaml")

	tok, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "#101010", tok.Colors["plate"])
	assert.Equal(t, "hsl(120 50% 50%)", tok.Colors["accent"])
	assert.Equal(t, "hsl(222, 18%, 6%)", tok.Colors["surface-1"])
	assert.Equal(t, []string{"Press Start 2P", "monospace"}, tok.Fonts["term"])
	assert.Equal(t, []string{"Roboto Mono", "Courier New", "monospace"}, tok.Fonts["mono"])
	assert.NoError(t, tok.Validate())
}

func TestLoad_BadValue(t *testing.T) {
	useConfig(t, "bad.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Default().Render(&buf, false)

	out := buf.String()
	assert.Contains(t, out, "TOKEN")
	assert.Contains(t, out, "surface-1")
	assert.Contains(t, out, "#000000")
	assert.Contains(t, out, "VT323, Roboto Mono, monospace")
}

func TestNames(t *testing.T) {
	m := map[string]int{"zeta": 1, "contrast-low": 1, "plate": 1, "alpha": 1}
	assert.Equal(t, []string{"plate", "contrast-low", "alpha", "zeta"}, names(m, ColorNames))
}
