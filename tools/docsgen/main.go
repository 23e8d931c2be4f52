// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen writes a markdown reference page per sitectl subcommand. Flags and
// usage come from the command tree itself; examples and notes come from
// <docs>/templates/sitectl.yaml when it exists.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hackerinthewoods/sitectl/internal/command"
	"github.com/hackerinthewoods/sitectl/internal/meta"
)

type Config struct {
	Subcommands []Extra `yaml:"subcommands"`
}

// Extra is the hand-written part of a page.
type Extra struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type Flag struct {
	Syntax      string
	Description string
	Default     string
	Env         string
}

type TemplateData struct {
	Extra
	Short   string
	Usage   string
	Flags   []Flag
	Date    string
	Version string
}

const pageTemplate = `# sitectl {{ .ID }}

{{ .Short }}

    {{ .Usage }}
{{ if .Description }}
{{ .Description }}
{{ end }}
## Options

| Flag | Description | Default | Environment |
| ---- | ----------- | ------- | ----------- |
{{ range .Flags }}| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} | {{ .Env }} |
{{ end }}{{ if .Examples }}
## Examples
{{ range .Examples }}
{{ .Description }}

    {{ .Command }}
{{ end }}{{ end }}{{ if .Notes }}
## Notes
{{ range .Notes }}
- {{ . }}{{ end }}
{{ end }}
_sitectl {{ .Version }}, generated {{ .Date }}_
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(docs string, progress io.Writer) error {
	extras, err := loadExtras(filepath.Join(docs, "templates", "sitectl.yaml"))
	if err != nil {
		return err
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return err
	}

	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}

	app := command.NewApp(meta.Meta{Args: []string{"sitectl"}})
	for _, sub := range app.Commands {
		extra := extras[sub.Name]
		extra.ID = sub.Name

		data := TemplateData{
			Extra:   extra,
			Short:   sub.Usage,
			Usage:   sub.UsageText,
			Flags:   flags(sub),
			Date:    time.Now().Format("January 2, 2006"),
			Version: getVersion(),
		}

		path := filepath.Join(folder, sub.Name+".md")
		fmt.Fprintln(progress, "Generating", path)
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		err = tmpl.Execute(file, data)
		file.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func loadExtras(path string) (map[string]Extra, error) {
	out := map[string]Extra{}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, e := range config.Subcommands {
		out[e.ID] = e
	}
	return out, nil
}

// flags describes the visible flags of cmd, sorted by name.
func flags(cmd *cli.Command) []Flag {
	var out []Flag
	for _, f := range cmd.Flags {
		if v, ok := f.(interface{ IsVisible() bool }); ok && !v.IsVisible() {
			continue
		}

		var names []string
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "-"+n)
			} else {
				names = append(names, "--"+n)
			}
		}

		flag := Flag{Syntax: strings.Join(names, ", ")}
		if u, ok := f.(interface{ GetUsage() string }); ok {
			flag.Description = u.GetUsage()
		}
		if d, ok := f.(interface{ GetValue() string }); ok {
			flag.Default = d.GetValue()
		}
		if e, ok := f.(interface{ GetEnvVars() []string }); ok {
			flag.Env = strings.Join(e.GetEnvVars(), ", ")
		}
		out = append(out, flag)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.TrimLeft(out[i].Syntax, "-") < strings.TrimLeft(out[j].Syntax, "-")
	})
	return out
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
