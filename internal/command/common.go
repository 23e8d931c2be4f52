// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/config"
	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
	"github.com/hackerinthewoods/sitectl/internal/resolve"
	"github.com/hackerinthewoods/sitectl/internal/site"
	"github.com/hackerinthewoods/sitectl/internal/template"
	"github.com/hackerinthewoods/sitectl/internal/ui"
	"github.com/hackerinthewoods/sitectl/internal/version"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value with the process
// streams.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd != nil && cmd.Metadata != nil {
		if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
			return m
		}
	}
	return meta.Meta{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// ParamsFromFlags collects the descriptor parameters from the site flags.
func ParamsFromFlags(cmd *cli.Command) site.Params {
	return site.Params{
		HostName:       cmd.String("host-name"),
		CertificateArn: cmd.String("certificate-arn"),
		Zone: site.ZoneAttributes{
			HostedZoneID: cmd.String("zone-id"),
			ZoneName:     cmd.String("zone-name"),
		},
		StackID:         cmd.String("stack-id"),
		AssetBucketName: cmd.String("asset-bucket"),
		IndexDocument:   cmd.String("index-document"),
		ErrorDocument:   cmd.String("error-document"),
		PriceClass:      cmd.String("price-class"),
		BuildDir:        cmd.String("build-dir"),
	}
}

// session lazily creates the AWS clients so commands that never reach AWS
// need no credentials.
type session struct {
	cmd     *cli.Command
	clients *Clients
}

func newSession(cmd *cli.Command) *session {
	return &session{cmd: cmd}
}

func (s *session) Clients(ctx context.Context) (*Clients, error) {
	if s.clients == nil {
		c, err := NewClients(ctx, s.cmd)
		if err != nil {
			return nil, err
		}
		s.clients = c
	}
	return s.clients, nil
}

// Site is a built topology and its synthesized template.
type Site struct {
	Params    site.Params
	Topology  *site.Topology
	Template  *template.Template
	StackName string
}

// LoadSite resolves parameter references, builds the topology and
// synthesizes its template.
func LoadSite(ctx context.Context, cmd *cli.Command, s *session) (*Site, error) {
	p := ParamsFromFlags(cmd)

	if resolve.HasRefs(p) {
		c, err := s.Clients(ctx)
		if err != nil {
			return nil, err
		}
		if p, err = resolve.New(c.SSM).Params(ctx, p); err != nil {
			return nil, err
		}
	}

	topo, err := site.Build(p)
	if err != nil {
		return nil, err
	}

	tpl, err := template.Synthesize(topo, template.Options{
		Description: fmt.Sprintf("Stack for the %s website.", topo.Params.HostName),
		Version:     version.Version,
	})
	if err != nil {
		return nil, err
	}

	name := StackName(cmd, topo.Params.HostName)
	log.Debugf("site loaded: host=%s stack=%s", topo.Params.HostName, name)

	return &Site{Params: topo.Params, Topology: topo, Template: tpl, StackName: name}, nil
}

// StackName is --stack-name, or the name derived from host when unset.
func StackName(cmd *cli.Command, host string) string {
	if name := cmd.String("stack-name"); name != "" {
		return name
	}
	return DefaultStackName(host)
}

// DefaultStackName derives a stack name from the host name, e.g.
// "example.com" becomes "ExampleDotCom-Stack".
func DefaultStackName(host string) string {
	var parts []string
	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		var b strings.Builder
		upper := true
		for _, r := range label {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				upper = true
				continue
			}
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}

	name := strings.Join(parts, "Dot") + "-Stack"
	if first := rune(name[0]); !unicode.IsLetter(first) {
		name = "Site" + name
	}
	return name
}

// StackTags merges the config file tags list with --tag flags. Entries are
// key=value; later entries win.
func StackTags(cmd *cli.Command, host string) (map[string]string, error) {
	entries, err := config.GetStringSlice("tags")
	if err != nil {
		entries = nil
	}
	entries = append(entries, cmd.StringSlice("tag")...)

	tags := map[string]string{"sitectl:host": host}
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("tag %q must be key=value", e)
		}
		tags[k] = strings.TrimSpace(v)
	}
	return tags, nil
}

// Approval hooks, replaced in tests.
var (
	interactive = ui.Interactive
	confirm     = ui.Confirm
)

// approve asks the operator to confirm prompt unless --yes is set. Without a
// terminal there is nobody to ask, so --yes is required.
func approve(ctx context.Context, cmd *cli.Command, prompt string) error {
	if cmd.Bool("yes") {
		return nil
	}
	if !interactive() {
		return errors.New("approval required: rerun with --yes")
	}

	meta := GetMeta(cmd)
	ok, err := confirm(ctx, prompt, meta.Stdin, meta.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		return ui.ErrDeclined
	}
	return nil
}

// sortedKeys returns m's keys in order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
