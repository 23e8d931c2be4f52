// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/meta"
	"github.com/hackerinthewoods/sitectl/internal/output"
)

// ResourceRow is one declared resource as listed by ls.
type ResourceRow struct {
	Order int    `json:"order"`
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
}

// lsDefaultColumns specifies the default columns displayed for resources.
var lsDefaultColumns = output.Columns{
	{Key: "order", Title: "order", Include: false},
	{Key: "id", Title: "id", Include: true},
	{Key: "kind", Title: "kind", Include: true},
	{Key: "name", Title: "name", Include: true},
	{Key: "type", Title: "type", Include: true},
}

// lsCommandAction lists the declarations of the topology in dependency order.
func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %v", meta.Args[1:])

	s, err := LoadSite(ctx, cmd, newSession(cmd))
	if err != nil {
		return err
	}

	var rows []ResourceRow
	for i, r := range s.Topology.Resources() {
		rows = append(rows, ResourceRow{
			Order: i + 1,
			ID:    r.LogicalID(),
			Kind:  string(r.Kind()),
			Name:  r.Name(),
			Type:  s.Template.Resources[r.LogicalID()].Type,
		})
	}

	raw, err := json.Marshal(map[string]any{"resources": rows})
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	cols, err := lsDefaultColumns.Apply(cmd.String("columns"))
	if err != nil {
		return err
	}

	if cmd.String("filter") != "" {
		cmd.Metadata["header"] = fmt.Sprintf("\n%s resources (filtered):", s.StackName)
	}

	return output.SliceDiceSpit(raw, "resources", cols, cmd, meta.Stdout)
}

func lsCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list declared resources",
		UsageText: "sitectl ls [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append(NewGlobalFlags(),
			NewSiteFlags("ls", meta.Config.Source)...),
			NewAWSFlags("ls", meta.Config.Source)...),
		Action: lsCommandAction,
	}
}
