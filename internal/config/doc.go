// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for sitectl's project
// configuration. The configuration is a YAML document, normally sitectl.yaml
// beside the site sources, carrying the provisioning parameters (hostName,
// certificateArn, zone.hostedZoneId, zone.zoneName), deploy settings and
// theme overrides. SITECTL_CFG_FILE overrides the location and the user
// configuration directory is consulted last.
package config
