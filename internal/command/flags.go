// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/publish"
	"github.com/hackerinthewoods/sitectl/internal/site"
)

// NewOutFlag is the --out flag for commands that can write to a file.
func NewOutFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "out",
		Usage: "write the template to a file instead of stdout",
	}
}

// NewYesFlag is the --yes flag that skips approval prompts.
func NewYesFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "yes",
		Aliases:     []string{"y"},
		Usage:       "skip the interactive approval",
		Sources:     cli.EnvVars("SITECTL_YES"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the result shaping flags shared by the table
// commands.
func NewGlobalFlags() (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "columns",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of columns to include in results",
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:   "padding",
			Usage:  "spaces between table columns",
			Value:  2,
			Hidden: true,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewSiteFlags returns the descriptor parameter flags. Each one is sourced,
// in order, from its environment variable, the command namespaced config key
// and the top level config key. ns is the command name and path the config
// file; an empty path skips the config sources.
func NewSiteFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		siteFlag(ns, path, "hostName", &cli.StringFlag{
			Name:    "host-name",
			Aliases: []string{"H"},
			Usage:   "apex host name the site is served from",
			Sources: cli.EnvVars("SITECTL_HOST_NAME"),
		}),
		siteFlag(ns, path, "certificateArn", &cli.StringFlag{
			Name:    "certificate-arn",
			Usage:   "ACM certificate ARN (us-east-1) covering the host names",
			Sources: cli.EnvVars("SITECTL_CERTIFICATE_ARN"),
		}),
		siteFlag(ns, path, "zone.hostedZoneId", &cli.StringFlag{
			Name:    "zone-id",
			Usage:   "Route 53 hosted zone ID",
			Sources: cli.EnvVars("SITECTL_HOSTED_ZONE_ID"),
		}),
		siteFlag(ns, path, "zone.zoneName", &cli.StringFlag{
			Name:    "zone-name",
			Usage:   "Route 53 hosted zone name",
			Sources: cli.EnvVars("SITECTL_ZONE_NAME"),
		}),
		siteFlag(ns, path, "stackId", &cli.StringFlag{
			Name:    "stack-id",
			Usage:   "prefix for resource logical IDs",
			Sources: cli.EnvVars("SITECTL_STACK_ID"),
			Value:   site.DefaultStackID,
		}),
		siteFlag(ns, path, "stackName", &cli.StringFlag{
			Name:    "stack-name",
			Usage:   "CloudFormation stack name. Derived from the host name when empty",
			Sources: cli.EnvVars("SITECTL_STACK_NAME"),
		}),
		siteFlag(ns, path, "assetBucketName", &cli.StringFlag{
			Name:    "asset-bucket",
			Usage:   "asset bucket name. Derived from the host name when empty",
			Sources: cli.EnvVars("SITECTL_ASSET_BUCKET"),
		}),
		siteFlag(ns, path, "indexDocument", &cli.StringFlag{
			Name:  "index-document",
			Usage: "website index document",
			Value: site.DefaultIndexDocument,
		}),
		siteFlag(ns, path, "errorDocument", &cli.StringFlag{
			Name:  "error-document",
			Usage: "website error document",
			Value: site.DefaultErrorDocument,
		}),
		siteFlag(ns, path, "priceClass", &cli.StringFlag{
			Name:  "price-class",
			Usage: "CloudFront price class",
			Value: site.DefaultPriceClass,
			Validator: func(value string) error {
				return FlagValidators(value, OneOf("PriceClass_100", "PriceClass_200", "PriceClass_All"))
			},
		}),
		siteFlag(ns, path, "buildDir", &cli.StringFlag{
			Name:    "build-dir",
			Aliases: []string{"b"},
			Usage:   "local directory holding the built site",
			Sources: cli.EnvVars("SITECTL_BUILD_DIR"),
			Value:   site.DefaultBuildDir,
		}),
	}
}

// NewAWSFlags returns the flags that shape the AWS client configuration.
func NewAWSFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		siteFlag(ns, path, "region", &cli.StringFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "AWS region. CloudFront certificates must live in us-east-1",
			Sources: cli.EnvVars("SITECTL_REGION"),
		}),
		siteFlag(ns, path, "profile", &cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "AWS shared config profile",
			Sources: cli.EnvVars("SITECTL_PROFILE"),
		}),
		siteFlag(ns, path, "endpoint", &cli.StringFlag{
			Name:    "endpoint",
			Usage:   "base endpoint for every AWS service, e.g. an emulator",
			Sources: cli.EnvVars("SITECTL_ENDPOINT"),
			Hidden:  true,
		}),
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "maximum attempts for each AWS call",
			Value: 0,
		},
	}
}

// NewPublishFlags returns the upload tuning flags.
func NewPublishFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "uploads in flight",
			Value: publish.DefaultConcurrency,
		},
		&cli.BoolFlag{
			Name:    "incremental",
			Aliases: []string{"i"},
			Usage:   "skip files unchanged since the last publish",
			Sources: cli.EnvVars("SITECTL_INCREMENTAL"),
			Value:   false,
		},
	}
}

// siteFlag appends the config file sources for key to flag.
func siteFlag(ns, path, key string, flag *cli.StringFlag) *cli.StringFlag {
	if path == "" {
		return flag
	}
	return NameSpacedValueChainFromConfigFile(ns, key, path, flag)
}

// NameSpacedValueChainFromConfigFile adds namespaced and global config file
// sources for key to the given flag's Sources chain.
func NameSpacedValueChainFromConfigFile(ns, key, path string, flag *cli.StringFlag) *cli.StringFlag {
	if ns != "" {
		src := yaml.YAML(ns+"."+key, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(key, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
