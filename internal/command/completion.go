// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hackerinthewoods/sitectl/internal/meta"
)

const bashCompletionScript = `# bash completion for sitectl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_sitectl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "synth ls diff deploy publish destroy query theme completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local site="--host-name -H --certificate-arn --zone-id --zone-name --stack-id --stack-name --asset-bucket --index-document --error-document --price-class --build-dir -b"
    local aws="--region -r --profile -p --max-attempts"
    local table="--color -c --columns -a --filter -f --output -o --sort -s --titles -t"

    case "$cmd" in
        synth)
            local opts="$site $aws --output -o --out"
            ;;
        ls)
            local opts="$site $aws $table"
            ;;
        diff)
            local opts="$site $aws --color -c --exit-code --ignore"
            ;;
        deploy)
            local opts="$site $aws --concurrency --incremental -i --no-publish --tag --timeout --yes -y"
            ;;
        publish)
            local opts="$site $aws --concurrency --incremental -i"
            ;;
        destroy)
            local opts="$site $aws --timeout --yes -y"
            ;;
        query)
            local opts="$site $aws --deployed"
            ;;
        theme)
            local opts="--output -o --out --swatches"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            case "$cmd" in
                synth) COMPREPLY=( $(compgen -W "json yaml" -- "$cur") ) ;;
                theme) COMPREPLY=( $(compgen -W "text json" -- "$cur") ) ;;
                *)     COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") ) ;;
            esac
            return 0
            ;;
        --price-class)
            COMPREPLY=( $(compgen -W "PriceClass_100 PriceClass_200 PriceClass_All" -- "$cur") )
            return 0
            ;;
        --build-dir|-b)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
        --out)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _sitectl sitectl
`

const zshCompletionScript = `#compdef sitectl

_sitectl() {
  local -a cmds
  cmds=(
    'synth:synthesize the CloudFormation template'
    'ls:list declared resources'
    'diff:compare the deployed stack with the synthesized template'
    'deploy:apply the stack and publish the site'
    'publish:upload the build and invalidate the distribution'
    'destroy:delete the site stack'
    'query:evaluate an expression over the template'
    'theme:show the design tokens'
    'completion:generate shell completion script'
  )

  local -a site
  site=(
  '(-H --host-name)'{-H,--host-name}'[apex host name]:host'
  '--certificate-arn[ACM certificate ARN]:arn'
  '--zone-id[hosted zone ID]:id'
  '--zone-name[hosted zone name]:name'
  '--stack-id[logical ID prefix]:id'
  '--stack-name[stack name]:name'
  '--asset-bucket[asset bucket name]:bucket'
  '--index-document[index document]:key'
  '--error-document[error document]:key'
  '--price-class[price class]:class:(PriceClass_100 PriceClass_200 PriceClass_All)'
  '(-b --build-dir)'{-b,--build-dir}'[build directory]:dir:_directories'
  '(-r --region)'{-r,--region}'[AWS region]:region'
  '(-p --profile)'{-p,--profile}'[AWS profile]:profile'
  '--max-attempts[AWS call attempts]:n'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'sitectl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    synth)
      _arguments -C $site \
        '(-o --output)'{-o,--output}'[template format]:format:(json yaml)' \
        '--out[output file]:file:_files'
      ;;
    ls)
      _arguments -C $site \
        '(-a --columns)'{-a,--columns}'[columns to include]:columns' \
        '(-c --color)'{-c,--color}'[enable colored text]' \
        '(-f --filter)'{-f,--filter}'[filters to apply]:filters' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)' \
        '(-s --sort)'{-s,--sort}'[sort columns]:columns' \
        '(-t --titles)'{-t,--titles}'[show titles]'
      ;;
    diff)
      _arguments -C $site \
        '(-c --color)'{-c,--color}'[enable colored diff]' \
        '--exit-code[fail when the templates differ]' \
        '*--ignore[template section to ignore]:section:(Metadata Outputs Description)'
      ;;
    deploy)
      _arguments -C $site \
        '--concurrency[uploads in flight]:n' \
        '(-i --incremental)'{-i,--incremental}'[skip unchanged files]' \
        '--no-publish[apply the stack only]' \
        '*--tag[stack tag]:key=value' \
        '--timeout[stack wait timeout]:duration' \
        '(-y --yes)'{-y,--yes}'[skip approval]'
      ;;
    publish)
      _arguments -C $site \
        '--concurrency[uploads in flight]:n' \
        '(-i --incremental)'{-i,--incremental}'[skip unchanged files]'
      ;;
    destroy)
      _arguments -C $site \
        '--timeout[stack wait timeout]:duration' \
        '(-y --yes)'{-y,--yes}'[skip approval]'
      ;;
    query)
      _arguments -C $site \
        '--deployed[query the deployed template]' \
        '1:expression'
      ;;
    theme)
      _arguments -C \
        '(-o --output)'{-o,--output}'[output format]:format:(text json)' \
        '--out[output file]:file:_files' \
        '--swatches[paint color samples]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _sitectl sitectl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(meta.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(meta.Stdout, zshCompletionScript)
	default:
		fmt.Fprintln(meta.Stderr, "usage: sitectl completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "sitectl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
