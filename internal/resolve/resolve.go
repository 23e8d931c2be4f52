// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/site"
)

// Prefix marks a parameter value stored in SSM Parameter Store.
const Prefix = "ssm:"

// SSMAPI is the subset of the SSM client used to resolve references.
type SSMAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// IsRef reports whether v names an SSM parameter.
func IsRef(v string) bool {
	return strings.HasPrefix(v, Prefix)
}

// HasRefs reports whether any descriptor parameter is an SSM reference.
func HasRefs(p site.Params) bool {
	for _, f := range fields(&p) {
		if IsRef(*f.value) {
			return true
		}
	}
	return false
}

// Resolver looks up SSM references, remembering each parameter it has read.
type Resolver struct {
	Client SSMAPI
	seen   map[string]string
}

// New returns a Resolver backed by client.
func New(client SSMAPI) *Resolver {
	return &Resolver{Client: client, seen: map[string]string{}}
}

// Value returns v unchanged unless it is an SSM reference, in which case the
// decrypted parameter value is returned.
func (r *Resolver) Value(ctx context.Context, v string) (string, error) {
	if !IsRef(v) {
		return v, nil
	}
	name := strings.TrimPrefix(v, Prefix)
	if name == "" {
		return "", fmt.Errorf("%w: empty SSM parameter reference", site.ErrConfig)
	}
	if got, ok := r.seen[name]; ok {
		return got, nil
	}
	if r.Client == nil {
		return "", fmt.Errorf("no SSM client to resolve %s", name)
	}

	out, err := r.Client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           awsv2.String(name),
		WithDecryption: awsv2.Bool(true),
	})
	if err != nil {
		var nf *types.ParameterNotFound
		if errors.As(err, &nf) {
			return "", fmt.Errorf("%w: SSM parameter %s not found", site.ErrConfig, name)
		}
		return "", fmt.Errorf("failed to get SSM parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("%w: SSM parameter %s has no value", site.ErrConfig, name)
	}

	val := strings.TrimSpace(*out.Parameter.Value)
	if val == "" {
		return "", fmt.Errorf("%w: SSM parameter %s is empty", site.ErrConfig, name)
	}
	if r.seen == nil {
		r.seen = map[string]string{}
	}
	r.seen[name] = val
	log.Debugf("resolved SSM parameter: name=%s", name)
	return val, nil
}

// Params resolves every reference in p. All failures are reported together.
func (r *Resolver) Params(ctx context.Context, p site.Params) (site.Params, error) {
	var errs []error
	for _, f := range fields(&p) {
		v, err := r.Value(ctx, *f.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
			continue
		}
		*f.value = v
	}
	if err := errors.Join(errs...); err != nil {
		return p, err
	}
	return p, nil
}

type field struct {
	name  string
	value *string
}

func fields(p *site.Params) []field {
	return []field{
		{"hostName", &p.HostName},
		{"certificateArn", &p.CertificateArn},
		{"zone.hostedZoneId", &p.Zone.HostedZoneID},
		{"zone.zoneName", &p.Zone.ZoneName},
		{"stackId", &p.StackID},
		{"assetBucketName", &p.AssetBucketName},
	}
}
