// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package zone

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"

	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/site"
)

// Route53API is the subset of the Route 53 client used for lookups.
type Route53API interface {
	GetHostedZone(ctx context.Context, in *route53.GetHostedZoneInput, optFns ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error)
}

// Info describes an existing hosted zone.
type Info struct {
	ID          string
	Name        string
	Records     int64
	NameServers []string
}

// Lookup fetches the hosted zone named by p.Zone and checks that it is the
// public zone p.Zone.ZoneName claims it is. The zone is never modified.
func Lookup(ctx context.Context, client Route53API, p site.ZoneAttributes) (*Info, error) {
	id := strings.TrimPrefix(p.HostedZoneID, "/hostedzone/")
	if id == "" {
		return nil, fmt.Errorf("%w: missing zone.hostedZoneId", site.ErrConfig)
	}

	out, err := client.GetHostedZone(ctx, &route53.GetHostedZoneInput{Id: awsv2.String(id)})
	if err != nil {
		var nsz *types.NoSuchHostedZone
		if errors.As(err, &nsz) {
			return nil, fmt.Errorf("%w: hosted zone %s does not exist", site.ErrConfig, id)
		}
		return nil, fmt.Errorf("failed to look up hosted zone %s: %w", id, err)
	}
	if out.HostedZone == nil {
		return nil, fmt.Errorf("hosted zone %s: empty response", id)
	}

	hz := out.HostedZone
	got := canonical(awsv2.ToString(hz.Name))
	want := canonical(p.ZoneName)
	if got != want {
		return nil, fmt.Errorf("%w: hosted zone %s is %s, not %s", site.ErrConfig, id, got, want)
	}
	if hz.Config != nil && hz.Config.PrivateZone {
		return nil, fmt.Errorf("%w: hosted zone %s is private", site.ErrConfig, id)
	}

	info := &Info{
		ID:      strings.TrimPrefix(awsv2.ToString(hz.Id), "/hostedzone/"),
		Name:    got,
		Records: awsv2.ToInt64(hz.ResourceRecordSetCount),
	}
	if out.DelegationSet != nil {
		info.NameServers = out.DelegationSet.NameServers
	}
	log.Debugf("hosted zone: id=%s name=%s records=%d", info.ID, info.Name, info.Records)
	return info, nil
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}
