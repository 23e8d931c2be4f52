// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package zone

import (
	"context"
	"errors"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackerinthewoods/sitectl/internal/site"
)

type fakeRoute53 struct {
	out   *route53.GetHostedZoneOutput
	err   error
	asked string
}

func (f *fakeRoute53) GetHostedZone(_ context.Context, in *route53.GetHostedZoneInput, _ ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error) {
	f.asked = awsv2.ToString(in.Id)
	return f.out, f.err
}

func zoneOutput(name string, private bool) *route53.GetHostedZoneOutput {
	return &route53.GetHostedZoneOutput{
		HostedZone: &types.HostedZone{
			Id:                     awsv2.String("/hostedzone/Z0123456789ABC"),
			Name:                   awsv2.String(name),
			CallerReference:        awsv2.String("ref"),
			ResourceRecordSetCount: awsv2.Int64(4),
			Config:                 &types.HostedZoneConfig{PrivateZone: private},
		},
		DelegationSet: &types.DelegationSet{NameServers: []string{"ns-1.awsdns-00.com"}},
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		attrs   site.ZoneAttributes
		out     *route53.GetHostedZoneOutput
		err     error
		wantErr string
		config  bool
	}{
		{
			name:  "match",
			attrs: site.ZoneAttributes{HostedZoneID: "Z0123456789ABC", ZoneName: "example.com"},
			out:   zoneOutput("example.com.", false),
		},
		{
			name:  "prefixed id and trailing dot",
			attrs: site.ZoneAttributes{HostedZoneID: "/hostedzone/Z0123456789ABC", ZoneName: "Example.com."},
			out:   zoneOutput("example.com.", false),
		},
		{
			name:    "name mismatch",
			attrs:   site.ZoneAttributes{HostedZoneID: "Z0123456789ABC", ZoneName: "example.org"},
			out:     zoneOutput("example.com.", false),
			wantErr: "not example.org",
			config:  true,
		},
		{
			name:    "private",
			attrs:   site.ZoneAttributes{HostedZoneID: "Z0123456789ABC", ZoneName: "example.com"},
			out:     zoneOutput("example.com.", true),
			wantErr: "private",
			config:  true,
		},
		{
			name:    "no such zone",
			attrs:   site.ZoneAttributes{HostedZoneID: "Z0123456789ABC", ZoneName: "example.com"},
			err:     &types.NoSuchHostedZone{Message: awsv2.String("nope")},
			wantErr: "does not exist",
			config:  true,
		},
		{
			name:    "transport",
			attrs:   site.ZoneAttributes{HostedZoneID: "Z0123456789ABC", ZoneName: "example.com"},
			err:     errors.New("dial tcp: timeout"),
			wantErr: "timeout",
		},
		{
			name:    "missing id",
			attrs:   site.ZoneAttributes{ZoneName: "example.com"},
			wantErr: "hostedZoneId",
			config:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRoute53{out: tt.out, err: tt.err}
			info, err := Lookup(context.Background(), f, tt.attrs)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.config, errors.Is(err, site.ErrConfig))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Z0123456789ABC", f.asked)
			assert.Equal(t, "Z0123456789ABC", info.ID)
			assert.Equal(t, "example.com", info.Name)
			assert.Equal(t, int64(4), info.Records)
			assert.Equal(t, []string{"ns-1.awsdns-00.com"}, info.NameServers)
		})
	}
}
