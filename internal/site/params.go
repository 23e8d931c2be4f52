// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package site

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrConfig marks a missing or invalid provisioning parameter. It is the only
// error class the descriptor raises.
var ErrConfig = errors.New("configuration error")

const (
	DefaultIndexDocument = "index.html"
	DefaultErrorDocument = "404/index.html"
	DefaultPriceClass    = "PriceClass_100"
	DefaultBuildDir      = "build"
	DefaultStackID       = "Website"

	// RedirectPrefix is prepended to the host name for the redirect bucket,
	// distribution alias and record.
	RedirectPrefix = "www."
)

// ZoneAttributes identify an externally owned Route 53 hosted zone.
type ZoneAttributes struct {
	HostedZoneID string `yaml:"hostedZoneId" json:"hostedZoneId"`
	ZoneName     string `yaml:"zoneName" json:"zoneName"`
}

// Params are the named inputs of the descriptor. HostName, CertificateArn and
// both Zone attributes are required; the rest default when empty.
type Params struct {
	HostName       string         `yaml:"hostName" json:"hostName"`
	CertificateArn string         `yaml:"certificateArn" json:"certificateArn"`
	Zone           ZoneAttributes `yaml:"zone" json:"zone"`

	StackID         string `yaml:"stackId,omitempty" json:"stackId,omitempty"`
	AssetBucketName string `yaml:"assetBucketName,omitempty" json:"assetBucketName,omitempty"`
	IndexDocument   string `yaml:"indexDocument,omitempty" json:"indexDocument,omitempty"`
	ErrorDocument   string `yaml:"errorDocument,omitempty" json:"errorDocument,omitempty"`
	PriceClass      string `yaml:"priceClass,omitempty" json:"priceClass,omitempty"`
	BuildDir        string `yaml:"buildDir,omitempty" json:"buildDir,omitempty"`
}

// WithDefaults returns a copy of p with empty optional fields filled in and
// names normalized to lower case without trailing dots.
func (p Params) WithDefaults() Params {
	p.HostName = normalizeName(p.HostName)
	p.Zone.ZoneName = normalizeName(p.Zone.ZoneName)
	p.CertificateArn = strings.TrimSpace(p.CertificateArn)
	p.Zone.HostedZoneID = strings.TrimSpace(p.Zone.HostedZoneID)

	if p.StackID == "" {
		p.StackID = DefaultStackID
	}
	if p.AssetBucketName == "" && p.HostName != "" {
		p.AssetBucketName = strings.ReplaceAll(p.HostName, ".", "-") + "-website-prod-static-assets"
	}
	if p.IndexDocument == "" {
		p.IndexDocument = DefaultIndexDocument
	}
	if p.ErrorDocument == "" {
		p.ErrorDocument = DefaultErrorDocument
	}
	if p.PriceClass == "" {
		p.PriceClass = DefaultPriceClass
	}
	if p.BuildDir == "" {
		p.BuildDir = DefaultBuildDir
	}
	return p
}

// RedirectHostName is the www host that redirects to HostName.
func (p Params) RedirectHostName() string {
	return RedirectPrefix + normalizeName(p.HostName)
}

var (
	dnsLabel    = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	bucketName  = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)
	priceClass  = regexp.MustCompile(`^PriceClass_(100|200|All)$`)
	certArn     = regexp.MustCompile(`^arn:aws[a-z-]*:acm:[a-z0-9-]+:\d{12}:certificate/[A-Za-z0-9-]+$`)
	stackIDExpr = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
)

// Validate reports every missing or malformed parameter. All problems are
// joined into a single error that matches ErrConfig.
func (p Params) Validate() error {
	p = p.WithDefaults()

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...))
	}

	required := []struct{ name, value string }{
		{"hostName", p.HostName},
		{"certificateArn", p.CertificateArn},
		{"zone.hostedZoneId", p.Zone.HostedZoneID},
		{"zone.zoneName", p.Zone.ZoneName},
	}
	for _, r := range required {
		if r.value == "" {
			fail("missing %s", r.name)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if !validDNSName(p.HostName) {
		fail("hostName %q is not a valid DNS name", p.HostName)
	} else if !withinZone(p.HostName, p.Zone.ZoneName) {
		fail("hostName %q is not within zone %q", p.HostName, p.Zone.ZoneName)
	}
	if !validDNSName(p.Zone.ZoneName) {
		fail("zone.zoneName %q is not a valid DNS name", p.Zone.ZoneName)
	}
	if !certArn.MatchString(p.CertificateArn) {
		fail("certificateArn %q is not an ACM certificate ARN", p.CertificateArn)
	}
	if !stackIDExpr.MatchString(p.StackID) {
		fail("stackId %q must start with a letter and contain only letters, digits and dashes", p.StackID)
	}
	for _, b := range []string{p.AssetBucketName, p.RedirectHostName()} {
		if !bucketName.MatchString(b) {
			fail("bucket name %q must be 3-63 lowercase letters, digits, dots or dashes", b)
		}
	}
	if !priceClass.MatchString(p.PriceClass) {
		fail("priceClass %q must be PriceClass_100, PriceClass_200 or PriceClass_All", p.PriceClass)
	}
	if strings.HasPrefix(p.IndexDocument, "/") || strings.HasPrefix(p.ErrorDocument, "/") {
		fail("index and error documents must be relative keys")
	}

	return errors.Join(errs...)
}

func normalizeName(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
}

func validDNSName(name string) bool {
	if name == "" || len(name) > 253 {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if !dnsLabel.MatchString(label) {
			return false
		}
	}
	return true
}

func withinZone(host, zone string) bool {
	return host == zone || strings.HasSuffix(host, "."+zone)
}
