// Package dnsrecords turns a domain and its provider challenges into the
// records a tenant must create at their registrar.
package dnsrecords

import (
	"strings"

	"domainflow/internal/tenant/models"
	"domainflow/pkg/hostname"
)

const (
	apexNote      = "Points the root domain at the platform"
	wwwNote       = "Optional: serves www."
	subdomainNote = "Points the subdomain at the platform"
)

// Targets are the platform endpoints records point at.
type Targets struct {
	AnycastIPv4  string
	EdgeHostname string
	TTL          int
}

// Generate returns the ordered instruction set for domain. Apex domains get an
// A record plus an optional www CNAME; subdomains get a single CNAME. Each
// challenge follows as a TXT record. Output depends only on the inputs.
func Generate(domain string, apex bool, challenges []models.Challenge, targets Targets) []models.DNSInstruction {
	out := make([]models.DNSInstruction, 0, 2+len(challenges))

	if apex {
		out = append(out,
			models.DNSInstruction{
				Type:  models.DNSRecordA,
				Name:  "@",
				Value: targets.AnycastIPv4,
				TTL:   targets.TTL,
				Note:  apexNote,
			},
			models.DNSInstruction{
				Type:  models.DNSRecordCNAME,
				Name:  "www",
				Value: targets.EdgeHostname,
				TTL:   targets.TTL,
				Note:  wwwNote + domain,
			},
		)
	} else {
		out = append(out, models.DNSInstruction{
			Type:  models.DNSRecordCNAME,
			Name:  subdomainLabel(domain),
			Value: targets.EdgeHostname,
			TTL:   targets.TTL,
			Note:  subdomainNote,
		})
	}

	for _, c := range challenges {
		out = append(out, models.DNSInstruction{
			Type:  models.DNSRecordTXT,
			Name:  ChallengeName(c.ChallengeDomain, domain),
			Value: c.Token,
			TTL:   targets.TTL,
			Note:  c.Reason,
		})
	}
	return out
}

// ChallengeName is the challenge host relative to domain: the challenge
// domain minus the ".domain" suffix, or "@" when they are equal.
func ChallengeName(challengeDomain, domain string) string {
	cd := strings.TrimSuffix(strings.ToLower(challengeDomain), ".")
	if cd == domain {
		return "@"
	}
	if rel, ok := strings.CutSuffix(cd, "."+domain); ok {
		return rel
	}
	return cd
}

func subdomainLabel(domain string) string {
	if label := hostname.Subdomain(domain); label != "" {
		return label
	}
	return domain
}
