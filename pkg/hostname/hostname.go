// Package hostname normalizes and classifies tenant-supplied domain names.
//
// Every function is pure and total. IsValidFormat is a user-facing pre-check,
// not a security boundary.
package hostname

import (
	"net"
	"strings"
)

const (
	maxDomainLength = 253
	maxLabelLength  = 63
)

// Normalize lowercases and trims input, strips an http(s) scheme, any
// trailing slashes and a trailing root dot. Normalize(Normalize(x)) == Normalize(x).
func Normalize(input string) string {
	d := strings.ToLower(strings.TrimSpace(input))
	for {
		prev := d
		d = strings.TrimPrefix(d, "https://")
		d = strings.TrimPrefix(d, "http://")
		d = strings.TrimRight(d, "/")
		d = strings.TrimSuffix(d, ".")
		d = strings.TrimSpace(d)
		if d == prev {
			return d
		}
	}
}

// IsApex reports whether domain has exactly two labels (example.com).
func IsApex(domain string) bool {
	return len(labels(domain)) == 2
}

// RootDomain returns the last two labels. Inputs with fewer labels are
// returned unchanged.
func RootDomain(domain string) string {
	parts := labels(domain)
	if len(parts) < 2 {
		return domain
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// Subdomain returns the labels left of the root domain ("shop" for
// shop.example.com), or "" for an apex.
func Subdomain(domain string) string {
	parts := labels(domain)
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], ".")
}

// IsValidFormat checks label syntax: at least one dot, labels of 1-63
// alphanumeric or hyphen characters without leading or trailing hyphens,
// total length at most 253.
func IsValidFormat(domain string) bool {
	if domain == "" || len(domain) > maxDomainLength {
		return false
	}
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return false
	}
	for _, label := range parts {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

// StripPort removes a trailing :port from a Host header value.
func StripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// StripWWW removes a leading "www." label.
func StripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// FromHost turns an inbound Host header into the normalized domain used as a
// resolution key.
func FromHost(host string) string {
	return StripWWW(Normalize(StripPort(strings.TrimSpace(host))))
}

func labels(domain string) []string {
	if domain == "" {
		return nil
	}
	return strings.Split(domain, ".")
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > maxLabelLength {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}
