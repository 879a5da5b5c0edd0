package tenant

import (
	"net"
	"strings"
)

// DefaultMinLabels is the label count at which a host without a configured base
// domain is treated as <slug>.<domain>.<tld>.
const DefaultMinLabels = 3

var reservedLabels = map[string]struct{}{
	"www": {},
}

// SubdomainFromHost extracts the vendor slug candidate from a request host.
// When baseDomain is set the host must end with it and carry exactly one label
// in front; otherwise any host with at least minLabels labels qualifies.
func SubdomainFromHost(host, baseDomain string, minLabels int) (string, bool) {
	host = strings.ToLower(strings.TrimSpace(stripPort(host)))
	host = strings.TrimSuffix(host, ".")
	if host == "" || net.ParseIP(host) != nil {
		return "", false
	}
	if minLabels <= 0 {
		minLabels = DefaultMinLabels
	}

	var label string
	baseDomain = strings.Trim(strings.ToLower(baseDomain), ".")
	if baseDomain != "" {
		prefix, found := strings.CutSuffix(host, "."+baseDomain)
		if !found || prefix == "" || strings.Contains(prefix, ".") {
			return "", false
		}
		label = prefix
	} else {
		labels := strings.Split(host, ".")
		if len(labels) < minLabels {
			return "", false
		}
		label = labels[0]
	}

	if label == "" {
		return "", false
	}
	if _, reserved := reservedLabels[label]; reserved {
		return "", false
	}
	return label, true
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return strings.Trim(h, "[]")
	}
	return strings.Trim(host, "[]")
}
