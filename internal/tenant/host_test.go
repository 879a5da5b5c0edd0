package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubdomainFromHost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		host       string
		baseDomain string
		want       string
		ok         bool
	}{
		{name: "label count", host: "crescent.example.com", want: "crescent", ok: true},
		{name: "port stripped", host: "crescent.example.com:8080", want: "crescent", ok: true},
		{name: "uppercase", host: "Crescent.Example.COM", want: "crescent", ok: true},
		{name: "bare domain", host: "example.com", ok: false},
		{name: "www reserved", host: "www.example.com", ok: false},
		{name: "ip address", host: "127.0.0.1:8080", ok: false},
		{name: "ipv6", host: "[::1]:8080", ok: false},
		{name: "empty", host: "", ok: false},
		{name: "base domain match", host: "crescent.lvh.me:8080", baseDomain: "lvh.me", want: "crescent", ok: true},
		{name: "base domain bare", host: "lvh.me", baseDomain: "lvh.me", ok: false},
		{name: "base domain nested", host: "a.b.lvh.me", baseDomain: "lvh.me", ok: false},
		{name: "foreign domain", host: "crescent.other.com", baseDomain: "lvh.me", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := SubdomainFromHost(tc.host, tc.baseDomain, DefaultMinLabels)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
