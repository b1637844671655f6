package http

import (
	"net/http/httptest"
	"testing"
)

func TestTrustedProxiesClientIP(t *testing.T) {
	t.Parallel()

	proxies, err := parseTrustedProxies([]string{"10.0.0.0/8", " 192.0.2.10 ", ""})
	if err != nil {
		t.Fatalf("parseTrustedProxies returned error: %v", err)
	}

	cases := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{name: "untrusted peer ignores header", remote: "203.0.113.7:5000", forwarded: "198.51.100.1", want: "203.0.113.7"},
		{name: "trusted peer without header", remote: "10.1.2.3:443", want: "10.1.2.3"},
		{name: "trusted peer single hop", remote: "192.0.2.10:443", forwarded: "198.51.100.1", want: "198.51.100.1"},
		{name: "spoofed leftmost entry is skipped", remote: "10.0.0.5:443", forwarded: "1.2.3.4, 198.51.100.1", want: "198.51.100.1"},
		{name: "chain of trusted proxies", remote: "10.0.0.5:443", forwarded: "198.51.100.1, 10.0.0.9", want: "198.51.100.1"},
		{name: "malformed hop stops the walk", remote: "10.0.0.5:443", forwarded: "198.51.100.1, garbage", want: "10.0.0.5"},
		{name: "remote without port", remote: "203.0.113.7", want: "203.0.113.7"},
		{name: "ipv6 peer", remote: "[2001:db8::1]:443", forwarded: "198.51.100.1", want: "2001:db8::1"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}

			if got := proxies.clientIP(req); got != tc.want {
				t.Fatalf("clientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNoTrustedProxiesUsesRemoteAddr(t *testing.T) {
	t.Parallel()

	var proxies trustedProxies

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Real-IP", "203.0.113.10")

	if got := proxies.clientIP(req); got != "192.0.2.1" {
		t.Fatalf("expected remote address, got %q", got)
	}
}

func TestParseTrustedProxiesRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"proxy.internal", "10.0.0.0/33", "300.1.1.1"} {
		if _, err := parseTrustedProxies([]string{value}); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}
