package http

import (
	"net"
	"net/netip"
	stdhttp "net/http"
	"strings"

	"github.com/rotisserie/eris"
)

// trustedProxies lists the peers whose X-Forwarded-For header is believed.
// With no entries the rate limiter keys on the connection address only.
type trustedProxies []netip.Prefix

// parseTrustedProxies accepts bare addresses ("10.0.0.1") and CIDR ranges ("10.0.0.0/8").
func parseTrustedProxies(values []string) (trustedProxies, error) {
	proxies := make(trustedProxies, 0, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)
			if err != nil {
				return nil, eris.Wrapf(err, "invalid trusted proxy range: %s", value)
			}
			proxies = append(proxies, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid trusted proxy address: %s", value)
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return proxies, nil
}

func (p trustedProxies) trusts(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP returns the address used to key the rate limiter. X-Forwarded-For
// is only consulted when the connecting peer is a trusted proxy, and is walked
// from the right so a client cannot choose its own key by prepending entries.
func (p trustedProxies) clientIP(req *stdhttp.Request) string {
	if req == nil {
		return ""
	}

	peer := remoteHost(req.RemoteAddr)
	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || len(p) == 0 || !p.trusts(peerAddr) {
		return peer
	}

	hops := strings.Split(req.Header.Get("X-Forwarded-For"), ",")
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}

		addr, err := netip.ParseAddr(hop)
		if err != nil {
			break
		}

		client = addr.Unmap().String()
		if !p.trusts(addr) {
			break
		}
	}

	return client
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.TrimSpace(remoteAddr)
	}
	return host
}
