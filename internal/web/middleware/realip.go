package middleware

import (
	"log/slog"
	"net/http"
	"net/netip"
	"strings"

	"github.com/JonMunkholm/familytree/internal/core"
)

// TrustedRealIP resolves the client address of each request and records it
// in the context for the authentication log.
//
// X-Real-IP, then the first X-Forwarded-For entry, are honoured only when
// the connection comes from one of trustedProxies (CIDRs or bare
// addresses). Otherwise the headers are ignored, so visitors cannot spoof
// their address past the rate limiter or the log. A forwarded address
// replaces r.RemoteAddr without a port.
func TrustedRealIP(trustedProxies []string) func(http.Handler) http.Handler {
	trusted := parseProxies(trustedProxies)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := hostOf(r.RemoteAddr)

			if addr, err := netip.ParseAddr(ip); err == nil && isTrusted(addr, trusted) {
				if fwd, ok := forwardedAddr(r.Header); ok {
					ip = fwd.String()
					r.RemoteAddr = ip
				}
			}

			ctx := core.ContextWithIPAddress(r.Context(), ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseProxies(proxies []string) []netip.Prefix {
	var prefixes []netip.Prefix
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(p); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			slog.Warn("realip: invalid trusted proxy, skipping", "proxy", p, "error", err)
			continue
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes
}

// forwardedAddr returns the first valid proxy-supplied client address.
func forwardedAddr(h http.Header) (netip.Addr, bool) {
	candidates := []string{h.Get("X-Real-IP")}
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append(candidates, first)
	}
	for _, c := range candidates {
		if addr, err := netip.ParseAddr(strings.TrimSpace(c)); err == nil {
			return addr.Unmap(), true
		}
	}
	return netip.Addr{}, false
}

// hostOf strips the port from a host:port address.
func hostOf(remoteAddr string) string {
	if ap, err := netip.ParseAddrPort(remoteAddr); err == nil {
		return ap.Addr().Unmap().String()
	}
	return remoteAddr
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
