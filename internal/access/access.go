// Package access implements the static access-control gate: an API-key
// check and an IP whitelist with literal and CIDR entries.
package access

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Mode describes whether any access control is active. A Guard with no
// API key and no whitelist is Unrestricted; deployments should treat that
// as a development-only configuration.
type Mode int

const (
	Unrestricted Mode = iota
	Restricted
)

func (m Mode) String() string {
	if m == Restricted {
		return "restricted"
	}
	return "unrestricted"
}

// ErrInvalidKey is returned by CheckKey when a key is required and the
// presented value is missing or does not match.
var ErrInvalidKey = fmt.Errorf("invalid or missing API key")

// IPDeniedError is returned by CheckIP when the whitelist is enabled and
// the client address is not on it.
type IPDeniedError struct {
	IP string
}

func (e *IPDeniedError) Error() string {
	return fmt.Sprintf("IP %s is not in the allowed list", e.IP)
}

// Guard evaluates inbound requests against the configured API key and IP
// whitelist. Whitelist entries are parsed once at construction; requests
// only test membership.
type Guard struct {
	apiKey   string
	networks []*net.IPNet
}

// New creates a Guard from the configured API key and whitelist entries.
// Entries may be literal IPv4/IPv6 addresses or CIDR ranges; an entry that
// parses as neither is a configuration error.
func New(apiKey string, allowedIPs []string) (*Guard, error) {
	g := &Guard{apiKey: apiKey}

	for _, entry := range allowedIPs {
		if strings.Contains(entry, "/") {
			_, network, err := net.ParseCIDR(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid CIDR range %q in allowed IPs: %w", entry, err)
			}
			g.networks = append(g.networks, network)
			continue
		}

		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address %q in allowed IPs", entry)
		}
		// A literal address becomes a single-host network
		bits := len(ip) * 8
		if v4 := ip.To4(); v4 != nil {
			ip = v4
			bits = 32
		}
		g.networks = append(g.networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}

	return g, nil
}

// Mode reports whether any check is active.
func (g *Guard) Mode() Mode {
	if g.apiKey == "" && len(g.networks) == 0 {
		return Unrestricted
	}
	return Restricted
}

// KeyRequired returns true if an API key is configured.
func (g *Guard) KeyRequired() bool {
	return g.apiKey != ""
}

// WhitelistEnabled returns true if at least one whitelist entry is configured.
func (g *Guard) WhitelistEnabled() bool {
	return len(g.networks) > 0
}

// WhitelistSize returns the number of configured whitelist entries.
func (g *Guard) WhitelistSize() int {
	return len(g.networks)
}

// CheckKey verifies the presented API key. It succeeds unconditionally when
// no key is configured.
func (g *Guard) CheckKey(presented string) error {
	if g.apiKey == "" {
		return nil
	}
	if presented != g.apiKey {
		return ErrInvalidKey
	}
	return nil
}

// CheckIP verifies the client address against the whitelist. It succeeds
// unconditionally when the whitelist is empty. Loopback addresses are
// interchangeable: a whitelist entry for 127.0.0.1 also admits ::1 and
// vice versa.
func (g *Guard) CheckIP(clientIP string) error {
	if len(g.networks) == 0 {
		return nil
	}

	ip := net.ParseIP(clientIP)
	if ip == nil {
		return &IPDeniedError{IP: clientIP}
	}

	if g.contains(ip) {
		return nil
	}
	if ip.IsLoopback() && (g.contains(net.ParseIP("127.0.0.1")) || g.contains(net.ParseIP("::1"))) {
		return nil
	}

	return &IPDeniedError{IP: clientIP}
}

func (g *Guard) contains(ip net.IP) bool {
	for _, network := range g.networks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP resolves the client address for a request. The first entry of
// X-Forwarded-For wins, then X-Real-IP, then the connection's remote
// address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
