// Package resolver turns a bare host name into the acl.HostInfo a
// router.Router needs, resolving A/AAAA records through a pluggable
// net.Resolver so callers can swap in DoH/DoT or a test double without
// touching the router itself.
package resolver

import (
	"context"
	"net"
	"net/netip"

	"github.com/p4gefau1t/acl-go/acl"
)

// Resolver looks up a host name's IPv4/IPv6 addresses.
type Resolver interface {
	Resolve(ctx context.Context, name string) (acl.HostInfo, error)
}

// System resolves through a *net.Resolver (net.DefaultResolver unless
// overridden), so callers can point at a specific DNS server by supplying
// their own Resolver.Dial.
type System struct {
	resolver *net.Resolver
}

// NewSystem returns a Resolver backed by net.DefaultResolver.
func NewSystem() *System {
	return &System{resolver: net.DefaultResolver}
}

// NewSystemWithResolver returns a Resolver backed by a caller-supplied
// *net.Resolver, e.g. one configured to query a specific upstream server.
func NewSystemWithResolver(r *net.Resolver) *System {
	return &System{resolver: r}
}

// Resolve looks up name and returns the first IPv4 and first IPv6 address
// found, if any. A name that is already a literal IP address resolves to
// itself without a network round trip.
func (s *System) Resolve(ctx context.Context, name string) (acl.HostInfo, error) {
	host := acl.HostInfo{Name: name}

	if ip, err := netip.ParseAddr(name); err == nil {
		if ip.Is4() || ip.Is4In6() {
			host.IPv4 = ip.Unmap()
		} else {
			host.IPv6 = ip
		}
		return host, nil
	}

	addrs, err := s.resolver.LookupNetIP(ctx, "ip", name)
	if err != nil {
		return acl.HostInfo{}, err
	}
	for _, a := range addrs {
		if a.Is4() || a.Is4In6() {
			if !host.IPv4.IsValid() {
				host.IPv4 = a.Unmap()
			}
		} else if !host.IPv6.IsValid() {
			host.IPv6 = a
		}
	}
	return host, nil
}

// Static always resolves to a fixed HostInfo, for tests and for rule sets
// that only ever see pre-resolved addresses (a tunneling frontend that
// already did the DNS lookup upstream).
type Static map[string]acl.HostInfo

func (s Static) Resolve(_ context.Context, name string) (acl.HostInfo, error) {
	if h, ok := s[name]; ok {
		return h, nil
	}
	return acl.HostInfo{Name: name}, nil
}
