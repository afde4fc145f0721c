// Package router is the embeddable glue between acl.CompiledRuleSet, a
// resolver.Resolver, and an outbound.Table: it turns a bare destination
// address into a dialed net.Conn by resolving it, matching it against the
// compiled rule set, and handing the winning outbound the (possibly
// hijacked) address to dial.
//
// It plays the role a tunnel client's router plays for a proxy tunnel. The
// rule set it takes is an acl.CompiledRuleSet[string] whose outbound values
// are names, looked up in the outbound.Table at dial time.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"strconv"

	"github.com/p4gefau1t/acl-go/acl"
	"github.com/p4gefau1t/acl-go/log"
	"github.com/p4gefau1t/acl-go/metrics/prometheus"
	"github.com/p4gefau1t/acl-go/outbound"
	"github.com/p4gefau1t/acl-go/resolver"
)

// NoMatchError is returned when no rule in the compiled set admits the
// destination and the Router was built without a default outbound.
type NoMatchError struct {
	Host string
	Port uint16
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no rule matched %s:%d and no default outbound is configured", e.Host, e.Port)
}

// Router pairs a compiled ACL rule set with the collaborators needed to
// turn a match into a dialed connection: a resolver to fill in HostInfo
// and an outbound.Table to look up the matched outbound by name.
//
// Router is safe for concurrent use; CompiledRuleSet already is, and
// Router holds no other mutable state.
type Router struct {
	rules    *acl.CompiledRuleSet[string]
	table    outbound.Table
	resolver resolver.Resolver
	fallback string // outbound name used when no rule matches; "" disables it
}

// Option configures a Router built by New.
type Option func(*Router)

// WithFallback sets the outbound used when no rule matches. Without this
// option, an unmatched destination fails with a *NoMatchError.
func WithFallback(name string) Option {
	return func(r *Router) { r.fallback = name }
}

// New builds a Router. rules must have been compiled with the same names
// table's Outbounds are registered under; Router looks outbounds up by
// name at dial time so the table can be hot-swapped without recompiling
// the rule set.
func New(rules *acl.CompiledRuleSet[string], table outbound.Table, res resolver.Resolver, opts ...Option) *Router {
	r := &Router{rules: rules, table: table, resolver: res}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route resolves host and returns the name of the outbound a dial to
// host:port over protocol should use, along with any hijack address the
// matching rule substituted for host. It performs no dialing, so callers
// that only need the routing decision (e.g. for logging or UDP framing)
// don't pay for a connection attempt.
func (r *Router) Route(ctx context.Context, host string, protocol acl.Protocol, port uint16) (outboundName string, hijack netip.Addr, err error) {
	info, err := r.resolver.Resolve(ctx, host)
	if err != nil {
		return "", netip.Addr{}, fmt.Errorf("resolve %s: %w", host, err)
	}
	if info.Name == "" {
		info.Name = host
	}

	name, hijackIP, ok := r.rules.Match(info, protocol, port)
	prometheus.RecordMatch(ok, name)
	if !ok {
		if r.fallback == "" {
			return "", netip.Addr{}, &NoMatchError{Host: host, Port: port}
		}
		log.DebugWith("no rule matched, using fallback outbound",
			slog.String("host", host), slog.Int("port", int(port)), slog.String("fallback", r.fallback))
		return r.fallback, netip.Addr{}, nil
	}
	return name, hijackIP, nil
}

// DialConn resolves, matches, and dials host:port over network ("tcp" or
// "udp"), returning the connection opened by whichever outbound the rule
// set selected. A rule's hijack address, when present, replaces host in
// the address handed to the outbound; the original name is still what was
// matched against.
func (r *Router) DialConn(ctx context.Context, network, host string, port uint16) (net.Conn, error) {
	protocol := acl.ProtocolTCP
	if network == "udp" {
		protocol = acl.ProtocolUDP
	}

	name, hijack, err := r.Route(ctx, host, protocol, port)
	if err != nil {
		return nil, err
	}

	ob, ok := r.table[name]
	if !ok {
		return nil, fmt.Errorf("rule matched unknown outbound %q", name)
	}

	dialHost := host
	if hijack.IsValid() {
		dialHost = hijack.String()
	}
	addr := net.JoinHostPort(dialHost, strconv.Itoa(int(port)))

	conn, err := ob.Dial(ctx, network, addr)
	prometheus.RecordOutboundDial(name, err)
	if err != nil {
		return nil, err
	}
	log.DebugWith("dialed outbound",
		slog.String("outbound", name), slog.String("network", network), slog.String("addr", addr))
	return conn, nil
}

// DialTCP is DialConn fixed to the "tcp" network.
func (r *Router) DialTCP(ctx context.Context, host string, port uint16) (net.Conn, error) {
	return r.DialConn(ctx, "tcp", host, port)
}

// DialUDP is DialConn fixed to the "udp" network.
func (r *Router) DialUDP(ctx context.Context, host string, port uint16) (net.Conn, error) {
	return r.DialConn(ctx, "udp", host, port)
}
