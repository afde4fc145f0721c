package acl

import "net/netip"

// CompiledRuleSet is the immutable, concurrency-safe product of Compile. A
// single CompiledRuleSet may be shared across any number of goroutines:
// rules are read-only after compilation, and the only mutable state is the
// mutex-guarded result cache.
type CompiledRuleSet[O any] struct {
	rules []CompiledRule[O]
	cache *resultCache[O]
}

// Match evaluates host/protocol/port against the rule set in order and
// returns the first rule's outbound and (optional) hijack address. ok is
// false when no rule matches, in which case the caller should fall back to
// its own default.
//
// Results are memoized by (host, protocol, port); repeat queries for the
// same key never re-walk the rule list, and concurrent queries for a key
// not yet in the cache block on each other rather than duplicate the work.
func (rs *CompiledRuleSet[O]) Match(host HostInfo, protocol Protocol, port uint16) (O, netip.Addr, bool) {
	key := CacheKey{Name: host.Name, IPv4: host.IPv4, IPv6: host.IPv6, Protocol: protocol, Port: port}

	result, ok := rs.cache.getOrCompute(key, func() (MatchResult[O], bool) {
		for _, r := range rs.rules {
			if !r.Protocol.matches(protocol) {
				continue
			}
			if !r.Ports.contains(port) {
				continue
			}
			if !matchAddress(r.Matcher, host) {
				continue
			}
			return MatchResult[O]{Outbound: r.Outbound, HijackIP: r.HijackIP}, true
		}
		var zero MatchResult[O]
		return zero, false
	})

	if !ok {
		var zero O
		return zero, netip.Addr{}, false
	}
	return result.Outbound, result.HijackIP, true
}

// ClearCache discards every memoized result, e.g. after the caller's
// outbound table or geo databases have been hot-swapped behind an
// unchanged rule set.
func (rs *CompiledRuleSet[O]) ClearCache() { rs.cache.clear() }

// CacheLen reports the number of memoized entries, for metrics and tests.
func (rs *CompiledRuleSet[O]) CacheLen() int { return rs.cache.len() }

// RuleCount reports how many rules the set holds, for metrics and tests.
func (rs *CompiledRuleSet[O]) RuleCount() int { return len(rs.rules) }

// matchAddress dispatches on the matcher's Kind.
func matchAddress(m AddressMatcher, host HostInfo) bool {
	switch m.Kind {
	case AddrAll:
		return true

	case AddrIP:
		return (host.IPv4.IsValid() && host.IPv4 == m.IP) ||
			(host.IPv6.IsValid() && host.IPv6 == m.IP)

	case AddrCIDR:
		return (host.IPv4.IsValid() && m.CIDR.Contains(host.IPv4)) ||
			(host.IPv6.IsValid() && m.CIDR.Contains(host.IPv6))

	case AddrDomain:
		return host.Name != "" && host.Name == m.Literal

	case AddrSuffix:
		return host.Name != "" && (host.Name == m.Literal || strHasDotSuffix(host.Name, m.Literal))

	case AddrWildcard:
		return host.Name != "" && matchWildcard(host.Name, m.Literal)

	case AddrGeoIP:
		return m.GeoIP.Matches(host)

	case AddrGeoSite:
		return m.GeoSite.Matches(host)
	}
	return false
}

// strHasDotSuffix reports whether s is "<anything>.suffix".
func strHasDotSuffix(s, suffix string) bool {
	if len(s) <= len(suffix) {
		return false
	}
	return s[len(s)-len(suffix):] == suffix && s[len(s)-len(suffix)-1] == '.'
}
