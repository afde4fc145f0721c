package acl

import (
	"net/netip"
	"strconv"
	"strings"
)

// Compile resolves a parsed rule list against a concrete outbound table and
// geo loader, producing an immutable, concurrency-safe CompiledRuleSet.
//
// outbounds must be non-empty; every rule's OutboundName must have a
// matching key, or compilation fails with a CompileError naming the
// offending line. cacheCapacity must be at least 1. loader may be nil, in
// which case a NilGeoLoader is used — fine for rule sets with no geoip:/
// geosite: clauses, and a clear failure otherwise.
func Compile[O any](rules []TextRule, outbounds map[string]O, cacheCapacity int, loader GeoLoader) (*CompiledRuleSet[O], error) {
	if len(outbounds) == 0 {
		return nil, &InvalidConfigError{Msg: "outbound map must not be empty"}
	}
	if cacheCapacity < 1 {
		return nil, &InvalidConfigError{Msg: "cache capacity must be >= 1"}
	}
	if loader == nil {
		loader = NilGeoLoader{}
	}

	compiled := make([]CompiledRule[O], 0, len(rules))
	for _, r := range rules {
		out, ok := outbounds[r.OutboundName]
		if !ok {
			return nil, &CompileError{Line: r.Line, Msg: "unknown outbound " + strconv.Quote(r.OutboundName)}
		}

		matcher, err := compileAddrSpec(r.Addr, loader)
		if err != nil {
			return nil, &CompileError{Line: r.Line, Msg: "address clause", Err: err}
		}

		compiled = append(compiled, CompiledRule[O]{
			Matcher:  matcher,
			Protocol: r.Protocol,
			Ports:    r.Ports,
			Outbound: out,
			HijackIP: r.HijackIP,
		})
	}

	return &CompiledRuleSet[O]{
		rules: compiled,
		cache: newResultCache[O](cacheCapacity),
	}, nil
}

func compileAddrSpec(spec AddrSpec, loader GeoLoader) (AddressMatcher, error) {
	switch spec.Kind {
	case AddrAll:
		return AddressMatcher{Kind: AddrAll}, nil

	case AddrIP:
		ip, err := netip.ParseAddr(spec.Literal)
		if err != nil {
			return AddressMatcher{}, err
		}
		return AddressMatcher{Kind: AddrIP, IP: ip}, nil

	case AddrCIDR:
		p, err := netip.ParsePrefix(spec.Literal)
		if err != nil {
			return AddressMatcher{}, err
		}
		return AddressMatcher{Kind: AddrCIDR, CIDR: p.Masked()}, nil

	case AddrDomain, AddrSuffix, AddrWildcard:
		return AddressMatcher{Kind: spec.Kind, Literal: spec.Literal}, nil

	case AddrGeoIP:
		code := spec.Literal
		inverse := strings.HasPrefix(code, "!")
		if inverse {
			code = code[1:]
		}
		m, err := loader.LoadGeoIP(code)
		if err != nil {
			return AddressMatcher{}, err
		}
		m.Inverse = inverse
		return AddressMatcher{Kind: AddrGeoIP, GeoIP: m}, nil

	case AddrGeoSite:
		m, err := loader.LoadGeoSite(spec.GeoSiteName, spec.GeoAttrs)
		if err != nil {
			return AddressMatcher{}, err
		}
		return AddressMatcher{Kind: AddrGeoSite, GeoSite: m}, nil
	}
	return AddressMatcher{}, &InvalidConfigError{Msg: "unknown address kind"}
}
