package acl

import (
	"net/netip"
	"strconv"
	"strings"
)

// ParseTextRules parses a rule list, one rule per line, in the grammar:
//
//	rule      := OUTBOUND '(' ADDR (',' PROTOPORT)? (',' HIJACK)? ')'
//	ADDR      := 'all' | '*' | IPLIT | CIDRLIT | 'geoip:' CODE
//	           | 'geosite:' NAME ('@' ATTR ('=' VAL)?)*
//	           | 'suffix:' DOMAIN | '*' '.' DOMAIN | DOMAIN
//	PROTOPORT := ('tcp' | 'udp' | '*') '/' (PORT | PORT '-' PORT | '*')
//	HIJACK    := IPLIT
//
// Address classification is syntactic: `geoip:`/`geosite:` prefixes switch
// mode; a leading `*.` or a `suffix:` prefix both mean "matches this domain
// or any subdomain of it"; a bare asterisk or `all` is universal; a string
// parsing as a CIDR or a bare IP is classified accordingly; anything else is
// a literal domain matched for exact equality. Domain matchers lowercase
// their literal at parse time.
//
// Blank lines and lines whose first non-space byte is '#' are ignored.
// Malformed lines are collected rather than aborting the parse, so a single
// typo doesn't hide every other error in a large rule file.
func ParseTextRules(text string) ([]TextRule, error) {
	var rules []TextRule
	var errs ParseErrors

	for i, raw := range strings.Split(text, "\n") {
		line := i + 1
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		rule, err := parseRuleLine(s, line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, rule)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rules, nil
}

func parseRuleLine(s string, line int) (TextRule, *ParseError) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return TextRule{}, &ParseError{Line: line, Msg: "expected OUTBOUND(ADDR[,...])"}
	}
	outbound := strings.TrimSpace(s[:open])
	if outbound == "" {
		return TextRule{}, &ParseError{Line: line, Msg: "empty outbound name"}
	}
	body := s[open+1 : len(s)-1]

	fields := splitArgs(body)
	if len(fields) == 0 || fields[0] == "" {
		return TextRule{Line: line}, &ParseError{Line: line, Msg: "missing address clause"}
	}

	addr, perr := parseAddrSpec(fields[0], line)
	if perr != nil {
		return TextRule{}, perr
	}

	rule := TextRule{
		Line:         line,
		OutboundName: outbound,
		Addr:         addr,
		Protocol:     ProtocolBoth,
		Ports:        AnyPort(),
	}

	var haveProtoPort, haveHijack bool
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !haveProtoPort && strings.ContainsRune(f, '/') {
			proto, ports, perr := parseProtoPort(f, line)
			if perr != nil {
				return TextRule{}, perr
			}
			rule.Protocol = proto
			rule.Ports = ports
			haveProtoPort = true
			continue
		}
		if !haveHijack {
			ip, err := netip.ParseAddr(f)
			if err != nil {
				return TextRule{}, &ParseError{Line: line, Msg: "bad hijack address: " + err.Error()}
			}
			rule.HijackIP = ip
			haveHijack = true
			continue
		}
		return TextRule{}, &ParseError{Line: line, Msg: "unexpected extra argument: " + f}
	}

	return rule, nil
}

// splitArgs splits a comma-separated argument list, trimming whitespace
// around each field. Geosite attribute lists use '@', never ',', so a plain
// split is sufficient (the grammar has no nested commas).
func splitArgs(body string) []string {
	parts := strings.Split(body, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseProtoPort parses one PROTOPORT token: PROTO '/' PORT, e.g. "udp/443",
// "tcp/80-90", "*/443", or "udp/*".
func parseProtoPort(f string, line int) (Protocol, PortSpec, *ParseError) {
	slash := strings.IndexByte(f, '/')
	if slash < 0 {
		return 0, PortSpec{}, &ParseError{Line: line, Msg: "expected PROTO/PORT: " + f}
	}
	protoPart, portPart := f[:slash], f[slash+1:]

	var proto Protocol
	switch protoPart {
	case "tcp":
		proto = ProtocolTCP
	case "udp":
		proto = ProtocolUDP
	case "*":
		proto = ProtocolBoth
	default:
		return 0, PortSpec{}, &ParseError{Line: line, Msg: "unknown protocol: " + protoPart}
	}

	if portPart == "*" {
		return proto, AnyPort(), nil
	}
	ports, err := parsePortSpec(portPart)
	if err != nil {
		return 0, PortSpec{}, &ParseError{Line: line, Msg: err.Error()}
	}
	return proto, ports, nil
}

func parsePortSpec(f string) (PortSpec, error) {
	if dash := strings.IndexByte(f, '-'); dash > 0 {
		lo, err := strconv.ParseUint(f[:dash], 10, 16)
		if err != nil {
			return PortSpec{}, err
		}
		hi, err := strconv.ParseUint(f[dash+1:], 10, 16)
		if err != nil {
			return PortSpec{}, err
		}
		if lo > hi {
			return PortSpec{}, &CompileError{Msg: "reversed port range " + f}
		}
		return PortRange(uint16(lo), uint16(hi)), nil
	}
	p, err := strconv.ParseUint(f, 10, 16)
	if err != nil {
		return PortSpec{}, err
	}
	return SinglePort(uint16(p)), nil
}

func parseAddrSpec(f string, line int) (AddrSpec, *ParseError) {
	switch {
	case f == "all" || f == "*":
		return AddrSpec{Kind: AddrAll}, nil

	case strings.HasPrefix(f, "geoip:"):
		return AddrSpec{Kind: AddrGeoIP, Literal: strings.TrimPrefix(f, "geoip:")}, nil

	case strings.HasPrefix(f, "geosite:"):
		return parseGeoSiteSpec(strings.TrimPrefix(f, "geosite:")), nil

	case strings.HasPrefix(f, "suffix:"):
		return AddrSpec{Kind: AddrSuffix, Literal: lowerTrim(f[len("suffix:"):])}, nil

	case strings.HasPrefix(f, "*."):
		return AddrSpec{Kind: AddrSuffix, Literal: lowerTrim(f[len("*."):])}, nil
	}

	if p, err := netip.ParsePrefix(f); err == nil {
		return AddrSpec{Kind: AddrCIDR, Literal: p.String()}, nil
	}
	if ip, err := netip.ParseAddr(f); err == nil {
		return AddrSpec{Kind: AddrIP, Literal: ip.String()}, nil
	}
	return AddrSpec{Kind: AddrDomain, Literal: lowerTrim(f)}, nil
}

func parseGeoSiteSpec(f string) AddrSpec {
	parts := strings.Split(f, "@")
	spec := AddrSpec{Kind: AddrGeoSite, GeoSiteName: strings.ToLower(parts[0])}
	for _, a := range parts[1:] {
		if a == "" {
			continue
		}
		if eq := strings.IndexByte(a, '='); eq >= 0 {
			spec.GeoAttrs = append(spec.GeoAttrs, GeoAttr{Key: a[:eq], Value: a[eq+1:], HasValue: true})
		} else {
			spec.GeoAttrs = append(spec.GeoAttrs, GeoAttr{Key: a})
		}
	}
	return spec
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
