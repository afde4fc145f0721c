package acl

import (
	"net/netip"
	"testing"
)

type stubGeoLoader struct{}

func (stubGeoLoader) LoadGeoIP(code string) (*GeoIpMatcher, error) {
	switch code {
	case "cn":
		return NewGeoIpMatcher("cn", []netip.Prefix{mustPrefixNoT("36.0.0.0/8")}, false), nil
	default:
		return nil, &GeoLoadError{Kind: "geoip", Name: code, Msg: "unknown country code"}
	}
}

func (stubGeoLoader) LoadGeoSite(name string, attrs []GeoAttr) (*GeoSiteMatcher, error) {
	switch name {
	case "google":
		return NewGeoSiteMatcher("google", []GeoSiteEntry{{Kind: AddrSuffix, Value: "google.com"}}), nil
	default:
		return nil, &GeoLoadError{Kind: "geosite", Name: name, Msg: "unknown list"}
	}
}

func mustPrefixNoT(s string) netip.Prefix {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		panic(err)
	}
	return p
}

func TestCompileBasic(t *testing.T) {
	rules, err := ParseTextRules("proxy(suffix:example.com)\ndirect(all)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	outbounds := map[string]string{"proxy": "proxy-handle", "direct": "direct-handle"}
	rs, err := Compile[string](rules, outbounds, 64, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if rs.RuleCount() != 2 {
		t.Fatalf("got %d rules, want 2", rs.RuleCount())
	}
}

func TestCompileUnknownOutbound(t *testing.T) {
	rules, _ := ParseTextRules("proxy(all)")
	_, err := Compile[string](rules, map[string]string{"direct": "x"}, 64, nil)
	if err == nil {
		t.Fatal("expected error for unknown outbound")
	}
}

func TestCompileEmptyOutboundMap(t *testing.T) {
	_, err := Compile[string](nil, map[string]string{}, 64, nil)
	if _, ok := err.(*InvalidConfigError); !ok {
		t.Fatalf("expected *InvalidConfigError, got %T (%v)", err, err)
	}
}

func TestCompileZeroCacheCapacity(t *testing.T) {
	_, err := Compile[string](nil, map[string]string{"direct": "x"}, 0, nil)
	if _, ok := err.(*InvalidConfigError); !ok {
		t.Fatalf("expected *InvalidConfigError, got %T (%v)", err, err)
	}
}

func TestCompileGeoWithoutLoaderFails(t *testing.T) {
	rules, _ := ParseTextRules("proxy(geoip:cn)")
	_, err := Compile[string](rules, map[string]string{"proxy": "x"}, 64, nil)
	if err == nil {
		t.Fatal("expected error compiling a geoip rule with no loader")
	}
}

func TestCompileGeoWithLoader(t *testing.T) {
	rules, _ := ParseTextRules("proxy(geoip:cn)\nproxy(geosite:google)")
	rs, err := Compile[string](rules, map[string]string{"proxy": "x"}, 64, stubGeoLoader{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if rs.RuleCount() != 2 {
		t.Fatalf("got %d rules, want 2", rs.RuleCount())
	}
}

func TestCompileUnknownGeoIPFails(t *testing.T) {
	rules, _ := ParseTextRules("proxy(geoip:zz)")
	_, err := Compile[string](rules, map[string]string{"proxy": "x"}, 64, stubGeoLoader{})
	if err == nil {
		t.Fatal("expected error for unknown country code")
	}
}

func TestCompileGeoIPInverse(t *testing.T) {
	rules, _ := ParseTextRules("direct(geoip:!cn)")
	rs, err := Compile[string](rules, map[string]string{"direct": "x"}, 64, stubGeoLoader{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out, _, ok := rs.Match(HostInfo{IPv4: netip.MustParseAddr("8.8.8.8")}, ProtocolTCP, 443)
	if !ok || out != "x" {
		t.Fatalf("expected inverse geoip rule to match a non-CN address, got ok=%v out=%v", ok, out)
	}
}
