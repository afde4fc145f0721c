package acl

import (
	"net/netip"
	"testing"
)

func TestGeoIpMatcher(t *testing.T) {
	m := NewGeoIpMatcher("cn", []netip.Prefix{
		mustPrefix(t, "36.0.0.0/8"),
		mustPrefix(t, "2400::/12"),
	}, false)

	if !m.Matches(HostInfo{IPv4: netip.MustParseAddr("36.1.2.3")}) {
		t.Error("expected v4 match")
	}
	if m.Matches(HostInfo{IPv4: netip.MustParseAddr("8.8.8.8")}) {
		t.Error("expected no match")
	}
	if !m.Matches(HostInfo{IPv6: netip.MustParseAddr("2400::1")}) {
		t.Error("expected v6 match")
	}
}

func TestGeoIpMatcherInverse(t *testing.T) {
	m := NewGeoIpMatcher("cn", []netip.Prefix{mustPrefix(t, "36.0.0.0/8")}, true)

	if m.Matches(HostInfo{IPv4: netip.MustParseAddr("36.1.2.3")}) {
		t.Error("inverse matcher must reject a covered address")
	}
	if !m.Matches(HostInfo{IPv4: netip.MustParseAddr("8.8.8.8")}) {
		t.Error("inverse matcher must accept an uncovered address")
	}
}

func TestGeoIpMatcherDualStackOR(t *testing.T) {
	// Only the IPv6 address is covered; the IPv4 address is not. A host
	// matches if *either* family is covered.
	m := NewGeoIpMatcher("cn", []netip.Prefix{mustPrefix(t, "2400::/12")}, false)
	host := HostInfo{
		IPv4: netip.MustParseAddr("8.8.8.8"),
		IPv6: netip.MustParseAddr("2400::1"),
	}
	if !m.Matches(host) {
		t.Error("expected OR-across-families match")
	}
}

func TestGeoSiteMatcherHybrid(t *testing.T) {
	m := NewGeoSiteMatcher("test", []GeoSiteEntry{
		{Kind: AddrDomain, Value: "exact.example.com"},
		{Kind: AddrSuffix, Value: "suffix.example.com"},
		{Kind: AddrWildcard, Value: "ads"},
		{IsRegex: true, Value: `^track\d+\.example\.com$`},
	})

	cases := map[string]bool{
		"exact.example.com":     true,
		"sub.exact.example.com": false,
		"suffix.example.com":    true,
		"a.suffix.example.com":  true,
		"my-ads-server.com":     true,
		"track123.example.com":  true,
		"track.example.com":     false,
		"unrelated.org":         false,
	}
	for q, want := range cases {
		if got := m.Matches(HostInfo{Name: q}); got != want {
			t.Errorf("Matches(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestGeoSiteMatcherEmptyHostName(t *testing.T) {
	m := NewGeoSiteMatcher("test", []GeoSiteEntry{{Kind: AddrSuffix, Value: "example.com"}})
	if m.Matches(HostInfo{}) {
		t.Fatal("a query with no host name must never match a geosite list")
	}
}
