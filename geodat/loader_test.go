package geodat

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/proto"

	router "github.com/v2fly/v2ray-core/v4/app/router"

	"github.com/p4gefau1t/acl-go/acl"
)

func writeGeoIPDat(t *testing.T, dir string) string {
	t.Helper()
	list := &router.GeoIPList{
		Entry: []*router.GeoIP{
			{
				CountryCode: "CN",
				Cidr: []*router.CIDR{
					{Ip: []byte{36, 0, 0, 0}, Prefix: 8},
				},
			},
			{
				CountryCode: "PRIVATE",
				Cidr: []*router.CIDR{
					{Ip: []byte{10, 0, 0, 0}, Prefix: 8},
					{Ip: []byte{192, 168, 0, 0}, Prefix: 16},
				},
			},
		},
	}
	data, err := proto.Marshal(list)
	if err != nil {
		t.Fatalf("marshal geoip: %v", err)
	}
	path := filepath.Join(dir, "geoip.dat")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write geoip.dat: %v", err)
	}
	return path
}

func writeGeoSiteDat(t *testing.T, dir string) string {
	t.Helper()
	list := &router.GeoSiteList{
		Entry: []*router.GeoSite{
			{
				CountryCode: "GOOGLE",
				Domain: []*router.Domain{
					{Type: router.Domain_Domain, Value: "google.com"},
					{Type: router.Domain_Full, Value: "youtube.com"},
				},
			},
			{
				CountryCode: "ADS",
				Domain: []*router.Domain{
					{
						Type:  router.Domain_Domain,
						Value: "ads.example.com",
						Attribute: []*router.Domain_Attribute{
							{Key: "cn", TypedValue: &router.Domain_Attribute_BoolValue{BoolValue: true}},
						},
					},
					{Type: router.Domain_Domain, Value: "ads-global.example.com"},
				},
			},
		},
	}
	data, err := proto.Marshal(list)
	if err != nil {
		t.Fatalf("marshal geosite: %v", err)
	}
	path := filepath.Join(dir, "geosite.dat")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write geosite.dat: %v", err)
	}
	return path
}

func TestLoaderLoadGeoIP(t *testing.T) {
	dir := t.TempDir()
	geoIPPath := writeGeoIPDat(t, dir)
	l := NewLoader(geoIPPath, filepath.Join(dir, "geosite.dat"))

	m, err := l.LoadGeoIP("cn")
	if err != nil {
		t.Fatalf("LoadGeoIP: %v", err)
	}
	if !m.Matches(acl.HostInfo{IPv4: mustParseAddr(t, "36.1.2.3")}) {
		t.Error("expected CN CIDR match")
	}
	if m.Matches(acl.HostInfo{IPv4: mustParseAddr(t, "8.8.8.8")}) {
		t.Error("expected no match outside CN CIDR")
	}
}

func TestLoaderLoadGeoIPUnknownCode(t *testing.T) {
	dir := t.TempDir()
	geoIPPath := writeGeoIPDat(t, dir)
	l := NewLoader(geoIPPath, filepath.Join(dir, "geosite.dat"))

	_, err := l.LoadGeoIP("zz")
	if err == nil {
		t.Fatal("expected error for unknown country code")
	}
}

func TestLoaderLoadGeoSite(t *testing.T) {
	dir := t.TempDir()
	geoSitePath := writeGeoSiteDat(t, dir)
	l := NewLoader(filepath.Join(dir, "geoip.dat"), geoSitePath)

	m, err := l.LoadGeoSite("google", nil)
	if err != nil {
		t.Fatalf("LoadGeoSite: %v", err)
	}
	if !m.Matches(acl.HostInfo{Name: "www.google.com"}) {
		t.Error("expected subdomain of root entry to match")
	}
	if !m.Matches(acl.HostInfo{Name: "youtube.com"}) {
		t.Error("expected full entry to match itself")
	}
	if m.Matches(acl.HostInfo{Name: "sub.youtube.com"}) {
		t.Error("full entry must not match a subdomain")
	}
}

func TestLoaderLoadGeoSiteAttrFilter(t *testing.T) {
	dir := t.TempDir()
	geoSitePath := writeGeoSiteDat(t, dir)
	l := NewLoader(filepath.Join(dir, "geoip.dat"), geoSitePath)

	m, err := l.LoadGeoSite("ads", []acl.GeoAttr{{Key: "cn", Value: "true", HasValue: true}})
	if err != nil {
		t.Fatalf("LoadGeoSite: %v", err)
	}
	if !m.Matches(acl.HostInfo{Name: "ads.example.com"}) {
		t.Error("expected attribute-matching domain to be included")
	}
	if m.Matches(acl.HostInfo{Name: "ads-global.example.com"}) {
		t.Error("expected domain without the requested attribute to be excluded")
	}
}

func TestLoaderLoadGeoSiteUnknownList(t *testing.T) {
	dir := t.TempDir()
	geoSitePath := writeGeoSiteDat(t, dir)
	l := NewLoader(filepath.Join(dir, "geoip.dat"), geoSitePath)

	_, err := l.LoadGeoSite("nonexistent", nil)
	if err == nil {
		t.Fatal("expected error for unknown geosite list")
	}
}

func mustParseAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	if err != nil {
		t.Fatalf("parse addr %q: %v", s, err)
	}
	return a
}
