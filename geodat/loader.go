// Package geodat implements acl.GeoLoader against the V2Ray "dat" file
// format: protobuf-encoded GeoIPList/GeoSiteList messages, the same format
// shipped as geoip.dat/geosite.dat and consumed by v2ray-core, Xray-core,
// and the trojan-go family of proxies.
package geodat

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strings"
	"sync"

	"google.golang.org/protobuf/proto"

	router "github.com/v2fly/v2ray-core/v4/app/router"

	"github.com/p4gefau1t/acl-go/acl"
	"github.com/p4gefau1t/acl-go/common"
	"github.com/p4gefau1t/acl-go/log"
	"github.com/p4gefau1t/acl-go/metrics/prometheus"
)

// Loader is an acl.GeoLoader backed by a geoip.dat and a geosite.dat file,
// resolved via common.GetAssetLocation unless overridden. Both files are
// parsed lazily on first use and cached in memory: rule sets that only
// reference one or two country codes out of the hundreds a dat file
// carries don't pay to decode the rest twice.
type Loader struct {
	geoIPPath   string
	geoSitePath string

	mu      sync.Mutex
	geoIP   *router.GeoIPList
	geoSite *router.GeoSiteList
}

// NewLoader builds a Loader. Empty paths default to "geoip.dat" and
// "geosite.dat" resolved through common.GetAssetLocation.
func NewLoader(geoIPFile, geoSiteFile string) *Loader {
	if geoIPFile == "" {
		geoIPFile = common.GetAssetLocation("geoip.dat")
	}
	if geoSiteFile == "" {
		geoSiteFile = common.GetAssetLocation("geosite.dat")
	}
	return &Loader{geoIPPath: geoIPFile, geoSitePath: geoSiteFile}
}

func (l *Loader) loadGeoIPList() (*router.GeoIPList, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.geoIP != nil {
		return l.geoIP, nil
	}
	data, err := os.ReadFile(l.geoIPPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.geoIPPath, err)
	}
	list := &router.GeoIPList{}
	if err := proto.Unmarshal(data, list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", l.geoIPPath, err)
	}
	l.geoIP = list
	return list, nil
}

func (l *Loader) loadGeoSiteList() (*router.GeoSiteList, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.geoSite != nil {
		return l.geoSite, nil
	}
	data, err := os.ReadFile(l.geoSitePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.geoSitePath, err)
	}
	list := &router.GeoSiteList{}
	if err := proto.Unmarshal(data, list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", l.geoSitePath, err)
	}
	l.geoSite = list
	return list, nil
}

// LoadGeoIP implements acl.GeoLoader.
func (l *Loader) LoadGeoIP(countryCode string) (*acl.GeoIpMatcher, error) {
	m, err := l.loadGeoIP(countryCode)
	prometheus.RecordGeoLoad("geoip", err)
	return m, err
}

func (l *Loader) loadGeoIP(countryCode string) (*acl.GeoIpMatcher, error) {
	list, err := l.loadGeoIPList()
	if err != nil {
		return nil, &acl.GeoLoadError{Kind: "geoip", Name: countryCode, Msg: "failed to read geoip.dat", Err: err}
	}

	code := strings.ToUpper(countryCode)
	for _, entry := range list.GetEntry() {
		if !strings.EqualFold(entry.GetCountryCode(), code) {
			continue
		}
		prefixes := make([]netip.Prefix, 0, len(entry.GetCidr()))
		for _, c := range entry.GetCidr() {
			p, ok := cidrToPrefix(c)
			if !ok {
				continue
			}
			prefixes = append(prefixes, p)
		}
		log.InfoWith("geoip loaded", slog.String("code", code), slog.Int("cidrs", len(prefixes)))
		return acl.NewGeoIpMatcher(code, prefixes, false), nil
	}
	return nil, &acl.GeoLoadError{Kind: "geoip", Name: countryCode, Msg: "country code not found in geoip.dat"}
}

// LoadGeoSite implements acl.GeoLoader. attrs, when non-empty, restricts
// the returned matcher to domains carrying every requested attribute.
func (l *Loader) LoadGeoSite(name string, attrs []acl.GeoAttr) (*acl.GeoSiteMatcher, error) {
	m, err := l.loadGeoSite(name, attrs)
	prometheus.RecordGeoLoad("geosite", err)
	return m, err
}

func (l *Loader) loadGeoSite(name string, attrs []acl.GeoAttr) (*acl.GeoSiteMatcher, error) {
	list, err := l.loadGeoSiteList()
	if err != nil {
		return nil, &acl.GeoLoadError{Kind: "geosite", Name: name, Msg: "failed to read geosite.dat", Err: err}
	}

	lname := strings.ToLower(name)
	for _, site := range list.GetEntry() {
		if !strings.EqualFold(site.GetCountryCode(), lname) {
			continue
		}
		var entries []acl.GeoSiteEntry
		for _, d := range site.GetDomain() {
			if !hasAllAttrs(d, attrs) {
				continue
			}
			entries = append(entries, domainToEntry(d))
		}
		log.InfoWith("geosite loaded", slog.String("name", lname), slog.Int("domains", len(entries)))
		return acl.NewGeoSiteMatcher(lname, entries), nil
	}
	return nil, &acl.GeoLoadError{Kind: "geosite", Name: name, Msg: "list not found in geosite.dat"}
}

func cidrToPrefix(c *router.CIDR) (netip.Prefix, bool) {
	addr, ok := netip.AddrFromSlice(c.GetIp())
	if !ok {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(addr, int(c.GetPrefix())), true
}

func domainToEntry(d *router.Domain) acl.GeoSiteEntry {
	switch d.GetType() {
	case router.Domain_Full:
		return acl.GeoSiteEntry{Kind: acl.AddrDomain, Value: strings.ToLower(d.GetValue())}
	case router.Domain_Domain:
		return acl.GeoSiteEntry{Kind: acl.AddrSuffix, Value: strings.ToLower(d.GetValue())}
	case router.Domain_Regex:
		return acl.GeoSiteEntry{IsRegex: true, Value: d.GetValue()}
	default: // router.Domain_Plain: substring match
		return acl.GeoSiteEntry{Kind: acl.AddrWildcard, Value: strings.ToLower(d.GetValue())}
	}
}

// hasAllAttrs reports whether d carries every key in attrs. When a value
// was given, "true"/"false" must equal the attribute's bool value and any
// other value must equal its int value written in decimal.
func hasAllAttrs(d *router.Domain, attrs []acl.GeoAttr) bool {
	for _, want := range attrs {
		if !domainHasAttr(d, want) {
			return false
		}
	}
	return true
}

func domainHasAttr(d *router.Domain, want acl.GeoAttr) bool {
	for _, a := range d.GetAttribute() {
		if !strings.EqualFold(a.GetKey(), want.Key) {
			continue
		}
		if !want.HasValue {
			return true
		}
		if want.Value == "true" {
			return a.GetBoolValue()
		}
		if want.Value == "false" {
			return !a.GetBoolValue()
		}
		return fmt.Sprintf("%d", a.GetIntValue()) == want.Value
	}
	return false
}
