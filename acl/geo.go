package acl

import (
	"net/netip"
	"regexp"
	"strings"
)

// GeoIpMatcher answers "is this address in country/list X" against a
// sorted-CIDR index, with an optional inverse flag for `geoip:!cn`-style
// negated rules.
type GeoIpMatcher struct {
	CountryCode string
	index       *cidrIndex
	Inverse     bool
}

// NewGeoIpMatcher builds a GeoIpMatcher from a flat CIDR list, as produced
// by a GeoLoader after it decodes its on-disk format.
func NewGeoIpMatcher(countryCode string, cidrs []netip.Prefix, inverse bool) *GeoIpMatcher {
	return &GeoIpMatcher{
		CountryCode: countryCode,
		index:       newCIDRIndex(cidrs),
		Inverse:     inverse,
	}
}

// Matches reports whether any valid address on host falls inside the
// matcher's networks, OR-ing across the available address families under
// a dual-stack policy: a host matches a GeoIP rule if either its IPv4 or
// its IPv6 address is covered.
func (m *GeoIpMatcher) Matches(host HostInfo) bool {
	hit := false
	if host.IPv4.IsValid() && m.index.contains(host.IPv4) {
		hit = true
	}
	if !hit && host.IPv6.IsValid() && m.index.contains(host.IPv6) {
		hit = true
	}
	if m.Inverse {
		return !hit
	}
	return hit
}

// geoSiteEntryKind distinguishes the two domain forms held in a plain
// linear vector (full/root are folded into the succinct trie instead, since
// they dominate geosite list sizes and benefit most from rank/select
// lookup; plain and regex stay linear since real lists carry very few of
// them and neither form suits a prefix trie).
type geoSiteEntryKind int

const (
	geoSitePlain geoSiteEntryKind = iota
	geoSiteRegex
)

type geoSiteLinearEntry struct {
	kind geoSiteEntryKind
	text string         // geoSitePlain: substring to search for
	re   *regexp.Regexp // geoSiteRegex: compiled pattern
}

// GeoSiteMatcher is a hybrid matcher: a succinct trie carrying the bulk
// full/root(suffix) entries, plus a small
// linear vector for plain (substring) and regex entries, and an optional
// attribute filter already applied at load time (GeoLoader is expected to
// have pre-filtered its source list by the requested @attr set before
// calling NewGeoSiteMatcher; the matcher itself only evaluates domains).
type GeoSiteMatcher struct {
	ListName string
	trie     *succinctSet
	linear   []geoSiteLinearEntry
}

// GeoSiteEntry is one pre-decoded entry handed to NewGeoSiteMatcher by a
// GeoLoader. GeoAttr-based filtering is the loader's responsibility: by the
// time entries reach here, any @attr selection has already been applied.
type GeoSiteEntry struct {
	Kind    AddrKind // AddrDomain (full), AddrSuffix (root), or AddrWildcard (plain substring)
	IsRegex bool     // when true, Value is a regexp and Kind is ignored
	Value   string
}

// NewGeoSiteMatcher builds a GeoSiteMatcher from a loader-decoded entry
// list. full/root entries are folded into the trie; plain substrings and
// IsRegex entries go in the linear vector. A regex entry whose Value does
// not compile is skipped.
func NewGeoSiteMatcher(listName string, entries []GeoSiteEntry) *GeoSiteMatcher {
	m := &GeoSiteMatcher{ListName: listName}

	var trieEntries [][]byte
	for _, e := range entries {
		switch {
		case e.IsRegex:
			if re, err := regexp.Compile(e.Value); err == nil {
				m.linear = append(m.linear, geoSiteLinearEntry{kind: geoSiteRegex, re: re})
			}
		case e.Kind == AddrDomain:
			trieEntries = append(trieEntries, reversedExact(e.Value))
		case e.Kind == AddrSuffix:
			trieEntries = append(trieEntries, reversedRoot(e.Value)...)
		case e.Kind == AddrWildcard:
			m.linear = append(m.linear, geoSiteLinearEntry{kind: geoSitePlain, text: e.Value})
		}
	}
	m.trie = buildSuccinctSet(trieEntries)
	return m
}

// Matches reports whether host.Name is covered by the list.
func (m *GeoSiteMatcher) Matches(host HostInfo) bool {
	if host.Name == "" {
		return false
	}
	if m.trie.matches(host.Name) {
		return true
	}
	for _, e := range m.linear {
		switch e.kind {
		case geoSitePlain:
			if strings.Contains(host.Name, e.text) {
				return true
			}
		case geoSiteRegex:
			if e.re.MatchString(host.Name) {
				return true
			}
		}
	}
	return false
}
