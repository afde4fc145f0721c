package acl

import (
	"net/netip"
	"sort"
)

// cidrEntry is one network in a sorted-per-family CIDR index.
type cidrEntry struct {
	prefix    netip.Prefix
	network   netip.Addr // prefix.Masked().Addr(), the network's first address
	broadcast netip.Addr // the network's last address
}

// cidrIndex answers containment queries over a heterogeneous list of
// networks via a sorted-per-family binary search.
type cidrIndex struct {
	v4 []cidrEntry
	v6 []cidrEntry
}

// newCIDRIndex partitions prefixes by address family and sorts each family
// by network start address, ready for lookup.
func newCIDRIndex(prefixes []netip.Prefix) *cidrIndex {
	idx := &cidrIndex{}
	for _, p := range prefixes {
		p = p.Masked()
		e := cidrEntry{
			prefix:    p,
			network:   p.Addr(),
			broadcast: lastAddress(p),
		}
		if p.Addr().Is4() {
			idx.v4 = append(idx.v4, e)
		} else {
			idx.v6 = append(idx.v6, e)
		}
	}
	sort.Slice(idx.v4, func(i, j int) bool { return idx.v4[i].network.Less(idx.v4[j].network) })
	sort.Slice(idx.v6, func(i, j int) bool { return idx.v6[i].network.Less(idx.v6[j].network) })
	// CIDR networks are either disjoint or nested, so keeping only the
	// widest of each nested run leaves every family's list disjoint.
	for _, list := range []*[]cidrEntry{&idx.v4, &idx.v6} {
		kept := (*list)[:0]
		for _, e := range *list {
			if n := len(kept); n > 0 && !kept[n-1].broadcast.Less(e.network) {
				if kept[n-1].broadcast.Less(e.broadcast) {
					kept[n-1] = e
				}
				continue
			}
			kept = append(kept, e)
		}
		*list = kept
	}
	return idx
}

// contains reports whether ip is covered by any network in the index.
//
// Lookup: binary search (partition_point) for the rightmost entry whose
// network start is <= ip, then scan backwards testing containment, and
// stop as soon as a candidate's broadcast address is strictly less than
// ip. newCIDRIndex drops networks nested inside a wider one, so the
// entries are disjoint and every entry further back ends before that
// candidate starts.
func (idx *cidrIndex) contains(ip netip.Addr) bool {
	var list []cidrEntry
	if ip.Is4() {
		list = idx.v4
	} else {
		list = idx.v6
	}
	if len(list) == 0 {
		return false
	}

	// Rightmost index i such that list[i].network <= ip.
	pos := sort.Search(len(list), func(i int) bool {
		return ip.Less(list[i].network)
	}) - 1

	for i := pos; i >= 0; i-- {
		e := list[i]
		if e.prefix.Contains(ip) {
			return true
		}
		if e.broadcast.Less(ip) {
			break
		}
	}
	return false
}

// lastAddress returns the highest address covered by a (already masked)
// prefix: the network address with every host bit set to 1.
func lastAddress(p netip.Prefix) netip.Addr {
	addr := p.Addr()
	raw := addr.AsSlice()
	totalBits := len(raw) * 8
	hostBits := totalBits - p.Bits()

	out := make([]byte, len(raw))
	copy(out, raw)

	i := len(out) - 1
	remaining := hostBits
	for remaining > 0 && i >= 0 {
		if remaining >= 8 {
			out[i] = 0xFF
			remaining -= 8
		} else {
			out[i] |= byte(0xFF >> (8 - remaining))
			remaining = 0
		}
		i--
	}

	last, _ := netip.AddrFromSlice(out)
	return last
}
