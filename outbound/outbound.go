// Package outbound provides the dialer collaborators an embedding program
// registers in the Table a router.Router looks matched outbound names up
// in: each Outbound turns a (network, address) pair into a net.Conn, using
// whatever transport the rule set's matching outbound name implies.
//
// The acl package itself never dials anything — Outbound only exists so
// this module has something concrete to route traffic through end to end.
package outbound

import (
	"context"
	"fmt"
	"net"
)

// Outbound dials a destination on behalf of a matched rule.
type Outbound interface {
	// Name identifies the outbound in logs, metrics, and error messages.
	Name() string
	// Dial connects to addr (host:port) over network ("tcp" or "udp").
	Dial(ctx context.Context, network, addr string) (net.Conn, error)
}

// Table is a name -> Outbound lookup, the map Compile's outbound parameter
// expects. Use NewTable to get the built-in "direct" and "reject" entries
// for free.
type Table map[string]Outbound

// NewTable builds a Table seeded with the built-in direct and reject
// outbounds, then adds extra (which may override either built-in by using
// the same name).
func NewTable(extra ...Outbound) Table {
	t := Table{
		"direct": NewDirect(),
		"reject": NewReject(),
	}
	for _, o := range extra {
		t[o.Name()] = o
	}
	return t
}

// DialError wraps a failed dial with the outbound and address involved.
type DialError struct {
	Outbound string
	Network  string
	Addr     string
	Err      error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("outbound %s: dial %s %s: %v", e.Outbound, e.Network, e.Addr, e.Err)
}

func (e *DialError) Unwrap() error { return e.Err }
