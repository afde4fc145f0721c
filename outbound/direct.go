package outbound

import (
	"context"
	"net"
)

// Direct dials the destination as given, with no further indirection,
// wrapped up as an Outbound so it can sit in a Table next to proxying
// outbounds.
type Direct struct {
	dialer net.Dialer
}

// NewDirect returns a Direct outbound using a zero-value net.Dialer.
func NewDirect() *Direct { return &Direct{} }

func (d *Direct) Name() string { return "direct" }

func (d *Direct) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := d.dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, &DialError{Outbound: d.Name(), Network: network, Addr: addr, Err: err}
	}
	return conn, nil
}
