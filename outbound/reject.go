package outbound

import (
	"context"
	"errors"
	"net"
)

// ErrRejected is returned by Reject.Dial for every address.
var ErrRejected = errors.New("connection rejected by acl rule")

// Reject refuses every dial, for block(...) rules.
type Reject struct{}

// NewReject returns the Reject outbound.
func NewReject() *Reject { return &Reject{} }

func (Reject) Name() string { return "reject" }

func (r Reject) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	return nil, &DialError{Outbound: r.Name(), Network: network, Addr: addr, Err: ErrRejected}
}
