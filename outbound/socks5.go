package outbound

import (
	"context"
	"net"

	"github.com/txthinking/socks5"
)

// SOCKS5 dials through an upstream SOCKS5 proxy via github.com/txthinking/socks5.
type SOCKS5 struct {
	name   string
	client *socks5.Client
}

// NewSOCKS5 builds a SOCKS5 outbound named name, connecting to server
// ("host:port") with optional username/password (pass "" for none).
// tcpTimeout/udpTimeout are in seconds, per socks5.NewClient.
func NewSOCKS5(name, server, username, password string, tcpTimeout, udpTimeout int) (*SOCKS5, error) {
	client, err := socks5.NewClient(server, username, password, tcpTimeout, udpTimeout)
	if err != nil {
		return nil, err
	}
	return &SOCKS5{name: name, client: client}, nil
}

func (s *SOCKS5) Name() string { return s.name }

func (s *SOCKS5) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := s.client.Dial(network, addr)
	if err != nil {
		return nil, &DialError{Outbound: s.name, Network: network, Addr: addr, Err: err}
	}
	return conn, nil
}
