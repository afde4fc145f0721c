package outbound

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"

	utls "github.com/refraction-networking/utls"
)

// HTTPConnect dials through an upstream HTTPS proxy using the HTTP CONNECT
// method, fingerprinting its own TLS handshake with utls so the outer
// connection to the proxy doesn't look like a vanilla Go client.
type HTTPConnect struct {
	name          string
	proxyAddr     string
	serverName    string
	clientHelloID utls.ClientHelloID
}

// NewHTTPConnect builds an HTTPConnect outbound named name, tunneling
// through proxyAddr ("host:port"). serverName is the TLS SNI/verification
// name presented to the proxy; pass "" to derive it from proxyAddr's host.
func NewHTTPConnect(name, proxyAddr, serverName string) *HTTPConnect {
	if serverName == "" {
		if host, _, err := net.SplitHostPort(proxyAddr); err == nil {
			serverName = host
		} else {
			serverName = proxyAddr
		}
	}
	return &HTTPConnect{
		name:          name,
		proxyAddr:     proxyAddr,
		serverName:    serverName,
		clientHelloID: utls.HelloChrome_Auto,
	}
}

func (h *HTTPConnect) Name() string { return h.name }

func (h *HTTPConnect) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	var dialer net.Dialer
	raw, err := dialer.DialContext(ctx, "tcp", h.proxyAddr)
	if err != nil {
		return nil, &DialError{Outbound: h.name, Network: network, Addr: addr, Err: err}
	}

	tlsConn := utls.UClient(raw, &utls.Config{ServerName: h.serverName}, h.clientHelloID)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, &DialError{Outbound: h.name, Network: network, Addr: addr, Err: fmt.Errorf("tls handshake: %w", err)}
	}

	reqLine := fmt.Sprintf("CONNECT %s HTTP/1.1\r\nHost: %s\r\n\r\n", addr, addr)
	if _, err := tlsConn.Write([]byte(reqLine)); err != nil {
		tlsConn.Close()
		return nil, &DialError{Outbound: h.name, Network: network, Addr: addr, Err: err}
	}

	br := bufio.NewReader(tlsConn)
	resp, err := http.ReadResponse(br, nil)
	if err != nil {
		tlsConn.Close()
		return nil, &DialError{Outbound: h.name, Network: network, Addr: addr, Err: err}
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		tlsConn.Close()
		return nil, &DialError{Outbound: h.name, Network: network, Addr: addr, Err: fmt.Errorf("proxy CONNECT failed: %s", resp.Status)}
	}

	// br may already hold tunnel bytes the proxy sent right after its
	// response headers; hand those back out before reading tlsConn again.
	return &bufferedConn{Conn: tlsConn, r: br}, nil
}

// bufferedConn is a net.Conn whose Read drains a bufio.Reader first, so
// bytes buffered while parsing the CONNECT response aren't lost.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) { return c.r.Read(p) }
