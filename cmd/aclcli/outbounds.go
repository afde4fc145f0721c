package main

import (
	"fmt"

	"github.com/p4gefau1t/acl-go/outbound"
)

// buildTable turns the outbounds: section of a Config into an
// outbound.Table, failing fast on an unknown type or missing field rather
// than deferring to a dial-time surprise.
func buildTable(specs map[string]OutboundConfig) (outbound.Table, error) {
	extra := make([]outbound.Outbound, 0, len(specs))
	for name, spec := range specs {
		ob, err := buildOutbound(name, spec)
		if err != nil {
			return nil, fmt.Errorf("outbound %q: %w", name, err)
		}
		extra = append(extra, ob)
	}
	return outbound.NewTable(extra...), nil
}

func buildOutbound(name string, spec OutboundConfig) (outbound.Outbound, error) {
	switch spec.Type {
	case "", "direct":
		return namedDirect{Direct: outbound.NewDirect(), name: name}, nil
	case "reject":
		return namedReject{Reject: outbound.NewReject(), name: name}, nil
	case "socks5":
		if spec.Server == "" {
			return nil, fmt.Errorf("socks5 outbound requires server")
		}
		return outbound.NewSOCKS5(name, spec.Server, spec.Username, spec.Password, 10, 60)
	case "httpconnect":
		if spec.ProxyAddr == "" {
			return nil, fmt.Errorf("httpconnect outbound requires proxy_addr")
		}
		return outbound.NewHTTPConnect(name, spec.ProxyAddr, spec.ServerName), nil
	default:
		return nil, fmt.Errorf("unknown outbound type %q", spec.Type)
	}
}

// namedDirect/namedReject let the config give the built-in direct/reject
// outbounds a caller-chosen name (e.g. "block" instead of "reject") while
// reusing their Dial implementation unchanged.
type namedDirect struct {
	*outbound.Direct
	name string
}

func (n namedDirect) Name() string { return n.name }

type namedReject struct {
	*outbound.Reject
	name string
}

func (n namedReject) Name() string { return n.name }
