package router

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/p4gefau1t/acl-go/log"
)

// Relayer pipes bytes between an inbound connection and the outbound
// connection a Router resolved for it, off the caller's goroutine: a Relay
// call enqueues the pair and returns immediately, so an embedding proxy's
// accept loop never blocks on one slow peer.
//
// A single worker takes jobs off a channel and copies each pair on its own
// goroutines, relaying a connection to whatever address
// DialConn/DialTCP/DialUDP already resolved.
type Relayer struct {
	ctx context.Context
	ch  chan *relayJob
}

type relayJob struct {
	inbound  net.Conn
	outbound net.Conn
}

// NewRelayer starts a Relayer backed by a bounded queue of pending jobs;
// ctx cancellation stops the worker and abandons any queued relays.
func NewRelayer(ctx context.Context) *Relayer {
	r := &Relayer{ctx: ctx, ch: make(chan *relayJob, 64)}
	go r.worker()
	return r
}

// Relay queues inbound/outbound for bidirectional copying. Both ends are
// closed once copying finishes in either direction, or when the Relayer's
// context is cancelled first.
func (r *Relayer) Relay(inbound, outbound net.Conn) {
	job := &relayJob{inbound: inbound, outbound: outbound}
	select {
	case r.ch <- job:
	case <-r.ctx.Done():
		inbound.Close()
		outbound.Close()
	}
}

func (r *Relayer) worker() {
	for {
		select {
		case job := <-r.ch:
			go r.handle(job)
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Relayer) handle(job *relayJob) {
	defer job.inbound.Close()
	defer job.outbound.Close()

	errChan := make(chan error, 2)
	copyConn := func(dst, src net.Conn) {
		_, err := io.Copy(dst, src)
		errChan <- err
	}
	go copyConn(job.outbound, job.inbound)
	go copyConn(job.inbound, job.outbound)

	select {
	case err := <-errChan:
		if err != nil {
			log.DebugWith("relay ended", slog.String("error", err.Error()))
		}
	case <-r.ctx.Done():
	}
}
