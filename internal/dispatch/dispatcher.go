// Package dispatch drives the request pipeline: platform selection, parse,
// concurrent verification and reply composition, render, delivery, and
// tracker fan-out.
package dispatch

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/voxgate/voxgate/internal/i18n"
	"github.com/voxgate/voxgate/internal/message"
	"github.com/voxgate/voxgate/internal/platform"
	"github.com/voxgate/voxgate/internal/track"
)

// Logger is the minimal printf-style logging contract the dispatcher needs.
type Logger interface {
	Printf(format string, v ...any)
}

// Dispatcher routes raw webhook bodies through the configured adapters. A
// single instance is shared across concurrent requests: the adapter list and
// resolver are immutable after construction, and all per-request state lives
// in stack-local values.
type Dispatcher struct {
	adapters []platform.Adapter
	router   *Router
	resolver *i18n.Resolver
	trackers *track.Fanout
	log      Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTrackers attaches the tracker fan-out.
func WithTrackers(f *track.Fanout) Option {
	return func(d *Dispatcher) { d.trackers = f }
}

// WithLogger replaces the default stdlib logger.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// New creates a Dispatcher over an ordered adapter list. Order matters: the
// first adapter whose support predicate matches a body handles it.
func New(adapters []platform.Adapter, router *Router, resolver *i18n.Resolver, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		adapters: adapters,
		router:   router,
		resolver: resolver,
		log:      log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// match returns the first adapter claiming the body. Scanning stops at the
// first match; later adapters are never evaluated.
func (d *Dispatcher) match(raw []byte) platform.Adapter {
	for _, a := range d.adapters {
		if a.IsSupported(raw) {
			return a
		}
	}
	return nil
}

// Handle processes one raw request end to end. Verification and reply
// composition run concurrently and are joined before rendering; rendering
// never happens for an unverified request, so composition must stay free of
// irreversible side effects. Tracker notification is fire-and-forget and
// never blocks delivery.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte, req platform.RequestAccessor, sink platform.ResponseSink) error {
	adapter := d.match(raw)
	if adapter == nil {
		return ErrRequestNotSupported
	}

	input, err := adapter.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: parsing request: %w", adapter.PlatformID(), err)
	}

	if d.trackers != nil {
		d.trackers.Input(input)
	}

	var (
		verified bool
		output   *message.Output
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ok, err := adapter.Verify(gctx, req, sink)
		if err != nil {
			return fmt.Errorf("%s: verifying request: %w", adapter.PlatformID(), err)
		}
		verified = ok
		return nil
	})
	g.Go(func() error {
		out, err := d.router.Route(gctx, input, d.resolver)
		if err != nil {
			return fmt.Errorf("%s: composing reply: %w", adapter.PlatformID(), err)
		}
		output = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if !verified {
		// The verifier owns any error response already written through
		// the sink; the framework writes nothing here.
		d.log.Printf("%s: request rejected by verifier", adapter.PlatformID())
		return fmt.Errorf("%s: %w", adapter.PlatformID(), ErrVerificationFailed)
	}

	payload, err := adapter.Render(output)
	if err != nil {
		return fmt.Errorf("%s: rendering output: %w", adapter.PlatformID(), err)
	}
	if err := sink.Deliver(payload); err != nil {
		return fmt.Errorf("%s: delivering response: %w", adapter.PlatformID(), err)
	}

	if d.trackers != nil {
		d.trackers.Output(output)
	}
	return nil
}
