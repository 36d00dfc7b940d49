// Package track fans request and response events out to analytics
// providers. Tracking is best-effort: provider failures are reported through
// a side channel and never reach the request path.
package track

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/voxgate/voxgate/internal/message"
)

// Provider is one analytics collaborator.
type Provider interface {
	Name() string
	TrackInput(ctx context.Context, in *message.Input) error
	TrackOutput(ctx context.Context, out *message.Output) error
}

// ErrorReporter receives tracking failures. The default logs them.
type ErrorReporter func(provider string, err error)

// Fanout notifies every registered provider asynchronously. The request
// path never waits on it.
type Fanout struct {
	providers []Provider
	report    ErrorReporter
	timeout   time.Duration
	wg        sync.WaitGroup
}

// FanoutOption configures a Fanout.
type FanoutOption func(*Fanout)

// WithReporter replaces the default log-based error reporter.
func WithReporter(r ErrorReporter) FanoutOption {
	return func(f *Fanout) { f.report = r }
}

// WithTimeout bounds each provider call. Zero means no bound.
func WithTimeout(d time.Duration) FanoutOption {
	return func(f *Fanout) { f.timeout = d }
}

// NewFanout creates a Fanout over the given providers.
func NewFanout(providers []Provider, opts ...FanoutOption) *Fanout {
	f := &Fanout{
		providers: providers,
		report: func(provider string, err error) {
			log.Printf("track: %s: %v", provider, err)
		},
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Input notifies every provider of an inbound request and returns
// immediately.
func (f *Fanout) Input(in *message.Input) {
	f.each(func(ctx context.Context, p Provider) error {
		return p.TrackInput(ctx, in)
	})
}

// Output notifies every provider of a delivered response and returns
// immediately.
func (f *Fanout) Output(out *message.Output) {
	f.each(func(ctx context.Context, p Provider) error {
		return p.TrackOutput(ctx, out)
	})
}

func (f *Fanout) each(call func(ctx context.Context, p Provider) error) {
	for _, p := range f.providers {
		p := p
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			ctx := context.Background()
			if f.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, f.timeout)
				defer cancel()
			}
			if err := call(ctx, p); err != nil {
				f.report(p.Name(), err)
			}
		}()
	}
}

// Wait blocks until all in-flight notifications finish. Used in shutdown
// and tests.
func (f *Fanout) Wait() {
	f.wg.Wait()
}
