package dispatch

import (
	"context"
	"fmt"

	"github.com/voxgate/voxgate/internal/i18n"
	"github.com/voxgate/voxgate/internal/message"
)

// ReplyFunc produces the Output for an Input. It is the single-callback
// routing strategy and also the fallback of the handler-list strategy.
type ReplyFunc func(ctx context.Context, in *message.Input, res *i18n.Resolver) (*message.Output, error)

// IntentHandler handles one family of intents. Handlers are registered
// statically at startup; the first handler whose predicate matches wins.
type IntentHandler interface {
	CanHandle(in *message.Input) bool
	CreateOutput(ctx context.Context, in *message.Input, res *i18n.Resolver) (*message.Output, error)
}

// Router selects the reply-producing operation for an input. Exactly one
// strategy is active: a single callback, or an ordered handler list with a
// designated fallback.
type Router struct {
	single   ReplyFunc
	handlers []IntentHandler
	fallback ReplyFunc
}

// NewSingleRouter uses one callback for every input.
func NewSingleRouter(fn ReplyFunc) *Router {
	return &Router{single: fn}
}

// NewRouter uses an ordered handler list with a fallback for unmatched
// inputs. fallback may be nil, in which case unmatched inputs fail.
func NewRouter(handlers []IntentHandler, fallback ReplyFunc) *Router {
	return &Router{handlers: handlers, fallback: fallback}
}

// Route produces the Output for in.
func (r *Router) Route(ctx context.Context, in *message.Input, res *i18n.Resolver) (*message.Output, error) {
	if r.single != nil {
		return r.single(ctx, in, res)
	}
	for _, h := range r.handlers {
		if h.CanHandle(in) {
			return h.CreateOutput(ctx, in, res)
		}
	}
	if r.fallback != nil {
		return r.fallback(ctx, in, res)
	}
	return nil, fmt.Errorf("intent %q: %w", in.Intent, ErrNoHandler)
}

// HandlerFunc adapts a predicate and a reply function into an IntentHandler.
type HandlerFunc struct {
	Match  func(in *message.Input) bool
	Create ReplyFunc
}

func (h HandlerFunc) CanHandle(in *message.Input) bool { return h.Match(in) }

func (h HandlerFunc) CreateOutput(ctx context.Context, in *message.Input, res *i18n.Resolver) (*message.Output, error) {
	return h.Create(ctx, in, res)
}

// ForIntent builds a handler matching one intent name.
func ForIntent(intent string, fn ReplyFunc) IntentHandler {
	return HandlerFunc{
		Match:  func(in *message.Input) bool { return in.Intent == intent },
		Create: fn,
	}
}
