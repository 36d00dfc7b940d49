package i18n

import (
	"fmt"
	"math/rand"

	"github.com/voxgate/voxgate/internal/message"
)

// MissingKeyError reports a strict resolution failure.
type MissingKeyError struct {
	Lang string
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no translation for key %q in language %q", e.Key, e.Lang)
}

// Resolver resolves locale+key(+args) lookups against an immutable Table.
// Variant selection is driven by an injectable random source so it can be
// made deterministic in tests. The lenient methods never fail: absent
// languages or keys yield zero values, and MessageOrLiteral falls back to
// treating the key itself as a template.
type Resolver struct {
	table Table
	intn  func(n int) int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRandom sources variant selection from the given source.
func WithRandom(src rand.Source) Option {
	return func(r *Resolver) {
		rng := rand.New(src)
		r.intn = rng.Intn
	}
}

// NewResolver builds a Resolver over the given table.
func NewResolver(table Table, opts ...Option) *Resolver {
	r := &Resolver{table: table, intn: rand.Intn}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// pick selects one variant uniformly at random.
func (r *Resolver) pick(ts Templates) string {
	if len(ts) == 1 {
		return ts[0]
	}
	return ts[r.intn(len(ts))]
}

// Has reports whether the input's language has the given key.
func (r *Resolver) Has(in *message.Input, key string) bool {
	return r.table.lookup(message.NormalizeLanguage(in.Language), key) != nil
}

// DisplayText resolves key for the input's language, substituting args
// positionally into the chosen variant. It returns "" when the language or
// key is absent; it never fails.
func (r *Resolver) DisplayText(in *message.Input, key string, args ...any) string {
	ts := r.table.lookup(message.NormalizeLanguage(in.Language), key)
	if ts == nil {
		return ""
	}
	return substitute(r.pick(ts), displayArgs(args))
}

// Message resolves key into a paired display/voice phrase, or nil when the
// language or key is absent. Arguments that are themselves *message.Message
// values substitute their display text into the display form and their
// envelope-stripped voice markup into the voice form, so composed phrases
// carry exactly one root envelope.
func (r *Resolver) Message(in *message.Input, key string, args ...any) *message.Message {
	ts := r.table.lookup(message.NormalizeLanguage(in.Language), key)
	if ts == nil {
		return nil
	}
	return r.build(r.pick(ts), args)
}

// MessageOrLiteral is the permissive variant used by the composer: when the
// key is not in the table, the key itself is treated as a literal template.
// It always produces a message.
func (r *Resolver) MessageOrLiteral(in *message.Input, key string, args ...any) *message.Message {
	if m := r.Message(in, key, args...); m != nil {
		return m
	}
	return r.build(key, args)
}

// SSML resolves key and wraps the result in a single voice-markup root
// envelope. It returns "" when the language or key is absent.
func (r *Resolver) SSML(in *message.Input, key string, args ...any) string {
	m := r.Message(in, key, args...)
	if m == nil {
		return ""
	}
	return m.SSML
}

// Strict resolves key like DisplayText but fails with a MissingKeyError
// naming the key when no text can be produced.
func (r *Resolver) Strict(in *message.Input, key string, args ...any) (string, error) {
	lang := message.NormalizeLanguage(in.Language)
	ts := r.table.lookup(lang, key)
	if ts == nil {
		return "", &MissingKeyError{Lang: lang, Key: key}
	}
	return substitute(r.pick(ts), displayArgs(args)), nil
}

// build assembles both forms of a phrase from one template.
func (r *Resolver) build(template string, args []any) *message.Message {
	display := substitute(template, displayArgs(args))
	voice := substitute(template, voiceArgs(args))
	return &message.Message{
		DisplayText: display,
		SSML:        WrapSpeak(PlainText(voice)),
	}
}

// substitute applies printf-style positional substitution. A template with
// no arguments passes through verbatim, preserving any placeholders it
// contains.
func substitute(template string, args []any) string {
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// displayArgs maps nested messages to their display text.
func displayArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if m, ok := a.(*message.Message); ok {
			out[i] = m.DisplayText
			continue
		}
		out[i] = a
	}
	return out
}

// voiceArgs maps nested messages to their voice markup with the root
// envelope stripped, preventing double-wrapped envelopes in composites.
func voiceArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if m, ok := a.(*message.Message); ok {
			out[i] = StripSpeak(m.SSML)
			continue
		}
		out[i] = a
	}
	return out
}
