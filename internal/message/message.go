package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InputMethod identifies how the user produced the request.
type InputMethod string

const (
	MethodVoice InputMethod = "voice"
	MethodText  InputMethod = "text"
	MethodTouch InputMethod = "touch"
)

// Context is an open string-keyed bag of request-scoped values. The core
// never inspects it; it is carried unchanged from an Input to its derived
// Output.
type Context map[string]any

// Clone returns a shallow copy so an Output can mutate its own map without
// affecting the Input's.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Envelope holds the fields common to inbound and outbound messages.
type Envelope struct {
	ID        string
	UserID    string
	SessionID string
	Platform  string
	Language  string
	Time      time.Time
	Intent    string
	Method    InputMethod
	Message   string
	Context   Context
}

// NormalizeLanguage reduces a language tag to its two-letter primary subtag,
// lowercased ("en-US" -> "en"). Translation lookups always use the
// normalized form.
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if len(tag) > 2 {
		tag = tag[:2]
	}
	return strings.ToLower(tag)
}

// NewID returns a fresh message identifier.
func NewID() string {
	return uuid.New().String()
}

// Input is a normalized inbound request. Adapters construct it in Parse and
// must not mutate it afterwards.
type Input struct {
	Envelope

	// AccessToken is set only when the platform linked the user's account.
	AccessToken string

	internal map[string]any
}

// NewInput builds an Input with a normalized language tag. A missing ID is
// filled with a fresh one.
func NewInput(env Envelope) *Input {
	if env.ID == "" {
		env.ID = NewID()
	}
	env.Language = NormalizeLanguage(env.Language)
	if env.Time.IsZero() {
		env.Time = time.Now()
	}
	return &Input{Envelope: env}
}

// SetInternal stores adapter-private bookkeeping. Keys must be namespaced by
// the owning adapter ("slack.team_id"), so unrelated adapters cannot collide.
func (in *Input) SetInternal(key string, value any) error {
	if !strings.Contains(key, ".") {
		return fmt.Errorf("internal key %q is not namespaced (want \"<platform>.<name>\")", key)
	}
	if in.internal == nil {
		in.internal = make(map[string]any)
	}
	in.internal[key] = value
	return nil
}

// Internal looks up adapter-private bookkeeping stored by SetInternal.
func (in *Input) Internal(key string) (any, bool) {
	v, ok := in.internal[key]
	return v, ok
}

// Reply derives the canonical empty Output for this Input: same user,
// session, platform, language, intent and context, id suffixed with
// ".reply", empty message body.
func (in *Input) Reply() *Output {
	env := in.Envelope
	env.ID = in.ID + ".reply"
	env.Message = ""
	env.Context = in.Context.Clone()
	return &Output{Envelope: env}
}

// Output accumulates the localized, multi-modal response for one request.
// It is mutated only by the composer during that request and consumed
// exactly once by rendering; it is never persisted.
type Output struct {
	Envelope

	Replies          []Reply
	Suggestions      []Suggestion
	RetentionMessage string
	ExpectAnswer     bool
}

// Message pairs the textual and voice-synthesis form of one localized
// phrase.
type Message struct {
	DisplayText string
	SSML        string
}
