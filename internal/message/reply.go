package message

import "fmt"

// PlatformAll tags a reply or suggestion as generic, renderable by every
// platform.
const PlatformAll = "*"

// ReplyKind distinguishes the modality of a reply entry.
type ReplyKind string

const (
	KindText   ReplyKind = "text"
	KindVoice  ReplyKind = "voice"
	KindCustom ReplyKind = "custom"
)

// Reply is one entry in an Output. A reply belongs exclusively to the Output
// that holds it, for the lifetime of one request.
type Reply interface {
	// Platform returns the owning platform tag, PlatformAll for generic.
	Platform() string
	// Kind returns the modality tag.
	Kind() ReplyKind
	// Render produces the platform-facing payload.
	Render() any
	// Debug produces a human-readable description for logs.
	Debug() string
}

// TextReply is a generic plain-text reply.
type TextReply struct {
	Text string
}

func (r TextReply) Platform() string { return PlatformAll }
func (r TextReply) Kind() ReplyKind  { return KindText }
func (r TextReply) Render() any      { return r.Text }
func (r TextReply) Debug() string    { return r.Text }

// VoiceReply is a generic voice-markup reply.
type VoiceReply struct {
	SSML string
}

func (r VoiceReply) Platform() string { return PlatformAll }
func (r VoiceReply) Kind() ReplyKind  { return KindVoice }
func (r VoiceReply) Render() any      { return r.SSML }
func (r VoiceReply) Debug() string    { return r.SSML }

// CustomReply carries a platform-specific payload built by an adapter or
// handler. Only the owning platform renders it.
type CustomReply struct {
	Owner   string
	Payload any
	Summary string
}

func (r CustomReply) Platform() string { return r.Owner }
func (r CustomReply) Kind() ReplyKind  { return KindCustom }
func (r CustomReply) Render() any      { return r.Payload }

func (r CustomReply) Debug() string {
	if r.Summary != "" {
		return r.Summary
	}
	return fmt.Sprintf("custom(%s): %v", r.Owner, r.Payload)
}

// Suggestion is a short user-facing label or action attached to an Output.
type Suggestion interface {
	Platform() string
	Render() any
}

// TextSuggestion is a generic suggestion rendering its label.
type TextSuggestion struct {
	Label string
}

func (s TextSuggestion) Platform() string { return PlatformAll }
func (s TextSuggestion) Render() any      { return s.Label }
