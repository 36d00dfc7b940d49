// Package compose builds the Output for one request: ordered replies and
// suggestions, the retention/reprompt message and the continuation flag.
// All localized content flows through the translation resolver; unknown keys
// degrade to literal templates so the composer always produces content.
package compose

import (
	"github.com/voxgate/voxgate/internal/i18n"
	"github.com/voxgate/voxgate/internal/message"
)

// ReplyInput is the tagged union of values AddReply accepts: a pre-built
// reply, a resolved message, or a translation key with arguments.
type ReplyInput interface {
	isReplyInput()
}

// ReplyValue appends a pre-built reply verbatim.
type ReplyValue struct {
	Reply message.Reply
}

// MessageValue expands a resolved message into a text reply and a voice
// reply, in that order.
type MessageValue struct {
	Message *message.Message
}

// KeyValue resolves a translation key (or literal template) into a message
// first.
type KeyValue struct {
	Key  string
	Args []any
}

func (ReplyValue) isReplyInput()   {}
func (MessageValue) isReplyInput() {}
func (KeyValue) isReplyInput()     {}

// FromReply wraps a pre-built reply.
func FromReply(r message.Reply) ReplyInput { return ReplyValue{Reply: r} }

// FromMessage wraps a resolved message.
func FromMessage(m *message.Message) ReplyInput { return MessageValue{Message: m} }

// FromKey wraps a translation key with positional arguments.
func FromKey(key string, args ...any) ReplyInput { return KeyValue{Key: key, Args: args} }

// SuggestionInput is the tagged union of values AddSuggestion accepts.
type SuggestionInput interface {
	isSuggestionInput()
}

// SuggestionValue appends a pre-built suggestion verbatim.
type SuggestionValue struct {
	Suggestion message.Suggestion
}

// LabelValue resolves a translation key (or literal label) into a generic
// text suggestion.
type LabelValue struct {
	Key  string
	Args []any
}

func (SuggestionValue) isSuggestionInput() {}
func (LabelValue) isSuggestionInput()      {}

// FromSuggestion wraps a pre-built suggestion.
func FromSuggestion(s message.Suggestion) SuggestionInput { return SuggestionValue{Suggestion: s} }

// FromLabel wraps a translation key or literal label.
func FromLabel(key string, args ...any) SuggestionInput { return LabelValue{Key: key, Args: args} }

// Composer accumulates one request's Output. It is request-scoped and not
// safe for concurrent use.
type Composer struct {
	in  *message.Input
	out *message.Output
	res *i18n.Resolver
}

// New derives the canonical empty Output from in and binds a composer to it.
func New(in *message.Input, res *i18n.Resolver) *Composer {
	return &Composer{in: in, out: in.Reply(), res: res}
}

// Output returns the composed output.
func (c *Composer) Output() *message.Output { return c.out }

// AddReply appends reply entries, preserving insertion order. A message
// value expands into exactly two entries: the text form then the voice form.
func (c *Composer) AddReply(v ReplyInput) {
	switch v := v.(type) {
	case ReplyValue:
		c.out.Replies = append(c.out.Replies, v.Reply)
	case MessageValue:
		c.out.Replies = append(c.out.Replies,
			message.TextReply{Text: v.Message.DisplayText},
			message.VoiceReply{SSML: v.Message.SSML},
		)
	case KeyValue:
		m := c.res.MessageOrLiteral(c.in, v.Key, v.Args...)
		c.AddReply(MessageValue{Message: m})
	}
}

// AddSuggestion appends a suggestion, resolving labels through the
// translation table with the literal fallback.
func (c *Composer) AddSuggestion(v SuggestionInput) {
	switch v := v.(type) {
	case SuggestionValue:
		c.out.Suggestions = append(c.out.Suggestions, v.Suggestion)
	case LabelValue:
		m := c.res.MessageOrLiteral(c.in, v.Key, v.Args...)
		c.out.Suggestions = append(c.out.Suggestions, message.TextSuggestion{Label: m.DisplayText})
	}
}

// CreateMessage resolves a key into a paired phrase without appending it,
// for nesting into later replies. Unknown keys fall back to literal
// templates.
func (c *Composer) CreateMessage(key string, args ...any) *message.Message {
	return c.res.MessageOrLiteral(c.in, key, args...)
}

// T is the strict resolution: it fails, naming the key, when the active
// language has no entry. Use it for content whose silent omission would be a
// defect.
func (c *Composer) T(key string, args ...any) (string, error) {
	return c.res.Strict(c.in, key, args...)
}

// SetExpectAnswer marks whether the conversation stays open for a follow-up.
func (c *Composer) SetExpectAnswer(expect bool) {
	c.out.ExpectAnswer = expect
}

// SetRetentionMessage sets the reprompt text spoken after a silence timeout.
func (c *Composer) SetRetentionMessage(text string) {
	c.out.RetentionMessage = text
}
