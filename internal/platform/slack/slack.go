// Package slack adapts Slack Events API webhooks to the canonical message
// model.
package slack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/voxgate/voxgate/internal/message"
	"github.com/voxgate/voxgate/internal/platform"
)

// PlatformID is the platform tag carried by inputs parsed here.
const PlatformID = "slack"

// Config holds the adapter settings.
type Config struct {
	// SigningSecret enables request signature verification when non-empty.
	SigningSecret string
	// DefaultLanguage is assigned to inputs; Slack events carry no
	// language tag.
	DefaultLanguage string
}

// Adapter implements platform.Adapter for Slack.
type Adapter struct {
	cfg Config
}

// New creates a Slack adapter.
func New(cfg Config) *Adapter {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	return &Adapter{cfg: cfg}
}

func (a *Adapter) PlatformID() string { return PlatformID }

// event is the top-level Slack event payload.
type event struct {
	Type      string     `json:"type"`
	Token     string     `json:"token"`
	Challenge string     `json:"challenge"`
	Event     innerEvent `json:"event"`
}

// innerEvent is the inner event of an event_callback.
type innerEvent struct {
	Type     string `json:"type"`
	User     string `json:"user"`
	Text     string `json:"text"`
	Channel  string `json:"channel"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
	BotID    string `json:"bot_id"`
}

// IsSupported sniffs for the Slack event shapes: url_verification and
// event_callback.
func (a *Adapter) IsSupported(raw []byte) bool {
	if !bytes.Contains(raw, []byte(`"type"`)) {
		return false
	}
	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return false
	}
	return ev.Type == "url_verification" || ev.Type == "event_callback"
}

// Parse normalizes a Slack event. The session is the channel; the thread
// timestamp and challenge are kept as adapter-private bookkeeping.
func (a *Adapter) Parse(raw []byte) (*message.Input, error) {
	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("slack: invalid payload: %w", err)
	}

	in := message.NewInput(message.Envelope{
		ID:        ev.Event.TS,
		UserID:    ev.Event.User,
		SessionID: ev.Event.Channel,
		Platform:  PlatformID,
		Language:  a.cfg.DefaultLanguage,
		Time:      tsTime(ev.Event.TS),
		Method:    message.MethodText,
		Message:   ev.Event.Text,
	})
	if ev.Event.ThreadTS != "" {
		if err := in.SetInternal("slack.thread_ts", ev.Event.ThreadTS); err != nil {
			return nil, err
		}
	}
	if ev.Event.BotID != "" {
		if err := in.SetInternal("slack.bot_id", ev.Event.BotID); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// tsTime converts a Slack "seconds.fraction" timestamp.
func tsTime(ts string) time.Time {
	secs, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(secs, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0)
}

// response is the Slack-native reply payload.
type response struct {
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

// Render joins the text-kind replies into a Slack message for the session's
// channel. Voice replies are ignored; Slack has no speech surface.
func (a *Adapter) Render(out *message.Output) (any, error) {
	var parts []string
	for _, r := range out.Replies {
		if r.Platform() != message.PlatformAll && r.Platform() != PlatformID {
			continue
		}
		switch r.Kind() {
		case message.KindText:
			if s, ok := r.Render().(string); ok && s != "" {
				parts = append(parts, s)
			}
		case message.KindCustom:
			if s, ok := r.Render().(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
	}
	for _, s := range out.Suggestions {
		if label, ok := s.Render().(string); ok && label != "" {
			parts = append(parts, "• "+label)
		}
	}
	return &response{
		Channel: out.SessionID,
		Text:    strings.Join(parts, "\n"),
	}, nil
}

// Verify checks the Slack request signature and answers url_verification
// challenges. A challenge is written to the sink directly and reported as an
// unverified branch, so the dispatcher never renders a reply for it; per the
// verifier contract the response ownership is here.
func (a *Adapter) Verify(ctx context.Context, req platform.RequestAccessor, sink platform.ResponseSink) (bool, error) {
	body := req.Body()

	if a.cfg.SigningSecret != "" && !a.verifySignature(req, body) {
		if err := sink.Reject(401, "invalid signature"); err != nil {
			return false, err
		}
		return false, nil
	}

	var ev event
	if err := json.Unmarshal(body, &ev); err != nil {
		return false, fmt.Errorf("slack: invalid payload: %w", err)
	}
	if ev.Type == "url_verification" {
		if err := sink.Deliver(map[string]string{"challenge": ev.Challenge}); err != nil {
			return false, err
		}
		return false, nil
	}
	// Ignore our own bot messages to avoid reply loops.
	if ev.Event.BotID != "" {
		if err := sink.Deliver(map[string]string{"ok": "ignored"}); err != nil {
			return false, err
		}
		return false, nil
	}
	// Only message events reach the pipeline; reactions, joins and the
	// like are acknowledged and dropped.
	if ev.Type == "event_callback" && ev.Event.Type != "message" {
		if err := sink.Deliver(map[string]string{"ok": "ignored"}); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// verifySignature checks the v0 HMAC-SHA256 request signature.
func (a *Adapter) verifySignature(req platform.RequestAccessor, body []byte) bool {
	timestamp := req.Header("X-Slack-Request-Timestamp")
	signature := req.Header("X-Slack-Signature")
	if timestamp == "" || signature == "" {
		return false
	}
	if !freshTimestamp(timestamp) {
		return false
	}

	base := fmt.Sprintf("v0:%s:%s", timestamp, string(body))
	mac := hmac.New(sha256.New, []byte(a.cfg.SigningSecret))
	mac.Write([]byte(base))
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// freshTimestamp rejects timestamps older than five minutes, guarding
// against replayed requests.
func freshTimestamp(timestamp string) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	diff := time.Now().Unix() - ts
	if diff < 0 {
		diff = -diff
	}
	return diff <= 300
}
