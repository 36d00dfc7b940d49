package slack

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/voxgate/voxgate/internal/message"
	"github.com/voxgate/voxgate/internal/platform"
)

const eventBody = `{
	"type": "event_callback",
	"event": {
		"type": "message",
		"user": "U123",
		"text": "hello bot",
		"channel": "C456",
		"ts": "1700000000.000100"
	}
}`

type recordSink struct {
	delivered []any
	status    int
	rejected  string
}

func (s *recordSink) Deliver(payload any) error {
	s.delivered = append(s.delivered, payload)
	return nil
}

func (s *recordSink) Reject(status int, msg string) error {
	s.status = status
	s.rejected = msg
	return nil
}

func sign(secret, timestamp, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestIsSupported(t *testing.T) {
	a := New(Config{})
	if !a.IsSupported([]byte(eventBody)) {
		t.Error("expected event_callback to match")
	}
	if !a.IsSupported([]byte(`{"type":"url_verification","challenge":"c1"}`)) {
		t.Error("expected url_verification to match")
	}
	if a.IsSupported([]byte(`{"platform":"webchat","message":"hi"}`)) {
		t.Error("expected non-slack payload to not match")
	}
	if a.IsSupported([]byte(`not json`)) {
		t.Error("expected invalid JSON to not match")
	}
}

func TestParse(t *testing.T) {
	a := New(Config{DefaultLanguage: "en-US"})
	in, err := a.Parse([]byte(eventBody))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if in.Platform != PlatformID || in.UserID != "U123" || in.SessionID != "C456" {
		t.Errorf("envelope = %+v", in.Envelope)
	}
	if in.Message != "hello bot" {
		t.Errorf("message = %q", in.Message)
	}
	if in.Language != "en" {
		t.Errorf("language = %q, want normalized en", in.Language)
	}
	if in.Time.Unix() != 1700000000 {
		t.Errorf("time = %v", in.Time)
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "shh"
	a := New(Config{SigningSecret: secret})
	ts := fmt.Sprint(time.Now().Unix())

	header := http.Header{}
	header.Set("X-Slack-Request-Timestamp", ts)
	header.Set("X-Slack-Signature", sign(secret, ts, eventBody))

	sink := &recordSink{}
	ok, err := a.Verify(context.Background(), platform.NewAccessor([]byte(eventBody), header), sink)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("expected valid signature to verify")
	}
}

func TestVerifyBadSignatureRejects(t *testing.T) {
	a := New(Config{SigningSecret: "shh"})
	ts := fmt.Sprint(time.Now().Unix())

	header := http.Header{}
	header.Set("X-Slack-Request-Timestamp", ts)
	header.Set("X-Slack-Signature", "v0=deadbeef")

	sink := &recordSink{}
	ok, err := a.Verify(context.Background(), platform.NewAccessor([]byte(eventBody), header), sink)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("expected bad signature to fail")
	}
	if sink.status != 401 {
		t.Errorf("expected verifier-owned 401, got %d", sink.status)
	}
}

func TestVerifyStaleTimestamp(t *testing.T) {
	secret := "shh"
	a := New(Config{SigningSecret: secret})
	ts := fmt.Sprint(time.Now().Add(-time.Hour).Unix())

	header := http.Header{}
	header.Set("X-Slack-Request-Timestamp", ts)
	header.Set("X-Slack-Signature", sign(secret, ts, eventBody))

	sink := &recordSink{}
	ok, err := a.Verify(context.Background(), platform.NewAccessor([]byte(eventBody), header), sink)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("expected stale timestamp to fail")
	}
}

func TestVerifyChallengeOwnsResponse(t *testing.T) {
	a := New(Config{})
	body := []byte(`{"type":"url_verification","challenge":"c1"}`)

	sink := &recordSink{}
	ok, err := a.Verify(context.Background(), platform.NewAccessor(body, nil), sink)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("challenge branch must not continue to rendering")
	}
	if len(sink.delivered) != 1 {
		t.Fatalf("delivered = %d payloads, want 1", len(sink.delivered))
	}
	payload, _ := sink.delivered[0].(map[string]string)
	if payload["challenge"] != "c1" {
		t.Errorf("challenge payload = %v", sink.delivered[0])
	}
}

func TestVerifyNonMessageEventIgnored(t *testing.T) {
	a := New(Config{})
	body := []byte(`{
		"type": "event_callback",
		"event": {
			"type": "reaction_added",
			"user": "U123",
			"channel": "C456"
		}
	}`)

	sink := &recordSink{}
	ok, err := a.Verify(context.Background(), platform.NewAccessor(body, nil), sink)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("non-message events must not continue to rendering")
	}
	if len(sink.delivered) != 1 {
		t.Fatalf("delivered = %d payloads, want adapter-owned ack", len(sink.delivered))
	}
}

func TestVerifyBotMessageIgnored(t *testing.T) {
	a := New(Config{})
	body := []byte(`{
		"type": "event_callback",
		"event": {
			"type": "message",
			"bot_id": "B1",
			"channel": "C456",
			"text": "echo"
		}
	}`)

	sink := &recordSink{}
	ok, err := a.Verify(context.Background(), platform.NewAccessor(body, nil), sink)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok || len(sink.delivered) != 1 {
		t.Errorf("bot messages must be acked and dropped: ok=%v delivered=%d", ok, len(sink.delivered))
	}
}

func TestRenderJoinsTextReplies(t *testing.T) {
	a := New(Config{})
	in, _ := a.Parse([]byte(eventBody))
	out := in.Reply()
	out.Replies = append(out.Replies,
		message.TextReply{Text: "Hi"},
		message.VoiceReply{SSML: "<speak>Hi</speak>"},
		message.TextReply{Text: "Bye"},
	)
	out.Suggestions = append(out.Suggestions, message.TextSuggestion{Label: "More"})

	payload, err := a.Render(out)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	resp, ok := payload.(*response)
	if !ok {
		t.Fatalf("payload type = %T", payload)
	}
	if resp.Channel != "C456" {
		t.Errorf("channel = %q", resp.Channel)
	}
	if resp.Text != "Hi\nBye\n• More" {
		t.Errorf("text = %q", resp.Text)
	}
}
