// Package webchat adapts the generic JSON webhook format used by embedded
// web chat widgets. It is also the reference adapter for the verifier
// contract: verification is a synchronous shared-token check and the adapter
// owns its own rejection response.
package webchat

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"

	"github.com/voxgate/voxgate/internal/message"
	"github.com/voxgate/voxgate/internal/platform"
)

// PlatformID is the platform tag carried by inputs parsed here.
const PlatformID = "webchat"

// Config holds the adapter settings.
type Config struct {
	// Token, when non-empty, must match the X-Webchat-Token request
	// header.
	Token string
}

// Adapter implements platform.Adapter for the web chat widget.
type Adapter struct {
	cfg Config
}

// New creates a webchat adapter.
func New(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) PlatformID() string { return PlatformID }

// request is the inbound widget payload.
type request struct {
	Platform    string          `json:"platform"`
	ID          string          `json:"id"`
	UserID      string          `json:"user"`
	SessionID   string          `json:"session"`
	Language    string          `json:"language"`
	Intent      string          `json:"intent"`
	Message     string          `json:"message"`
	Method      string          `json:"method"`
	AccessToken string          `json:"access_token"`
	Context     message.Context `json:"context"`
}

// IsSupported matches payloads that declare themselves as webchat.
func (a *Adapter) IsSupported(raw []byte) bool {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return false
	}
	return req.Platform == PlatformID
}

// Parse normalizes a widget request.
func (a *Adapter) Parse(raw []byte) (*message.Input, error) {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("webchat: invalid payload: %w", err)
	}
	method := message.InputMethod(req.Method)
	if method == "" {
		method = message.MethodText
	}
	in := message.NewInput(message.Envelope{
		ID:        req.ID,
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Platform:  PlatformID,
		Language:  req.Language,
		Intent:    req.Intent,
		Method:    method,
		Message:   req.Message,
		Context:   req.Context,
	})
	in.AccessToken = req.AccessToken
	return in, nil
}

// reply is one entry in the outbound payload.
type reply struct {
	Kind string `json:"kind"`
	Body any    `json:"body"`
}

// response is the outbound widget payload.
type response struct {
	ID           string  `json:"id"`
	SessionID    string  `json:"session"`
	Replies      []reply `json:"replies"`
	Suggestions  []any   `json:"suggestions,omitempty"`
	Retention    string  `json:"retention_message,omitempty"`
	ExpectAnswer bool    `json:"expect_answer"`
}

// Render serializes the full output envelope; the widget decides which
// modalities to present.
func (a *Adapter) Render(out *message.Output) (any, error) {
	resp := &response{
		ID:           out.ID,
		SessionID:    out.SessionID,
		ExpectAnswer: out.ExpectAnswer,
		Retention:    out.RetentionMessage,
	}
	for _, r := range out.Replies {
		if r.Platform() != message.PlatformAll && r.Platform() != PlatformID {
			continue
		}
		resp.Replies = append(resp.Replies, reply{Kind: string(r.Kind()), Body: r.Render()})
	}
	for _, s := range out.Suggestions {
		if s.Platform() != message.PlatformAll && s.Platform() != PlatformID {
			continue
		}
		resp.Suggestions = append(resp.Suggestions, s.Render())
	}
	return resp, nil
}

// Verify compares the shared token synchronously. On mismatch it writes its
// own 401 through the sink and reports the branch unverified; with no token
// configured every request passes.
func (a *Adapter) Verify(ctx context.Context, req platform.RequestAccessor, sink platform.ResponseSink) (bool, error) {
	if a.cfg.Token == "" {
		return true, nil
	}
	got := req.Header("X-Webchat-Token")
	if subtle.ConstantTimeCompare([]byte(got), []byte(a.cfg.Token)) != 1 {
		if err := sink.Reject(401, "invalid token"); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
