// Package platform defines the contract between the dispatcher and the
// per-platform adapters that translate one platform's wire format into the
// canonical message model.
package platform

import (
	"context"
	"net/http"

	"github.com/voxgate/voxgate/internal/message"
)

// RequestAccessor gives verifiers read access to the raw request: body bytes
// and header-by-name lookup.
type RequestAccessor interface {
	Body() []byte
	Header(name string) string
}

// ResponseSink delivers the response for one request. Deliver accepts a
// single payload exactly once; a second call is an error. Reject writes an
// error response, used by verifiers that own their own failure responses.
type ResponseSink interface {
	Deliver(payload any) error
	Reject(status int, msg string) error
}

// Adapter translates between one platform's wire format and the canonical
// Input/Output model.
//
// Verify may complete synchronously or do network work; it runs concurrently
// with reply composition. Returning (false, nil) means the request is not
// authentic: if the adapter wants an error response on the wire it must have
// written it through the sink before returning, because the dispatcher
// writes nothing on verification failure. The default policy for platforms
// without verification is to return (true, nil).
//
// Support predicates of configured adapters should be mutually exclusive:
// the dispatcher uses the first match in configuration order and stops
// scanning.
type Adapter interface {
	PlatformID() string
	IsSupported(raw []byte) bool
	Parse(raw []byte) (*message.Input, error)
	Render(out *message.Output) (any, error)
	Verify(ctx context.Context, req RequestAccessor, sink ResponseSink) (bool, error)
}

type accessor struct {
	body   []byte
	header http.Header
}

// NewAccessor builds a RequestAccessor over an already-read body and a
// header map.
func NewAccessor(body []byte, header http.Header) RequestAccessor {
	return &accessor{body: body, header: header}
}

func (a *accessor) Body() []byte { return a.body }

func (a *accessor) Header(name string) string {
	if a.header == nil {
		return ""
	}
	return a.header.Get(name)
}
