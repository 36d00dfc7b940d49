package dispatch

import "errors"

var (
	// ErrRequestNotSupported means no configured adapter claimed the raw
	// request body; the core produced no response.
	ErrRequestNotSupported = errors.New("request not supported by any configured platform")

	// ErrVerificationFailed means the matched adapter's verification
	// resolved false. For the synchronous case the verifier has already
	// written any error response it wants; the dispatcher writes nothing.
	ErrVerificationFailed = errors.New("request verification failed")

	// ErrNoHandler means no intent handler matched and no fallback was
	// configured.
	ErrNoHandler = errors.New("no intent handler matched and no fallback configured")
)
