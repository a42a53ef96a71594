package webhooks

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a signature verification failed.
type ErrorKind string

const (
	// ErrKindFormat means the signature header is missing a required key
	// or its timestamp is not a valid integer.
	ErrKindFormat ErrorKind = "format_error"
	// ErrKindTooOld means the signed timestamp is older than the
	// configured maximum age.
	ErrKindTooOld ErrorKind = "timestamp_too_old"
	// ErrKindTooFarInFuture means the signed timestamp is more than the
	// allowed clock skew ahead of the verifier's clock.
	ErrKindTooFarInFuture ErrorKind = "timestamp_too_far_in_future"
	// ErrKindMismatch means the claimed signature does not match the one
	// computed from the secret and body. Tampered payloads and wrong
	// secrets are deliberately indistinguishable.
	ErrKindMismatch ErrorKind = "signature_mismatch"
)

// VerificationError is the only error type returned by VerifySignature.
// A failed verification is terminal: nothing here is transient or worth
// retrying, and callers should reject the request (typically with 401).
type VerificationError struct {
	Kind    ErrorKind
	Message string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("webhook signature verification failed: %s: %s", e.Kind, e.Message)
}

func newVerificationError(kind ErrorKind, format string, args ...interface{}) *VerificationError {
	return &VerificationError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsKind reports whether err is a VerificationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var verr *VerificationError
	if !errors.As(err, &verr) {
		return false
	}
	return verr.Kind == kind
}
