package webhooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/loculabs/api-client/internal/logging"
)

// DefaultSignatureHeader is the header the Loculabs platform signs
// deliveries with.
const DefaultSignatureHeader = "Loculabs-Signature"

// defaultMaxBodyBytes caps how much of a delivery body is read before
// verification.
const defaultMaxBodyBytes = 1 << 20

// Deduper reports whether a delivery fingerprint was already seen. The
// internal/dedupe package provides a Redis-backed implementation.
type Deduper interface {
	Seen(ctx context.Context, fingerprint string) (bool, error)
}

// MiddlewareConfig configures NewSignatureMiddleware.
type MiddlewareConfig struct {
	// Secret is the endpoint's shared signing secret. Required.
	Secret string
	// Header is the request header carrying the signature.
	// Defaults to DefaultSignatureHeader.
	Header string
	// MaxAge bounds the age of the signed timestamp. Zero disables the
	// temporal check, same as VerifyOptions.MaxAge.
	MaxAge time.Duration
	// MaxBodyBytes caps the request body size. Defaults to 1 MiB.
	MaxBodyBytes int64
	// Deduper, when set, drops deliveries whose signature was already
	// accepted once. Duplicates are acknowledged with 200 without
	// reaching the wrapped handler, so the sender stops retrying.
	Deduper Deduper
}

// SetDefaults applies default values to the configuration.
func (c *MiddlewareConfig) SetDefaults() {
	if c.Header == "" {
		c.Header = DefaultSignatureHeader
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
}

// Validate checks that the configuration is usable.
func (c *MiddlewareConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("webhooks: middleware requires a signing secret")
	}
	return nil
}

// NewSignatureMiddleware returns HTTP middleware that verifies the
// signature of every request before passing it to the wrapped handler.
// Requests that fail verification are rejected with 401; the raw body
// remains readable by the handler.
func NewSignatureMiddleware(cfg MiddlewareConfig) (func(http.Handler) http.Handler, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
			body, err := PreserveRequestBody(r)
			if err != nil {
				logging.Warn("failed to read webhook body",
					logging.String("path", r.URL.Path),
					logging.Err(err),
				)
				http.Error(w, "unable to read request body", http.StatusBadRequest)
				return
			}

			header := r.Header.Get(cfg.Header)
			if err := VerifySignature(cfg.Secret, header, body, &VerifyOptions{MaxAge: cfg.MaxAge}); err != nil {
				logging.Warn("rejected webhook delivery",
					logging.String("path", r.URL.Path),
					logging.String("remote_addr", r.RemoteAddr),
					logging.Err(err),
				)
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}

			if cfg.Deduper != nil {
				// The verified header value is unique per
				// (secret, timestamp, body), so it serves as the
				// delivery fingerprint.
				if dup := checkDuplicate(r, cfg.Deduper, header); dup {
					w.WriteHeader(http.StatusOK)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// checkDuplicate consults the deduper and reports whether the delivery was
// already accepted. Deduper failures fail open: replay protection is a
// hardening layer, not worth dropping live deliveries over.
func checkDuplicate(r *http.Request, deduper Deduper, fingerprint string) bool {
	seen, err := deduper.Seen(r.Context(), fingerprint)
	if err != nil {
		logging.Warn("dedupe store unavailable, accepting delivery",
			logging.String("path", r.URL.Path),
			logging.Err(err),
		)
		return false
	}
	if seen {
		logging.Info("ignoring duplicate webhook delivery",
			logging.String("path", r.URL.Path),
		)
	}
	return seen
}

// PreserveRequestBody reads the full request body and replaces it with a
// rewindable copy so the wrapped handler can read it again. The returned
// bytes are what the signature must be verified against.
func PreserveRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
