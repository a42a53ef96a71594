package webhooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loculabs/api-client/internal/logging"
)

func init() {
	// Keep middleware log output out of test runs.
	quiet, err := logging.NewZapLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
	if err != nil {
		panic(err)
	}
	logging.SetGlobalLogger(quiet)
}

type fakeDeduper struct {
	seen map[string]bool
	err  error
}

func (f *fakeDeduper) Seen(_ context.Context, fingerprint string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[fingerprint] {
		return true, nil
	}
	f.seen[fingerprint] = true
	return false, nil
}

func signedRequest(t *testing.T, secret string, body []byte) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(body))
	r.Header.Set(DefaultSignatureHeader, GenerateSignatureHeader(secret, time.Now().Unix(), body))
	return r
}

func TestSignatureMiddlewareAcceptsValidDelivery(t *testing.T) {
	mw, err := NewSignatureMiddleware(MiddlewareConfig{Secret: "whsec_test", MaxAge: 5 * time.Minute})
	require.NoError(t, err)

	body := []byte(`{"event":"task.created","timestamp":"2025-01-15T10:30:00Z","data":{"id":"1"}}`)

	var handlerBody []byte
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The body must still be readable after verification.
		handlerBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, signedRequest(t, "whsec_test", body))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, body, handlerBody)
}

func TestSignatureMiddlewareRejectsBadSignature(t *testing.T) {
	mw, err := NewSignatureMiddleware(MiddlewareConfig{Secret: "whsec_test"})
	require.NoError(t, err)

	handlerCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	body := []byte("payload")

	// Signed with the wrong secret.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, signedRequest(t, "whsec_other", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// No signature header at all.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.False(t, handlerCalled)
}

func TestSignatureMiddlewareRejectsStaleDelivery(t *testing.T) {
	mw, err := NewSignatureMiddleware(MiddlewareConfig{Secret: "whsec_test", MaxAge: time.Minute})
	require.NoError(t, err)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run for a stale delivery")
	}))

	body := []byte("payload")
	r := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(body))
	stale := time.Now().Add(-10 * time.Minute).Unix()
	r.Header.Set(DefaultSignatureHeader, GenerateSignatureHeader("whsec_test", stale, body))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignatureMiddlewareCustomHeader(t *testing.T) {
	mw, err := NewSignatureMiddleware(MiddlewareConfig{Secret: "whsec_test", Header: "X-Signature"})
	require.NoError(t, err)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	body := []byte("payload")
	r := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(body))
	r.Header.Set("X-Signature", GenerateSignatureHeader("whsec_test", time.Now().Unix(), body))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSignatureMiddlewareDeduplicates(t *testing.T) {
	deduper := &fakeDeduper{seen: make(map[string]bool)}
	mw, err := NewSignatureMiddleware(MiddlewareConfig{Secret: "whsec_test", Deduper: deduper})
	require.NoError(t, err)

	calls := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))

	body := []byte("payload")
	header := GenerateSignatureHeader("whsec_test", time.Now().Unix(), body)

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(body))
		r.Header.Set(DefaultSignatureHeader, header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusNoContent, send().Code)
	// The replay is acknowledged but never reaches the handler.
	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, 1, calls)
}

func TestSignatureMiddlewareFailsOpenOnDeduperError(t *testing.T) {
	deduper := &fakeDeduper{err: fmt.Errorf("redis down")}
	mw, err := NewSignatureMiddleware(MiddlewareConfig{Secret: "whsec_test", Deduper: deduper})
	require.NoError(t, err)

	calls := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))

	body := []byte("payload")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, signedRequest(t, "whsec_test", body))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, calls)
}

func TestNewSignatureMiddlewareRequiresSecret(t *testing.T) {
	_, err := NewSignatureMiddleware(MiddlewareConfig{})
	require.Error(t, err)
}
