// Package webhooks authenticates webhook deliveries sent by the Loculabs
// platform and decodes their payload envelope.
//
// Every delivery carries a signature header of the form
//
//	t=<unix-seconds>,v1=<hex-hmac-sha256>
//
// where the signature is HMAC-SHA256 over the string "<timestamp>.<raw body>"
// keyed with the endpoint's shared secret. Verification proves the request
// was produced by a holder of that secret and, when a maximum age is
// configured, that the delivery is not a replay of a captured request.
//
// # Usage
//
// In an HTTP handler:
//
//	body, err := webhooks.PreserveRequestBody(r)
//	if err != nil {
//	    http.Error(w, "bad request", http.StatusBadRequest)
//	    return
//	}
//
//	err = webhooks.VerifySignature(secret, r.Header.Get("Loculabs-Signature"), body,
//	    &webhooks.VerifyOptions{MaxAge: 5 * time.Minute})
//	if err != nil {
//	    http.Error(w, "invalid signature", http.StatusUnauthorized)
//	    return
//	}
//
//	payload, err := webhooks.DecodePayload[TaskData](body)
//
// Or wrap a handler with the middleware, which does the same work and
// answers 401 on failure:
//
//	mw, err := webhooks.NewSignatureMiddleware(webhooks.MiddlewareConfig{
//	    Secret: secret,
//	    MaxAge: 5 * time.Minute,
//	})
//
// # Security considerations
//
//   - The signature is computed over the raw body bytes. Verify before any
//     parsing, and never re-serialize the body first: JSON re-serialization
//     is not byte-stable and breaks the hash.
//   - Signatures are compared in constant time.
//   - Set MaxAge in production so captured requests cannot be replayed
//     indefinitely. Leaving it unset disables the temporal check entirely.
//   - Always deliver webhooks over HTTPS; this package does not replace
//     transport security.
package webhooks
