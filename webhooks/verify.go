package webhooks

import "time"

// VerifyOptions controls optional verification behavior.
type VerifyOptions struct {
	// MaxAge bounds how old a signed timestamp may be. When zero (or
	// negative), no temporal check is performed and a delivery of any
	// age is accepted. That is a deliberate opt-out for consumers that
	// replay recorded deliveries, not a safe default: set MaxAge in
	// production.
	MaxAge time.Duration
}

// VerifySignature checks that header proves payload was signed by a holder
// of secret. It returns nil on success and a *VerificationError otherwise;
// it never panics and never returns any other error type. The payload must
// be the raw request body, byte for byte.
func VerifySignature(secret, header string, payload []byte, opts *VerifyOptions) error {
	return verifyAt(secret, header, payload, opts, time.Now().Unix())
}

// verifyAt runs the verification pipeline against a single clock reading,
// taken once so the age check cannot straddle a second boundary. The age
// check runs before the HMAC is computed: rejecting a stale delivery is
// cheap and needs no hashing.
func verifyAt(secret, header string, payload []byte, opts *VerifyOptions, now int64) error {
	parsed := ParseSignatureHeader(header)
	if parsed == nil {
		return newVerificationError(ErrKindFormat,
			"header %q is missing t= or v1=, or has a non-integer timestamp", header)
	}

	if opts != nil && opts.MaxAge > 0 {
		if err := checkTimestampAge(parsed.Timestamp, now, opts.MaxAge); err != nil {
			return err
		}
	}

	expected := computeSignature(secret, parsed.Timestamp, payload)
	if !signaturesEqual(parsed.Signature, expected) {
		return newVerificationError(ErrKindMismatch, "signature does not match payload")
	}

	return nil
}
