package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// computeSignature returns the lowercase hex HMAC-SHA256 digest of the
// canonical signing string "<timestamp>.<payload>", keyed with secret.
// The payload goes into the hash exactly as received: re-serialized JSON
// is not byte-stable and would produce a different digest.
func computeSignature(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateSignatureHeader produces a complete signature header value for
// the given secret, timestamp, and raw payload. It is used by the sending
// side and by tests that need well-formed deliveries.
func GenerateSignatureHeader(secret string, timestamp int64, payload []byte) string {
	return formatSignatureHeader(timestamp, computeSignature(secret, timestamp, payload))
}
