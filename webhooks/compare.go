package webhooks

import (
	"crypto/hmac"
	"encoding/hex"
)

// signaturesEqual compares two hex-encoded digests without leaking where
// they first differ. Undecodable hex never matches. A length mismatch
// returns false before the constant-time scan: length is not derived from
// the secret, so the early exit carries no timing risk.
func signaturesEqual(claimed, expected string) bool {
	claimedBytes, err := hex.DecodeString(claimed)
	if err != nil {
		return false
	}
	expectedBytes, err := hex.DecodeString(expected)
	if err != nil {
		return false
	}
	if len(claimedBytes) != len(expectedBytes) {
		return false
	}
	return hmac.Equal(claimedBytes, expectedBytes)
}
