package webhooks

import "time"

// maxClockSkew is how far ahead of the verifier's clock a signed timestamp
// may claim to be. Signer clocks legitimately lag, which is what MaxAge
// bounds, but a signature from minutes in the future is always suspect, so
// the forward allowance is fixed rather than configurable.
const maxClockSkew = 60 * time.Second

// checkTimestampAge bounds the age of a signed timestamp against now, both
// in Unix seconds. Callers skip the check entirely when no maximum age is
// configured; this function assumes maxAge > 0.
func checkTimestampAge(timestamp, now int64, maxAge time.Duration) *VerificationError {
	age := time.Duration(now-timestamp) * time.Second

	if age > maxAge {
		return newVerificationError(ErrKindTooOld,
			"timestamp %d is %s old, exceeds maximum age %s", timestamp, age, maxAge)
	}
	if age < -maxClockSkew {
		return newVerificationError(ErrKindTooFarInFuture,
			"timestamp %d is %s ahead of the current time", timestamp, -age)
	}
	return nil
}
