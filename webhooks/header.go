package webhooks

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsedSignature holds the fields extracted from a signature header value.
type ParsedSignature struct {
	// Timestamp is the claimed signing time in Unix seconds.
	Timestamp int64
	// Signature is the hex-encoded HMAC digest claimed by the sender.
	Signature string
}

// ParseSignatureHeader parses a header value of the form
// "t=<unix-seconds>,v1=<hex>". Key order is not significant, unknown keys
// and malformed segments are skipped, and a later occurrence of a key wins.
// It returns nil when either required key is missing or the timestamp is
// not a base-10 integer; absence is the only failure signal.
func ParseSignatureHeader(header string) *ParsedSignature {
	var rawTimestamp, signature string
	var haveTimestamp, haveSignature bool

	for _, segment := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			rawTimestamp, haveTimestamp = value, true
		case "v1":
			signature, haveSignature = value, true
		}
	}

	if !haveTimestamp || !haveSignature {
		return nil
	}

	timestamp, err := strconv.ParseInt(rawTimestamp, 10, 64)
	if err != nil {
		return nil
	}

	return &ParsedSignature{
		Timestamp: timestamp,
		Signature: signature,
	}
}

// formatSignatureHeader emits the canonical header form. This is the exact
// inverse of ParseSignatureHeader for any valid timestamp and signature.
func formatSignatureHeader(timestamp int64, signature string) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, signature)
}
