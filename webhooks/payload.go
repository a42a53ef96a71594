package webhooks

import (
	"encoding/json"
	"fmt"
)

// Payload is the envelope every webhook delivery carries. Event is an open
// string so new event names never break old consumers; Data is opaque to
// this package and decoded into whatever type the caller names.
type Payload[T any] struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Data      T      `json:"data"`
}

// DecodePayload deserializes a raw delivery body into a typed envelope.
// Call it only after VerifySignature has accepted the body: unlike
// verification, decoding fails hard on malformed input, since at this
// point the caller has already chosen to trust the bytes.
func DecodePayload[T any](raw []byte) (*Payload[T], error) {
	var payload Payload[T]
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	return &payload, nil
}
