// Package requestid contains utilities for handling the request id.
package requestid

import "context"

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// Inject injects a given requestID into a context.
func Inject(ctx context.Context, requestID uint64) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Extract extracts a requestID from a context if it exists.
// If none is found, then 0 is returned.
func Extract(ctx context.Context) uint64 {
	if v, ok := ctx.Value(requestIDKey).(uint64); ok {
		return v
	}
	return 0
}
