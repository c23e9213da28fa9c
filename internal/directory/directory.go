// Package directory resolves phone numbers to internal client identifiers.
//
// The lookup is a pluggable capability: the relay core only depends on the
// Directory interface, so the current static mapping can be swapped for a
// real client-database lookup without touching the HTTP layer.
package directory

import (
	"context"
	"errors"
)

// ErrClientNotFound means no internal client is registered for the phone.
var ErrClientNotFound = errors.New("client not found for phone number")

// Directory maps a phone number to an internal client id.
type Directory interface {
	ResolveByPhone(ctx context.Context, phoneNumber string) (string, error)
}
