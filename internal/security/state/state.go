// Package state implements the OAuth state token codecs.
//
// The state parameter is the only memory the relay keeps across the redirect
// boundary: initiation and callback may be served by different process
// instances, so the token must be self-describing and, in the signed
// variant, self-certifying.
//
// Two codecs implement the same strategy interface and are selected once at
// wiring time:
//
//   - Signed: HMAC-SHA256 integrity protection (HS256 compact JWS). Forged
//     or mutated tokens are rejected. Recommended.
//   - Container: plain base64url(JSON), no integrity guarantee. Only
//     acceptable when the downstream sink independently re-validates the
//     phone number before acting on the token's claims.
package state

import "errors"

// ErrInvalidState is the single error for a state token that is missing,
// malformed, or failing its integrity check. Callers must not be able to
// tell those cases apart, so the codec never returns anything more specific.
var ErrInvalidState = errors.New("invalid state")

// Payload is the identity blob carried through the OAuth redirect.
// Once encoded it is immutable; Decode(Encode(p)) == p.
type Payload struct {
	ClientID    string `json:"client_id"`
	PhoneNumber string `json:"phone_number"`
	IssuedAt    int64  `json:"ts"` // unix seconds
}

// Complete reports whether the payload can map a callback to a client.
func (p Payload) Complete() bool {
	return p.ClientID != "" && p.PhoneNumber != ""
}

// Codec encodes and decodes state tokens.
type Codec interface {
	Encode(Payload) (string, error)
	Decode(string) (Payload, error)

	// Strict reports whether a decode failure must terminate the callback.
	// The container codec is lenient: garbage decodes to a zero payload and
	// the callback falls through to the phone-required page.
	Strict() bool
}
