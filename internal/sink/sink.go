// Package sink forwards harvested credentials and disconnect requests to the
// downstream automation webhook (n8n). The relay keeps no copy of anything
// it forwards.
package sink

import (
	"context"
	"errors"
	"strings"
)

// ErrUnconfigured means no webhook URL is set. Disconnects cannot proceed
// without one; token forwarding applies the configured missing-endpoint
// policy instead.
var ErrUnconfigured = errors.New("sink webhook not configured")

// ErrUnreachable wraps transport-level failures talking to the webhook.
var ErrUnreachable = errors.New("sink webhook unreachable")

// TokenDelivery is the credential bundle plus the identity it belongs to.
type TokenDelivery struct {
	ClientID     string
	PhoneNumber  string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Forwarder hands data to the downstream system.
type Forwarder interface {
	// ForwardTokens posts the bundle and returns the success verdict.
	// Transport errors downgrade to a false verdict, never an error: the
	// caller is a browser mid-redirect and must reach a terminal page.
	ForwardTokens(ctx context.Context, d TokenDelivery) bool

	// ForwardDisconnect posts a disconnect trigger for the phone number.
	ForwardDisconnect(ctx context.Context, phoneNumber, trigger string) error
}

// Verdict applies the success heuristic to a webhook response: 2xx status
// AND a case-insensitive "success" marker in the body. Anything else is a
// failure, including n8n's "Client number not found." answer.
//
// Substring matching on a free-text body is fragile but it is the contract
// the automation side currently speaks; keep the heuristic here, in one
// place, until n8n returns something structured.
func Verdict(statusCode int, body string) bool {
	if statusCode < 200 || statusCode >= 300 {
		return false
	}
	return strings.Contains(strings.ToLower(body), "success")
}
