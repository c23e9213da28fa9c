package directory

import (
	"context"
	"strings"
)

// Static resolves every phone number to a fixed client id, with optional
// per-number overrides. It stands in for the real client database until the
// automation side exposes a lookup API; the sink re-validates the phone
// number before acting, which is what makes this acceptable.
type Static struct {
	defaultID string
	overrides map[string]string
}

// NewStatic creates a Static directory. An empty defaultID makes unknown
// numbers fail with ErrClientNotFound instead of falling through.
func NewStatic(defaultID string, overrides map[string]string) *Static {
	return &Static{defaultID: defaultID, overrides: overrides}
}

func (s *Static) ResolveByPhone(_ context.Context, phoneNumber string) (string, error) {
	phone := strings.TrimSpace(phoneNumber)
	if phone == "" {
		return "", ErrClientNotFound
	}
	if id, ok := s.overrides[phone]; ok {
		return id, nil
	}
	if s.defaultID == "" {
		return "", ErrClientNotFound
	}
	return s.defaultID, nil
}
