package connect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/jobberconnect/internal/directory"
	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
	"github.com/dropDatabas3/jobberconnect/internal/security/state"
)

// Service errors
var (
	ErrPhoneRequired  = fmt.Errorf("phone_number is required")
	ErrClientNotFound = fmt.Errorf("client not found for phone number")
)

// StartService builds the provider authorization URL for a phone number.
type StartService interface {
	Start(ctx context.Context, phoneNumber string) (string, error)
}

type startService struct {
	codec     state.Codec
	directory directory.Directory
	provider  Provider
	now       func() time.Time
}

// NewStartService creates a new StartService.
func NewStartService(d Deps) StartService {
	return &startService{
		codec:     d.Codec,
		directory: d.Directory,
		provider:  d.Provider,
		now:       time.Now,
	}
}

// Start resolves the phone number to a client id, encodes the state token
// and returns the authorization URL. No side effects beyond the lookup.
func (s *startService) Start(ctx context.Context, phoneNumber string) (string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("connect.start"),
		logger.Op("Start"),
	)

	phone := strings.TrimSpace(phoneNumber)
	if phone == "" {
		return "", ErrPhoneRequired
	}

	clientID, err := s.directory.ResolveByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, directory.ErrClientNotFound) {
			log.Debug("phone not in directory", logger.Phone(phone))
			return "", ErrClientNotFound
		}
		return "", err
	}

	payload := state.Payload{
		ClientID:    clientID,
		PhoneNumber: phone,
		IssuedAt:    s.now().Unix(),
	}
	token, err := s.codec.Encode(payload)
	if err != nil {
		log.Error("state encode failed", logger.Err(err))
		return "", err
	}

	url := s.provider.AuthorizeURL(token)
	log.Info("authorization url issued",
		logger.ClientID(clientID),
		logger.Phone(phone),
	)
	return url, nil
}
