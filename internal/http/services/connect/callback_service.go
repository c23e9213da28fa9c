package connect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/jobberconnect/internal/jobber"
	"github.com/dropDatabas3/jobberconnect/internal/metrics"
	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
	"github.com/dropDatabas3/jobberconnect/internal/security/state"
	"github.com/dropDatabas3/jobberconnect/internal/sink"
	"go.uber.org/zap"
)

// Service errors
var (
	ErrCodeRequired  = fmt.Errorf("code is required")
	ErrStateInvalid  = fmt.Errorf("invalid state")
	ErrExchangeFailed = errors.New("token exchange failed")
)

// ExchangeFailedError carries the upstream token endpoint response for
// diagnostics. It unwraps to ErrExchangeFailed.
type ExchangeFailedError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeFailedError) Error() string {
	return fmt.Sprintf("token exchange failed (status %d)", e.StatusCode)
}

func (e *ExchangeFailedError) Unwrap() error { return ErrExchangeFailed }

// CallbackService consumes the provider redirect: it validates the state
// token, exchanges the code and forwards the tokens to the sink.
type CallbackService interface {
	// Callback returns the terminal frontend URL the browser must be
	// redirected to. Errors are returned only for the HTTP-error
	// terminals (missing code, invalid state, failed exchange); every
	// sink outcome resolves to a redirect.
	Callback(ctx context.Context, code, stateToken string) (string, error)
}

type callbackService struct {
	codec    state.Codec
	provider Provider
	sink     sink.Forwarder

	successURL       string
	phoneNotFoundURL string
	phoneRequiredURL string
}

// NewCallbackService creates a new CallbackService.
func NewCallbackService(d Deps) CallbackService {
	return &callbackService{
		codec:            d.Codec,
		provider:         d.Provider,
		sink:             d.Sink,
		successURL:       d.SuccessURL,
		phoneNotFoundURL: d.PhoneNotFoundURL,
		phoneRequiredURL: d.PhoneRequiredURL,
	}
}

func (s *callbackService) Callback(ctx context.Context, code, stateToken string) (string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("connect.callback"),
		logger.Op("Callback"),
	)

	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrCodeRequired
	}

	// Establish identity from the state token before touching the token
	// endpoint. Under the strict codec any defect in the token is terminal
	// and the single-use code is left unburnt.
	identity, err := s.resolveIdentity(ctx, stateToken)
	if err != nil {
		metrics.IncCallback("invalid_state")
		log.Warn("state rejected", logger.Err(err))
		return "", ErrStateInvalid
	}
	if !identity.Complete() {
		metrics.IncCallback("phone_required")
		log.Info("identity missing from state, sending to phone-required page")
		return s.phoneRequiredURL, nil
	}

	tokens, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		metrics.IncExchange("failure")
		metrics.IncCallback("exchange_failed")
		var xe *jobber.ExchangeError
		if errors.As(err, &xe) {
			log.Warn("token endpoint rejected code",
				logger.Int("upstream_status", xe.StatusCode),
				zap.String("upstream_body", xe.Body),
			)
			return "", &ExchangeFailedError{StatusCode: xe.StatusCode, Body: xe.Body}
		}
		log.Error("token exchange transport failure", logger.Err(err))
		return "", &ExchangeFailedError{StatusCode: 0, Body: err.Error()}
	}
	metrics.IncExchange("success")

	delivery := sink.TokenDelivery{
		ClientID:     identity.ClientID,
		PhoneNumber:  identity.PhoneNumber,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}
	accepted := s.sink.ForwardTokens(ctx, delivery)
	metrics.IncSinkForward(accepted)

	if !accepted {
		metrics.IncCallback("phone_not_found")
		log.Info("sink rejected delivery",
			logger.ClientID(identity.ClientID),
			logger.Phone(identity.PhoneNumber),
		)
		return s.phoneNotFoundURL, nil
	}

	metrics.IncCallback("success")
	log.Info("connection established",
		logger.ClientID(identity.ClientID),
		logger.Phone(identity.PhoneNumber),
	)
	return s.successURL, nil
}

// resolveIdentity decodes the state token according to the active codec's
// strictness. Strict mode returns an error for a missing or bad token;
// lenient mode always succeeds and may yield an incomplete payload.
func (s *callbackService) resolveIdentity(ctx context.Context, stateToken string) (state.Payload, error) {
	if s.codec.Strict() {
		if strings.TrimSpace(stateToken) == "" {
			return state.Payload{}, state.ErrInvalidState
		}
		return s.codec.Decode(stateToken)
	}

	payload, err := s.codec.Decode(stateToken)
	if err != nil {
		// Lenient codecs report no errors, but guard anyway.
		logger.From(ctx).Debug("lenient decode error", logger.Err(err))
		return state.Payload{}, nil
	}
	return payload, nil
}
