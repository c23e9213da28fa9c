// Package connect holds the services behind the Jobber connect endpoints.
// This is the composition root for the relay's business logic: the
// controllers stay thin and delegate everything here.
package connect

import (
	"context"
	"encoding/json"

	"github.com/dropDatabas3/jobberconnect/internal/directory"
	"github.com/dropDatabas3/jobberconnect/internal/jobber"
	"github.com/dropDatabas3/jobberconnect/internal/security/state"
	"github.com/dropDatabas3/jobberconnect/internal/sink"
)

// Provider abstracts the Jobber OAuth client so services can be tested
// against a fake without a live token endpoint.
type Provider interface {
	AuthorizeURL(stateToken string) string
	ExchangeCode(ctx context.Context, code string) (*jobber.TokenResponse, error)
	GraphQL(ctx context.Context, accessToken, query string) (int, json.RawMessage, error)
}

// Deps contains the collaborators injected into every service.
type Deps struct {
	Codec     state.Codec
	Directory directory.Directory
	Provider  Provider
	Sink      sink.Forwarder

	// Terminal frontend destinations for the callback redirect.
	SuccessURL       string
	PhoneNotFoundURL string
	PhoneRequiredURL string
}

// Services groups the connect services by operation.
type Services struct {
	Start      StartService
	Callback   CallbackService
	Disconnect DisconnectService
	Debug      DebugService
}

// New builds the aggregator. This is the only place services are instantiated.
func New(d Deps) Services {
	return Services{
		Start:      NewStartService(d),
		Callback:   NewCallbackService(d),
		Disconnect: NewDisconnectService(d),
		Debug:      NewDebugService(d),
	}
}
