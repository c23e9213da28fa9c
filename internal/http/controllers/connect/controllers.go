// Package connect provides the HTTP controllers for the Jobber connect flow.
// Controllers stay thin: validate method and input, delegate to the service,
// translate service errors to HTTP responses.
package connect

import (
	svc "github.com/dropDatabas3/jobberconnect/internal/http/services/connect"
)

// Controllers aggregates the connect controllers.
type Controllers struct {
	Start      *StartController
	Callback   *CallbackController
	Disconnect *DisconnectController
	Debug      *DebugController
}

// New builds the controllers from the service aggregator.
func New(s svc.Services) *Controllers {
	return &Controllers{
		Start:      NewStartController(s.Start),
		Callback:   NewCallbackController(s.Callback),
		Disconnect: NewDisconnectController(s.Disconnect),
		Debug:      NewDebugController(s.Debug),
	}
}
