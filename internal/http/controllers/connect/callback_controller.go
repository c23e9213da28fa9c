package connect

import (
	"errors"
	"net/http"

	httperrors "github.com/dropDatabas3/jobberconnect/internal/http/errors"
	svc "github.com/dropDatabas3/jobberconnect/internal/http/services/connect"
	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
)

// CallbackController handles the provider redirect.
type CallbackController struct {
	service svc.CallbackService
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(service svc.CallbackService) *CallbackController {
	return &CallbackController{service: service}
}

// Callback handles GET /jobber/callback and GET /callback
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Component("connect.callback"),
		logger.Op("Callback"),
	)

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	redirectURL, err := c.service.Callback(ctx, q.Get("code"), q.Get("state"))
	if err != nil {
		var xe *svc.ExchangeFailedError
		switch {
		case errors.Is(err, svc.ErrCodeRequired):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code is required"))
		case errors.Is(err, svc.ErrStateInvalid):
			httperrors.WriteError(w, httperrors.ErrInvalidState)
		case errors.As(err, &xe):
			httperrors.WriteError(w, httperrors.ErrTokenExchangeFailed.WithDetail(xe.Body))
		default:
			log.Error("callback failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	// The browser lands on a terminal page; never cache the redirect.
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, redirectURL, http.StatusFound)
}
