package connect

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/jobberconnect/internal/http/dto/connect"
	httperrors "github.com/dropDatabas3/jobberconnect/internal/http/errors"
	"github.com/dropDatabas3/jobberconnect/internal/http/helpers"
	svc "github.com/dropDatabas3/jobberconnect/internal/http/services/connect"
	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
)

// StartController handles the OAuth initiation endpoint.
type StartController struct {
	service svc.StartService
}

// NewStartController creates a new StartController.
func NewStartController(service svc.StartService) *StartController {
	return &StartController{service: service}
}

// Start handles POST /jobber/start
func (c *StartController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Component("connect.start"),
		logger.Op("Start"),
	)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.StartRequest
	if err := helpers.ReadJSON(r, &req); err != nil {
		log.Warn("invalid JSON", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	url, err := c.service.Start(ctx, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrPhoneRequired):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("phone_number is required"))
		case errors.Is(err, svc.ErrClientNotFound):
			httperrors.WriteError(w, httperrors.ErrClientNotFound)
		default:
			log.Error("start failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.StartResponse{URL: url})
}
