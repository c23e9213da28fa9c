package connect

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/jobberconnect/internal/http/dto/connect"
	httperrors "github.com/dropDatabas3/jobberconnect/internal/http/errors"
	"github.com/dropDatabas3/jobberconnect/internal/http/helpers"
	svc "github.com/dropDatabas3/jobberconnect/internal/http/services/connect"
	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
	"github.com/dropDatabas3/jobberconnect/internal/sink"
)

// DisconnectController relays disconnect requests to the sink.
type DisconnectController struct {
	service svc.DisconnectService
}

// NewDisconnectController creates a new DisconnectController.
func NewDisconnectController(service svc.DisconnectService) *DisconnectController {
	return &DisconnectController{service: service}
}

// Disconnect handles POST /jobber/disconnect/start
func (c *DisconnectController) Disconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Component("connect.disconnect"),
		logger.Op("Disconnect"),
	)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	var req dto.DisconnectRequest
	if err := helpers.ReadJSON(r, &req); err != nil {
		log.Warn("invalid JSON", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	if err := c.service.Disconnect(ctx, req.PhoneNumber, req.Trigger); err != nil {
		switch {
		case errors.Is(err, svc.ErrPhoneRequired):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("phoneNumber is required"))
		case errors.Is(err, sink.ErrUnconfigured):
			httperrors.WriteError(w, httperrors.ErrSinkUnconfigured)
		case errors.Is(err, sink.ErrUnreachable):
			httperrors.WriteError(w, httperrors.ErrSinkUnreachable)
		default:
			log.Error("disconnect failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrSinkUnreachable.WithDetail(err.Error()))
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.DisconnectResponse{
		Success: true,
		Message: "disconnect relayed",
	})
}
