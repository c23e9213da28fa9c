package connect

import (
	"net/http"

	dto "github.com/dropDatabas3/jobberconnect/internal/http/dto/connect"
	httperrors "github.com/dropDatabas3/jobberconnect/internal/http/errors"
	"github.com/dropDatabas3/jobberconnect/internal/http/helpers"
	svc "github.com/dropDatabas3/jobberconnect/internal/http/services/connect"
	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
)

// DebugController exposes the canned GraphQL probe.
type DebugController struct {
	service svc.DebugService
}

// NewDebugController creates a new DebugController.
func NewDebugController(service svc.DebugService) *DebugController {
	return &DebugController{service: service}
}

// Test handles GET /jobber/test
func (c *DebugController) Test(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Component("connect.debug"),
		logger.Op("Test"),
	)

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	status, body, err := c.service.SampleClients(ctx)
	if err != nil {
		log.Warn("provider probe failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail(err.Error()))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.DebugResponse{StatusCode: status, Body: body})
}
