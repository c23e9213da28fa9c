package connect

import (
	"context"
	"encoding/json"

	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
)

// SampleQuery is the fixed GraphQL query used by the debug endpoint.
const SampleQuery = `{ clients(first: 5) { totalCount nodes { id firstName lastName } } }`

// placeholderToken must be replaced by hand with a real access token
// before the debug endpoint returns anything useful.
const placeholderToken = "PASTE_FULL_ACCESS_TOKEN_HERE"

// DebugService runs a canned GraphQL query against the provider so an
// operator can verify a token end to end.
type DebugService interface {
	SampleClients(ctx context.Context) (int, json.RawMessage, error)
}

type debugService struct {
	provider Provider
}

// NewDebugService creates a new DebugService.
func NewDebugService(d Deps) DebugService {
	return &debugService{provider: d.Provider}
}

func (s *debugService) SampleClients(ctx context.Context) (int, json.RawMessage, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("connect.debug"),
		logger.Op("SampleClients"),
	)

	status, body, err := s.provider.GraphQL(ctx, placeholderToken, SampleQuery)
	if err != nil {
		log.Warn("sample query failed", logger.Err(err))
		return 0, nil, err
	}

	log.Debug("sample query completed", logger.Status(status))
	return status, body, nil
}
