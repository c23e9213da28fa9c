package connect

import (
	"context"
	"strings"

	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
	"github.com/dropDatabas3/jobberconnect/internal/sink"
)

// DisconnectService relays a disconnect request to the sink so it can tear
// down whatever it stored for the phone number.
type DisconnectService interface {
	Disconnect(ctx context.Context, phoneNumber, trigger string) error
}

type disconnectService struct {
	sink sink.Forwarder
}

// NewDisconnectService creates a new DisconnectService.
func NewDisconnectService(d Deps) DisconnectService {
	return &disconnectService{sink: d.Sink}
}

func (s *disconnectService) Disconnect(ctx context.Context, phoneNumber, trigger string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("connect.disconnect"),
		logger.Op("Disconnect"),
	)

	phone := strings.TrimSpace(phoneNumber)
	if phone == "" {
		return ErrPhoneRequired
	}

	if err := s.sink.ForwardDisconnect(ctx, phone, strings.TrimSpace(trigger)); err != nil {
		log.Warn("disconnect relay failed", logger.Phone(phone), logger.Err(err))
		return err
	}

	log.Info("disconnect relayed", logger.Phone(phone))
	return nil
}
