// Package server assembles the relay from configuration: codec selection,
// provider client, directory, sink, services, controllers and router.
package server

import (
	"net/http"

	"github.com/dropDatabas3/jobberconnect/internal/config"
	"github.com/dropDatabas3/jobberconnect/internal/directory"
	connectctrl "github.com/dropDatabas3/jobberconnect/internal/http/controllers/connect"
	"github.com/dropDatabas3/jobberconnect/internal/http/router"
	connectsvc "github.com/dropDatabas3/jobberconnect/internal/http/services/connect"
	"github.com/dropDatabas3/jobberconnect/internal/jobber"
	"github.com/dropDatabas3/jobberconnect/internal/metrics"
	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
	"github.com/dropDatabas3/jobberconnect/internal/security/secretbox"
	"github.com/dropDatabas3/jobberconnect/internal/security/state"
	"github.com/dropDatabas3/jobberconnect/internal/sink"
)

// New builds the full HTTP handler for the given configuration.
func New(cfg *config.Config) (http.Handler, error) {
	log := logger.L().With(logger.Component("server"))

	clientSecret := cfg.Jobber.ClientSecret
	if secretbox.Looks(clientSecret) && secretbox.Ready() {
		plain, err := secretbox.Decrypt(clientSecret)
		if err != nil {
			// Keep the raw value; the token endpoint will reject it if
			// it really was ciphertext.
			log.Warn("client secret looks encrypted but failed to decrypt", logger.Err(err))
		} else {
			clientSecret = plain
		}
	}

	var codec state.Codec
	if cfg.Signed() {
		codec = state.NewSigned(cfg.State.SigningSecret, cfg.State.TTL)
		log.Info("state codec: signed", logger.Any("ttl", cfg.State.TTL))
	} else {
		codec = state.NewContainer()
		log.Warn("state codec: unsigned container, state integrity is not verified")
	}

	provider := jobber.New(jobber.Config{
		ClientID:       cfg.Jobber.ClientID,
		ClientSecret:   clientSecret,
		RedirectURI:    cfg.Jobber.RedirectURI,
		Scopes:         cfg.Jobber.Scopes,
		AuthURL:        cfg.Jobber.AuthURL,
		TokenURL:       cfg.Jobber.TokenURL,
		GraphQLURL:     cfg.Jobber.GraphQLURL,
		GraphQLVersion: cfg.Jobber.GraphQLVersion,
		Timeout:        cfg.Jobber.Timeout,
	})

	dir := directory.NewCached(
		directory.NewStatic(cfg.Directory.DefaultClientID, nil),
		cfg.Directory.CacheTTL,
	)

	forwarder := sink.NewWebhook(cfg.Sink.WebhookURL, cfg.Sink.Timeout, cfg.Sink.AllowMissing)
	if cfg.Sink.WebhookURL == "" {
		log.Warn("sink webhook url not configured",
			logger.Bool("allow_missing", cfg.Sink.AllowMissing))
	}

	services := connectsvc.New(connectsvc.Deps{
		Codec:            codec,
		Directory:        dir,
		Provider:         provider,
		Sink:             forwarder,
		SuccessURL:       cfg.Frontend.SuccessURL,
		PhoneNotFoundURL: cfg.Frontend.PhoneNotFoundURL,
		PhoneRequiredURL: cfg.Frontend.PhoneRequiredURL,
	})

	metricsHandler, err := metrics.Register(nil)
	if err != nil {
		return nil, err
	}

	return router.New(router.Deps{
		Connect:        connectctrl.New(services),
		MetricsHandler: metricsHandler,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
	}), nil
}
