// Package router wires the HTTP surface of the relay.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	connectctrl "github.com/dropDatabas3/jobberconnect/internal/http/controllers/connect"
	"github.com/dropDatabas3/jobberconnect/internal/http/middlewares"
	"github.com/dropDatabas3/jobberconnect/internal/metrics"
)

// Deps contains everything the router needs.
type Deps struct {
	Connect        *connectctrl.Controllers
	MetricsHandler http.Handler
	CORSOrigins    []string
}

// New builds the router with the full middleware chain applied.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Post("/jobber/start", d.Connect.Start.Start)
	r.Get("/jobber/callback", d.Connect.Callback.Callback)
	// Jobber sometimes redirects without the prefix.
	r.Get("/callback", d.Connect.Callback.Callback)
	r.Get("/jobber/test", d.Connect.Debug.Test)
	r.Post("/jobber/disconnect/start", d.Connect.Disconnect.Disconnect)

	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	return middlewares.Chain(r,
		middlewares.WithRequestID(),
		middlewares.WithLogging(),
		middlewares.WithCORS(d.CORSOrigins),
		middlewares.WithRecover(),
		metrics.WithMetrics,
	)
}
