package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/cbodonnell/epochwars/pkg/api/handlers"
	"github.com/cbodonnell/epochwars/pkg/api/middleware"
	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/gorilla/mux"
)

// APIServer serves the status of a session locator over HTTP.
type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Address string
	TLS     *TLSConfig
	Locator handlers.Locator
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.HandleFunc("/healthz", handlers.HandleHealth).Methods(http.MethodGet)
	router.HandleFunc("/servers", handlers.HandleListGameServers(opts.Locator)).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    opts.Address,
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Handler returns the router of the APIServer
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
