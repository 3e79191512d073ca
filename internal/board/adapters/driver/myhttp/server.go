package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ride-admin/internal/board/adapters/driver/myhttp/handle"
	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/board/core/services"
	"ride-admin/internal/config"
	"ride-admin/internal/mylogger"
)

const WaitTime = 10

// Server is the board's own HTTP surface, consumed by the admin browser.
type Server struct {
	mux     *http.ServeMux
	cfg     *config.Config
	srv     *http.Server
	mylog   mylogger.Logger
	session *services.BoardSession
	api     ports.IAdminAPI
	prefs   ports.IPrefsRepo
	ctx     context.Context
	mu      sync.Mutex
}

func NewServer(ctx context.Context, mylog mylogger.Logger, cfg *config.Config,
	session *services.BoardSession, api ports.IAdminAPI, prefs ports.IPrefsRepo,
) *Server {
	return &Server{
		ctx:     ctx,
		cfg:     cfg,
		mylog:   mylog,
		session: session,
		api:     api,
		prefs:   prefs,
		mux:     http.NewServeMux(),
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.Port)
	mylog.Info("server is running")

	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure sets up the HTTP handlers for the map, review, management and
// preference views.
func (s *Server) Configure() {
	importer := services.NewImporter(s.api, s.mylog)

	mapHandler := handle.NewMapHandler(s.mylog, s.session)
	boardHandler := handle.NewBoardHandler(s.mylog, s.session)
	driversHandler := handle.NewDriversHandler(s.mylog, s.api, s.session)
	opsHandler := handle.NewOpsHandler(s.mylog, s.api, s.session)
	importsHandler := handle.NewImportsHandler(s.mylog, importer, s.session)
	prefsHandler := handle.NewPrefsHandler(s.mylog, s.prefs)

	// Live map
	s.mux.Handle("GET /board/map/markers", mapHandler.GetMarkers())
	s.mux.Handle("GET /board/map/heat", mapHandler.GetHeat())
	s.mux.Handle("GET /board/connection", mapHandler.GetConnection())

	// Dashboard panels
	s.mux.Handle("GET /board/stats", boardHandler.GetStats())
	s.mux.Handle("GET /board/live-rides", boardHandler.GetLiveRides())

	// Driver review and directory
	s.mux.Handle("GET /board/drivers", driversHandler.List())
	s.mux.Handle("GET /board/drivers/pending", driversHandler.Pending())
	s.mux.Handle("GET /board/drivers/{id}", driversHandler.Detail())
	s.mux.Handle("POST /board/drivers/{id}/watch", driversHandler.Watch())
	s.mux.Handle("DELETE /board/drivers/{id}/watch", driversHandler.Unwatch())
	s.mux.Handle("POST /board/drivers/{id}/approve", driversHandler.Approve())
	s.mux.Handle("POST /board/drivers/{id}/reject", driversHandler.Reject())

	// Change requests, fleets, corporates, promotions, admins
	s.mux.Handle("GET /board/change-requests", opsHandler.ChangeRequests())
	s.mux.Handle("POST /board/change-requests/{id}/approve", opsHandler.ApproveChangeRequest())
	s.mux.Handle("POST /board/change-requests/{id}/reject", opsHandler.RejectChangeRequest())
	s.mux.Handle("GET /board/fleets", opsHandler.Fleets())
	s.mux.Handle("POST /board/fleets", opsHandler.CreateFleet())
	s.mux.Handle("GET /board/corporates", opsHandler.Corporates())
	s.mux.Handle("POST /board/corporates", opsHandler.CreateCorporate())
	s.mux.Handle("GET /board/promotions", opsHandler.Promotions())
	s.mux.Handle("POST /board/promotions", opsHandler.CreatePromotion())
	s.mux.Handle("POST /board/promotions/{id}/active", opsHandler.SetPromotionActive())
	s.mux.Handle("GET /board/admins", opsHandler.Admins())
	s.mux.Handle("POST /board/admins/grant", opsHandler.GrantAdmin())
	s.mux.Handle("POST /board/admins/{id}/revoke", opsHandler.RevokeAdmin())

	// CSV import wizard
	s.mux.Handle("POST /board/imports/drivers", importsHandler.ImportDrivers())
	s.mux.Handle("GET /board/imports/drivers/template", importsHandler.Template())

	// Local preferences
	s.mux.Handle("GET /board/preferences", prefsHandler.Get())
	s.mux.Handle("PUT /board/preferences", prefsHandler.Put())
}

// Handler exposes the configured mux; tests drive it directly.
func (s *Server) Handler() http.Handler {
	return s.mux
}
