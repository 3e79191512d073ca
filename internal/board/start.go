package board

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"ride-admin/internal/board/adapters/driven/api"
	"ride-admin/internal/board/adapters/driven/prefs"
	"ride-admin/internal/board/adapters/driven/push"
	"ride-admin/internal/board/adapters/driver/myhttp"
	"ride-admin/internal/board/core/services"
	"ride-admin/internal/config"
	"ride-admin/internal/mylogger"
)

// Execute wires the board together and runs it until a shutdown signal.
func Execute(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prefsStore, err := prefs.Open(cfg.Prefs.Path)
	if err != nil {
		mylog.Action("prefs_open_failed").Error("Failed to open preferences store", err)
		return err
	}
	defer prefsStore.Close()

	tokens := api.NewTokenCache(prefsStore, mylog)
	if cfg.Api.Token != "" {
		tokens.Set(cfg.Api.Token)
	}
	if !tokens.Usable() {
		mylog.Action("no_credential").Warn("no usable admin credential, live updates disabled until login")
	}

	apiClient := api.NewClient(cfg.Api.BaseURL, cfg.Api.Timeout, tokens, mylog)
	pushClient := push.NewClient(cfg.Push.URL, tokens.Token, mylog)

	session := services.NewBoardSession(apiClient, pushClient, cfg, mylog)
	session.Start(newCtx)
	defer session.Close()

	server := myhttp.NewServer(newCtx, mylog, cfg, session, apiClient, prefsStore)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("board_service_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}
