// Command evadmin is the terminal front-end of the charging station dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"evdash/backend/libs/logging"
	"evdash/backend/services/dashboard/internal/clients"
	"evdash/backend/services/dashboard/internal/config"
	"evdash/backend/services/dashboard/internal/session"
	"evdash/backend/services/dashboard/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "evadmin:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadTerminal()
	if err != nil {
		return err
	}

	sessionPath := cfg.Terminal.SessionFile
	if sessionPath == "" {
		if sessionPath, err = session.DefaultFilePath(); err != nil {
			return err
		}
	}
	logPath := cfg.Terminal.LogFile
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(sessionPath), "evadmin.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	logger, err := logging.NewFileLogger("evadmin", logPath)
	if err != nil {
		return err
	}
	defer logger.Sync() // best-effort flush

	api := clients.New(cfg.API.BaseURL, clients.NewDefaultHTTPClient(cfg.API.Timeout))
	store := session.NewStore(api, session.NewFileStorage(sessionPath), logger)
	if err := store.Restore(ctx); err != nil {
		logger.Warn("could not restore saved session", zap.Error(err))
	}

	program := tea.NewProgram(tui.NewApp(store, tui.Options{
		Logger:        logger,
		ToastInterval: cfg.Toast.Interval,
		ToastLifetime: cfg.Toast.Lifetime,
	}), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		logger.Error("terminal app stopped with error", zap.Error(err))
		return err
	}
	return nil
}
