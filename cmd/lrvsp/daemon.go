package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/didymo/lrvsp/internal/config"
	"github.com/didymo/lrvsp/internal/daemon"
	"github.com/didymo/lrvsp/internal/logger"
	"github.com/didymo/lrvsp/internal/store"
)

// NewDaemonCmd creates the daemon command.
func NewDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Process queued files until interrupted",
		Long: `Daemon polls the queue database for files enqueued by the CMS, extracts a
record from each, stores the records and asks the CMS to pick them up.
It stops cleanly on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runDaemonCmd,
	}
}

func runDaemonCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lc, err := cfg.LayoutConfig()
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Verbose, cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := daemon.New(s, settings(cfg), lc,
		daemon.WithLogger(log.With(zap.String("db", s.Path()))),
		daemon.WithNotifier(notifier(cfg)))
	return d.Run(ctx)
}

func settings(cfg *config.Config) daemon.Settings {
	return daemon.Settings{
		CycleTime:       cfg.CycleTime,
		ParseLimit:      cfg.ParseLimit,
		CreateLimit:     cfg.CreateLimit,
		Workers:         cfg.Workers,
		DocumentTimeout: cfg.DocumentTimeout,
	}
}

func notifier(cfg *config.Config) daemon.Notifier {
	if cfg.DrupalPath == "" {
		return daemon.NopNotifier{}
	}
	return daemon.DrushNotifier{DrupalPath: cfg.DrupalPath}
}

// commandContext returns the command context, or a background context when
// the command is run outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
