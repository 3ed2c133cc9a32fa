package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rollwright/voterroll/internal/common"
	"github.com/rollwright/voterroll/internal/repository"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "rollingest",
	Short: "Ingest electoral-roll source files into the voter store",
	Long: `rollingest normalizes electoral-roll sources (spreadsheets, PDFs,
scanned images) into canonical voter records and reconciles them against
the configured store.

Examples:
  rollingest ingest roll-part-12.xlsx scans/*.pdf
  rollingest ingest --legacy-ocr scans/page3.png
  rollingest export --out backup.json
  rollingest restore backup.json
  rollingest search "Asha"`,
}

func main() {
	setupLogger()
	rootCmd.AddCommand(ingestCmd, exportCmd, restoreCmd, searchCmd, wipeCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore builds the configured store: Postgres when DB_URL is set, the
// embedded SQLite file otherwise.
func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.VoterStore, func(), error) {
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewPostgresStore(ctx, pool, logger)
		if err != nil {
			repository.Close(pool, logger)
			return nil, nil, err
		}
		return store, func() { repository.Close(pool, logger) }, nil
	}

	store, err := repository.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close sqlite store", "error", err)
		}
	}, nil
}
