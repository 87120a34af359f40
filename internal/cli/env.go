package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sadopc/pomo/internal/config"
	"github.com/sadopc/pomo/internal/ledger"
	"github.com/sadopc/pomo/internal/stats"
	"github.com/sadopc/pomo/internal/store"
)

// env is everything a command needs: the loaded config, a logger and the
// ledger and statistics over the database. db is nil when the database
// could not be opened; the ledger and statistics then run in memory.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	db     *store.Store
	ledger *ledger.Ledger
	stats  *stats.Store

	logFile io.Closer
}

func openEnv() (*env, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if cfg.Storage.DBPath == "" {
		if cfg.Storage.DBPath, err = store.DefaultDBPath(); err != nil {
			return nil, err
		}
	}

	e := &env{cfg: cfg}
	e.logger, e.logFile = openLogger(cfg.Logging)

	db, err := store.New(cfg.Storage.DBPath)
	if err != nil {
		e.logger.Warn("open database", "path", cfg.Storage.DBPath, "err", err)
		e.ledger = ledger.New(nil, e.logger)
		e.stats = stats.New(nil, e.logger)
		return e, nil
	}
	e.db = db
	e.ledger = ledger.New(db, e.logger)
	e.stats = stats.New(db, e.logger)
	return e, nil
}

// openLogger writes to the configured log file. The terminal belongs to the
// UI, so a file that cannot be opened silences logging instead.
func openLogger(lc config.LoggingConfig) (*slog.Logger, io.Closer) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if lc.File == "" {
		return discard, nil
	}
	if err := os.MkdirAll(filepath.Dir(lc.File), 0o755); err != nil {
		return discard, nil
	}
	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard, nil
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: lc.SlogLevel()})
	return slog.New(h), f
}

// settings returns the persisted settings, or the defaults without a database.
func (e *env) settings() config.Settings {
	if e.db == nil {
		return config.DefaultSettings()
	}
	return config.LoadSettings(e.db)
}

func (e *env) Close() error {
	var err error
	if e.db != nil {
		if cerr := e.db.Close(); cerr != nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
	return err
}
