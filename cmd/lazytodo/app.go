package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Crixpsitos/lazytodo/internal/blob"
	"github.com/Crixpsitos/lazytodo/internal/config"
	"github.com/Crixpsitos/lazytodo/internal/db"
	"github.com/Crixpsitos/lazytodo/internal/logging"
	"github.com/Crixpsitos/lazytodo/internal/model"
	"github.com/Crixpsitos/lazytodo/internal/persist"
	"github.com/Crixpsitos/lazytodo/internal/tasks"
)

const configEnv = "LAZYTODO_CONFIG"

// app holds everything a subcommand needs once configuration is resolved.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	blobs   blob.Store
	store   *tasks.Store
	closers []func() error
}

type appOption func(*appSettings)

type appSettings struct {
	logFile bool
}

// withLogFile sends logs to lazytodo.log next to the config file, keeping
// the terminal free for the UI.
func withLogFile() appOption {
	return func(s *appSettings) {
		s.logFile = true
	}
}

func openApp(cmd *cobra.Command, opts ...appOption) (*app, error) {
	var settings appSettings
	for _, opt := range opts {
		opt(&settings)
	}

	cfgPath, err := resolveConfigPath(rootConfigPath)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ResolveStorePath(cfgPath)

	defaultSort, err := model.ParseSortMode(cfg.DefaultSort)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &app{cfg: cfg}

	var logOutput io.Writer = cmd.ErrOrStderr()
	if settings.logFile {
		file, err := os.OpenFile(filepath.Join(filepath.Dir(cfgPath), "lazytodo.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, file.Close)
		logOutput = file
	}
	a.logger = logging.New(logOutput, logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		Prefix:          "lazytodo",
		ReportTimestamp: settings.logFile,
	})

	a.blobs, err = a.openBlobs()
	if err != nil {
		a.Close()
		return nil, err
	}

	adapter := persist.New(a.blobs, persist.WithKey(cfg.StorageKey), persist.WithLogger(a.logger))
	a.store = tasks.New(adapter, tasks.WithDefaultSort(defaultSort), tasks.WithLogger(a.logger))
	a.store.Load(context.Background())
	a.logger.Debug("opened store", "backend", cfg.Backend, "path", cfg.StorePath, "key", adapter.Key())
	return a, nil
}

func (a *app) openBlobs() (blob.Store, error) {
	switch a.cfg.Backend {
	case config.BackendMemory:
		return blob.NewMemory(), nil
	case config.BackendFile:
		return blob.NewFile(a.cfg.StorePath), nil
	default:
		if err := config.EnsureDir(a.cfg.StorePath); err != nil {
			return nil, err
		}
		sqlDB, err := db.Open(a.cfg.StorePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		return db.NewBlobs(sqlDB), nil
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if value := os.Getenv(configEnv); value != "" {
		return value, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig reads the config file and writes the defaults on first run.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(path, cfg); err != nil {
			return config.Config{}, fmt.Errorf("write default config: %w", err)
		}
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config) {
	if rootStorePath != "" {
		cfg.StorePath = rootStorePath
	}
	if rootBackend != "" {
		cfg.Backend = rootBackend
	}
	if rootKey != "" {
		cfg.StorageKey = rootKey
	}
	if rootLogLevel != "" {
		cfg.LogLevel = rootLogLevel
	}
	if rootLogFormat != "" {
		cfg.LogFormat = rootLogFormat
	}
}
