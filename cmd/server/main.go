package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"popdash/internal/api"
	"popdash/internal/config"
	"popdash/internal/coordinator"
	"popdash/internal/engine"
	"popdash/internal/geo"
	"popdash/internal/logging"
	"popdash/internal/views"
)

var (
	configPath string
	addr       string
	dataDir    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "popdash",
	Short: "Serve the population dashboard API",
	Long: `popdash loads the demographic CSV and GeoJSON datasets, keeps one
country/year selection and serves chart scenes, SVG renderings and the
choropleth layer over HTTP.

The server answers immediately; data routes return 503 until every dataset
has loaded.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.Data.Dir = dataDir
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "popdash.yaml", "path to the YAML config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "directory holding the datasets (overrides data.dir)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides logging.level)")
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// 1. Echo starts at once with no data
	h := api.NewHandler(logger.Named("api"))
	e := api.NewServer(h, api.Options{RateLimit: cfg.Server.RateLimit}, logger)
	if cfg.Logging.Level == "debug" {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.ERROR)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Load in the background; any failure is fatal
	loadErr := make(chan error, 1)
	go func() {
		loadErr <- load(ctx, cfg, h, logger)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening; datasets loading in background", zap.String("addr", cfg.Server.Addr))
		serveErr <- e.Start(cfg.Server.Addr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-loadErr:
		if err != nil {
			logger.Error("dataset load failed", zap.Error(err))
			runErr = err
		} else {
			// loaded; keep serving until signalled or the listener dies
			select {
			case <-ctx.Done():
				logger.Info("shutting down")
			case err := <-serveErr:
				runErr = err
			}
		}
	case err := <-serveErr:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	if errors.Is(runErr, http.ErrServerClosed) {
		return nil
	}
	return runErr
}

func load(ctx context.Context, cfg *config.Config, h *api.Handler, logger *zap.Logger) error {
	t0 := time.Now()
	logger.Info("loading datasets", zap.String("dir", cfg.Data.Dir))

	data, err := engine.LoadAll(ctx, cfg.Files(), logger.Named("engine"))
	if err != nil {
		return err
	}
	world, err := geo.Load(cfg.GeoJSONPath(), data.Population)
	if err != nil {
		return err
	}

	coord := coordinator.New(data, views.NewSurface(), cfg.Charts, logger.Named("coordinator"))
	coord.Initialize(ctx, cfg.Selection.DefaultYear)
	h.SetData(data, world, coord)

	logger.Info("datasets ready", zap.Duration("elapsed", time.Since(t0)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
