// Package main is the entry point for the navlink resolver daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vyrodovalexey/navlink/internal/cache"
	"github.com/vyrodovalexey/navlink/internal/config"
	"github.com/vyrodovalexey/navlink/internal/deeplink"
	"github.com/vyrodovalexey/navlink/internal/observability"
	"github.com/vyrodovalexey/navlink/internal/registry"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 30 * time.Second

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	cfg := loadAndValidateConfig(flags.configPath, logger)
	app := initApplication(cfg, logger)

	run(app, flags.configPath, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("NAVLINK_CONFIG_PATH", "configs/navlink.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("NAVLINK_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("NAVLINK_LOG_FORMAT", "json"),
		"Log format (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("navlink version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// fatal logs an unrecoverable startup error and exits.
func fatal(logger observability.Logger, msg string, err error) {
	logger.Error(msg, observability.Error(err))
	_ = logger.Sync()
	os.Exit(1)
}

// loadAndValidateConfig loads and validates the configuration.
func loadAndValidateConfig(configPath string, logger observability.Logger) *config.Config {
	logger.Info("starting navlink resolver",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fatal(logger, "failed to load configuration", err)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		fatal(logger, "invalid configuration", err)
	}

	logger.Info("configuration loaded",
		observability.Int("routes", len(cfg.Routes)),
		observability.Strings("schemes", cfg.Resolver.Schemes),
		observability.Strings("hosts", cfg.Resolver.Hosts),
	)

	return cfg
}

// application holds all application components.
type application struct {
	registry *registry.Registry
	resolver *deeplink.Resolver
	cache    cache.Cache
	server   *http.Server
	config   *config.Config
}

// initApplication initializes all application components.
func initApplication(cfg *config.Config, logger observability.Logger) *application {
	reg := registry.New()
	reg.LoadFromConfig(cfg.Routes)
	observability.GetMetrics().RegistrySize.Set(float64(reg.Len()))

	for _, issue := range reg.Validate() {
		logger.Warn("route table issue", observability.String("issue", issue.String()))
	}

	resolutionCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		fatal(logger, "failed to initialize resolution cache", err)
	}

	opts := []deeplink.Option{
		deeplink.WithLogger(logger),
		deeplink.WithSchemes(cfg.Resolver.Schemes),
		deeplink.WithHosts(cfg.Resolver.Hosts),
	}
	if cfg.Cache != nil && cfg.Cache.Enabled {
		opts = append(opts, deeplink.WithCache(resolutionCache, cfg.Cache.TTL.Duration()))
	}
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		opts = append(opts, deeplink.WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	resolver := deeplink.New(reg, opts...)

	listen := cfg.Resolver.Listen
	if listen == "" {
		listen = ":8470"
	}

	server := &http.Server{
		Addr:              listen,
		Handler:           buildRouter(reg, resolver, logger),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	return &application{
		registry: reg,
		resolver: resolver,
		cache:    resolutionCache,
		server:   server,
		config:   cfg,
	}
}

// run starts the HTTP server and the config watcher, then blocks until a
// shutdown signal arrives.
func run(app *application, configPath string, logger observability.Logger) {
	go func() {
		logger.Info("resolver listening", observability.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(logger, "http server error", err)
		}
	}()

	watcher := startConfigWatcher(app, configPath, logger)

	waitForShutdown(app, watcher, logger)
}

// startConfigWatcher starts the configuration watcher. Route table changes
// are applied atomically; everything else requires a restart.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		logger.Info("configuration changed, reloading route table",
			observability.Int("routes", len(newCfg.Routes)),
		)
		app.registry.LoadFromConfig(newCfg.Routes)
		observability.GetMetrics().RegistrySize.Set(float64(app.registry.Len()))
	}, config.WithLogger(logger))

	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
	}

	return watcher
}

// waitForShutdown waits for a shutdown signal and performs graceful shutdown.
func waitForShutdown(app *application, watcher *config.Watcher, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop http server gracefully", observability.Error(err))
	}

	if err := app.cache.Close(); err != nil {
		logger.Error("failed to close resolution cache", observability.Error(err))
	}

	logger.Info("resolver stopped")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
