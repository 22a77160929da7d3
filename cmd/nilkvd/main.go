// Command nilkvd is the entry point for the nilkv server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nilkv/nilkv/internal/infra/buildinfo"
	"github.com/nilkv/nilkv/internal/infra/confloader"
	"github.com/nilkv/nilkv/internal/infra/shutdown"
	"github.com/nilkv/nilkv/internal/server/config"
	"github.com/nilkv/nilkv/internal/server/httpserver"
	"github.com/nilkv/nilkv/internal/server/kvserver"
	"github.com/nilkv/nilkv/internal/telemetry/logger"
	"github.com/nilkv/nilkv/internal/telemetry/metric"
)

func main() {
	app := &cli.App{
		Name:    "nilkvd",
		Usage:   "single-threaded, poll-driven in-memory key-value server",
		Version: buildinfo.Get().Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
				EnvVars: []string{"NILKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "override listener.host:listener.port, e.g. 0.0.0.0:1234",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "override metrics.addr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// The event loop writes to raw socket fds directly; without this the
	// process would die on the first write to a peer that already reset
	// the connection (spec.md §6's collaborator contract).
	signal.Ignore(syscall.SIGPIPE)

	configFile := c.String("config")

	cfg, loader, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	overrides := map[string]any{}
	if addr := c.String("addr"); addr != "" {
		host, port, err := splitHostPort(addr)
		if err != nil {
			return fmt.Errorf("--addr: %w", err)
		}
		overrides["listener.host"] = host
		overrides["listener.port"] = port
	}
	if addr := c.String("metrics-addr"); addr != "" {
		overrides["metrics.addr"] = addr
	}
	if err := loader.LoadFlags(overrides); err != nil {
		return fmt.Errorf("apply flag overrides: %w", err)
	}
	if err := loader.Unmarshal(cfg); err != nil {
		return fmt.Errorf("apply flag overrides: %w", err)
	}

	if err := config.Verify(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	build := buildinfo.Get()
	log.Info("starting nilkvd", append(build.LogFields(), "config", configFile)...)

	var metrics *metric.Registry
	if cfg.Metrics.Enabled {
		metrics = metric.NewRegistry()
	}

	kv, err := kvserver.New(cfg, log, metrics)
	if err != nil {
		return fmt.Errorf("init kvserver: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(10 * time.Second)

	var watcher *confloader.Watcher
	if configFile != "" {
		watcher, err = confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else if err := watcher.Watch(configFile); err != nil {
			log.Warn("failed to watch config file", "path", configFile, "error", err)
		} else {
			watcher.OnChange(func(path string) {
				if err := loader.LoadFile(path); err != nil {
					log.Warn("config reload failed", "path", path, "error", err)
					return
				}
				var reloaded config.ServerConfig
				if err := loader.Unmarshal(&reloaded); err != nil {
					log.Warn("config reload failed", "path", path, "error", err)
					return
				}
				if err := config.Verify(&reloaded); err != nil {
					log.Warn("reloaded configuration is invalid, keeping current log level", "error", err)
					return
				}
				logger.SetLevel(reloaded.Log.Level)
				log.Info("log level reloaded", "level", reloaded.Log.Level)
			})
			watcher.StartAsync()
		}
	}

	ctx, cancelLoop := context.WithCancel(context.Background())
	loopStopped := make(chan struct{})
	var loopErr error
	go func() {
		loopErr = kv.Run(ctx)
		close(loopStopped)
		if loopErr != nil && !errors.Is(loopErr, context.Canceled) {
			log.Error("event loop exited unexpectedly", "error", loopErr)
			shutdownHandler.Trigger()
		}
	}()

	var httpSrv *httpserver.Server
	if metrics != nil {
		router := httpserver.NewRouter(&httpserver.RouterConfig{Logger: log, Metrics: metrics})
		httpSrv = httpserver.New(cfg.Metrics.Addr, router)

		go func() {
			log.Info("metrics server listening", "addr", cfg.Metrics.Addr)
			if err := httpSrv.ListenAndServe(); err != nil {
				log.Debug("metrics server stopped", "error", err)
			}
		}()
	}

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		if httpSrv == nil {
			return nil
		}
		log.Info("shutting down metrics server")
		return httpSrv.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down event loop")
		cancelLoop()
		select {
		case <-loopStopped:
		case <-ctx.Done():
			return ctx.Err()
		}
		return kv.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		if watcher == nil {
			return nil
		}
		return watcher.Stop()
	})

	log.Info("nilkvd started", "addr", fmt.Sprintf("%s:%d", cfg.Listener.Host, cfg.Listener.Port))
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("nilkvd stopped gracefully")
	return nil
}

// loadConfig starts from compiled-in defaults, layers an optional file and
// NILKV_-prefixed environment variables over them, and returns the loader
// itself so the config watcher can reuse it on live reload.
func loadConfig(configFile string) (*config.ServerConfig, *confloader.Loader, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, nil, err
	}

	return cfg, loader, nil
}

// splitHostPort parses a "host:port" flag value.
func splitHostPort(addr string) (string, int, error) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return "", 0, fmt.Errorf("expected host:port, got %q", addr)
	}
	host, portStr := addr[:i], addr[i+1:]
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return host, port, nil
}
