package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metadns/metadns/internal/dns/common/clock"
	"github.com/metadns/metadns/internal/dns/common/log"
	"github.com/metadns/metadns/internal/dns/config"
	"github.com/metadns/metadns/internal/dns/gateways/store"
	"github.com/metadns/metadns/internal/dns/gateways/transport"
	"github.com/metadns/metadns/internal/dns/services/resolver"
)

const (
	version = "0.1.0-dev"
	appName = "metadnsd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server.
type Application struct {
	config    *config.AppConfig
	transport *transport.DNSTransport
	resolver  *resolver.Resolver
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":            appName,
		"version":        version,
		"env":            cfg.Env,
		"log_level":      cfg.LogLevel,
		"address":        cfg.ListenAddr(),
		"lookup_timeout": cfg.LookupTimeout,
	}, "Starting metadns server")

	app := buildApplication(cfg)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "metadns server stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) *Application {
	logger := log.GetLogger()

	recordStore := store.NewStripeStore(cfg.StripeKey, logger)

	resolverService := resolver.NewResolver(resolver.Options{
		Store:         recordStore,
		Logger:        logger,
		Clock:         clock.RealClock{},
		LookupTimeout: time.Duration(cfg.LookupTimeout) * time.Second,
	})

	dnsTransport := transport.NewDNSTransport(cfg.ListenAddr(), logger)

	return &Application{
		config:    cfg,
		transport: dnsTransport,
		resolver:  resolverService,
	}
}

// Run starts the DNS server and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if err := app.transport.Start(ctx, app.resolver); err != nil {
		return fmt.Errorf("failed to start DNS transport: %w", err)
	}

	log.Info(map[string]any{
		"address": app.transport.Address(),
	}, "DNS server started")

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- app.transport.Stop()
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
		}
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
