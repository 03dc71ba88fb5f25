package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpHandler "github.com/anthanhphan/go-image-host/internal/api/adapter/inbound/http"
	"github.com/anthanhphan/go-image-host/internal/api/adapter/outbound/disk"
	"github.com/anthanhphan/go-image-host/internal/api/config"
	"github.com/anthanhphan/go-image-host/internal/api/service"
	"github.com/anthanhphan/go-image-host/pkg/idgen"
	"github.com/anthanhphan/gosdk/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg    *config.Config
	server *httpHandler.Server
}

// New wires the application from an already loaded configuration.
// cfg must not be modified afterwards.
func New(cfg *config.Config) (*App, error) {
	// 1. Validate Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize Logger
	logger.InitLogger(&cfg.Logger)

	// 3. Storage (creates the directory; failure aborts startup)
	store, err := disk.NewDiskAdapter(cfg.App.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// 4. Identifier generator
	idGen, err := idgen.New(idgen.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to init id generator: %w", err)
	}

	// 5. Services
	svc := service.NewImageService(cfg, store, idGen)

	// 6. HTTP Server
	httpServer := httpHandler.NewServer(cfg, svc)

	return &App{
		cfg:    cfg,
		server: httpServer,
	}, nil
}

func (a *App) Run() error {
	logger.Infow("Image host starting",
		"addr", a.cfg.Addr(),
		"storage_path", a.cfg.App.StoragePath,
		"tls", a.cfg.App.TLS,
	)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		logger.Infow("Shutdown signal received", "signal", sig.String())
	case err := <-serverErrCh:
		runErr = fmt.Errorf("http server failed: %w", err)
		logger.Errorw("Image host exited unexpectedly", "error", err.Error())
	}

	logger.Info("Shutting down image host")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Stop(ctx); err != nil {
		logger.Errorw("Shutdown error", "error", err.Error())
		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}
