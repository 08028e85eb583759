package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KretovDmitry/goalias/internal/api/rest"
	"github.com/KretovDmitry/goalias/internal/api/rpc"
	"github.com/KretovDmitry/goalias/internal/config"
	"github.com/KretovDmitry/goalias/internal/executor"
	"github.com/KretovDmitry/goalias/internal/logger"
	"github.com/KretovDmitry/goalias/internal/router"
	"github.com/KretovDmitry/goalias/internal/service"
	"github.com/KretovDmitry/goalias/internal/storage"
	"golang.org/x/crypto/acme/autocert"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.MustLoad()

	logger := logger.New(cfg.Logger)
	defer func() { _ = logger.Sync() }()

	store, err := storage.Open(cfg.Store.Path, storage.Options{
		Timeout:         cfg.Store.OpenTimeout,
		NoSync:          cfg.Store.NoSync,
		InitialMmapSize: cfg.Store.InitialMmapSizeMB << 20,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("close store: %s", err)
		}
	}()
	logger.Infof("Store opened: %s", store.Path())

	exec, err := executor.New(store, logger, executor.Options{
		Readers:         cfg.Executor.Readers,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("new executor: %w", err)
	}
	defer exec.Stop()

	svc, err := service.New(exec, logger)
	if err != nil {
		return fmt.Errorf("new service: %w", err)
	}

	handler, err := rest.NewHandler(svc, cfg, logger)
	if err != nil {
		return fmt.Errorf("new handler: %w", err)
	}

	hs := &http.Server{
		Addr:              cfg.Server.RunAddress.String(),
		Handler:           router.New(handler, logger),
		ReadHeaderTimeout: cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	if cfg.RPCEnabled {
		rs, err := rpc.NewHealthServer(svc, cfg, logger)
		if err != nil {
			return fmt.Errorf("new rpc server: %w", err)
		}
		lis, err := net.Listen("tcp", cfg.RPC.Address.String())
		if err != nil {
			return fmt.Errorf("listen rpc: %w", err)
		}
		rs.Start()
		// stops after HTTP and before the executor
		defer rs.Stop()
		go func() {
			logger.Infof("RPC server has started: %s", cfg.RPC.Address)
			if err := rs.Serve(lis); err != nil {
				logger.Errorf("rpc server failed: %s", err)
			}
		}()
	}

	// Graceful shutdown.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT,
			syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
		defer signal.Stop(sig)

		s := <-sig

		logger.With(context.Background(), "signal", s.String()).
			Infof("Shutting down server with %s timeout", cfg.Server.ShutdownTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := hs.Shutdown(ctx); err != nil {
			logger.Errorf("graceful shutdown failed: %s", err)
		}
	}()

	logger.Infof("Server has started: %s", cfg.Server.RunAddress)
	logger.Infof("Return address: %s", cfg.Server.ReturnAddress)
	switch cfg.TLSEnabled {
	case true:
		cm := &autocert.Manager{
			Cache:  autocert.DirCache("cache/certs"),
			Prompt: autocert.AcceptTOS,
		}
		hs.TLSConfig = cm.TLSConfig()
		logger.Info("The server is running over the SSL protocol")
		err = hs.ListenAndServeTLS("", "")
	default:
		err = hs.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run server failed: %w", err)
	}

	<-shutdownDone
	logger.Info("Server stopped")

	return nil
}

func printBuildInfo() {
	if buildVersion == "" {
		fmt.Println("Build version: N/A")
	} else {
		fmt.Printf("Build version: %s\n", buildVersion)
	}
	if buildDate == "" {
		fmt.Println("Build date: N/A")
	} else {
		fmt.Printf("Build date: %s\n", buildDate)
	}
	if buildCommit == "" {
		fmt.Println("Build commit: N/A")
	} else {
		fmt.Printf("Build commit: %s\n", buildCommit)
	}
}
