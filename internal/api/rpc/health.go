// Package rpc serves the gRPC health checking protocol
// backed by periodic store probes.
package rpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/KretovDmitry/goalias/internal/config"
	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/KretovDmitry/goalias/internal/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceName is the name the alias service reports its health under.
const ServiceName = "goalias"

const defaultProbeInterval = 10 * time.Second

// Prober checks the store.
type Prober interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// HealthServer is a gRPC server exposing the standard health service.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	prober Prober
	logger logger.Logger

	interval time.Duration
	// serving is the last reported status, owned by the probe loop.
	serving bool

	// done is closed by Stop to end the probe loop.
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewHealthServer registers the health and reflection services,
// ensuring that the dependencies are valid values.
// Every service starts as NOT_SERVING until the first probe succeeds.
func NewHealthServer(prober Prober, config *config.Config, logger logger.Logger) (*HealthServer, error) {
	if prober == nil {
		return nil, fmt.Errorf("%w: prober", errs.ErrNilDependency)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: config", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	loggingOpts := []logging.Option{
		logging.WithLogOnEvents(logging.FinishCall),
	}
	recoveryOpts := []recovery.Option{
		recovery.WithRecoveryHandler(func(p any) error {
			logger.Errorf("recovered from panic: %v", p)
			return status.Errorf(codes.Internal, "internal error")
		}),
	}

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoveryOpts...),
			logging.UnaryServerInterceptor(InterceptorLogger(logger), loggingOpts...),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpts...),
			logging.StreamServerInterceptor(InterceptorLogger(logger), loggingOpts...),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	interval := config.RPC.ProbeInterval
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	return &HealthServer{
		server:   server,
		health:   hs,
		prober:   prober,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the probe loop. It must be called before Stop,
// calling it again is a no-op.
func (s *HealthServer) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.probeLoop()
		}()
	})
}

// Serve accepts connections on lis. It blocks until Stop is called
// or the listener fails.
func (s *HealthServer) Serve(lis net.Listener) error {
	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("serve rpc: %w", err)
	}
	return nil
}

// Stop reports NOT_SERVING to watchers, stops the probes and
// gracefully stops the server. It is safe to call more than once.
func (s *HealthServer) Stop() {
	s.stopOnce.Do(func() {
		s.health.Shutdown()
		close(s.done)
		s.wg.Wait()
		s.server.GracefulStop()
	})
}

func (s *HealthServer) probeLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.probe()

		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}

// probe pings the store and updates the serving status.
func (s *HealthServer) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if err := s.prober.Ping(ctx); err != nil {
		if s.serving {
			s.logger.Warnf("store probe failed, reporting NOT_SERVING: %s", err)
		}
		s.setServing(false)
		return
	}

	if !s.serving {
		n, err := s.prober.Count(ctx)
		if err != nil {
			s.logger.Warnf("count aliases: %s", err)
		}
		s.logger.Infof("store is available with %d aliases, reporting SERVING", n)
	}
	s.setServing(true)
}

func (s *HealthServer) setServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.serving = ok
	// after Shutdown the health server ignores updates
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// InterceptorLogger adapts the application logger to the interceptors.
func InterceptorLogger(l logger.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		log := l.With(ctx, fields...)

		switch lvl {
		case logging.LevelDebug:
			log.Debug(msg)
		case logging.LevelInfo:
			log.Info(msg)
		case logging.LevelWarn:
			log.Warn(msg)
		case logging.LevelError:
			log.Error(msg)
		default:
			log.Errorf("unknown level %v: %s", lvl, msg)
		}
	})
}
