// Package server wires the chart runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/louisbranch/ziwei/internal/platform/config"
	"github.com/louisbranch/ziwei/internal/services/chart/account"
	chartservice "github.com/louisbranch/ziwei/internal/services/chart/api/grpc/chart"
	"github.com/louisbranch/ziwei/internal/services/chart/narrative"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
	chartsqlite "github.com/louisbranch/ziwei/internal/services/chart/storage/sqlite"
)

type serverEnv struct {
	DBPath string `env:"CHART_DB_PATH"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "chart.db")
	}
	return cfg
}

// Server hosts the chart and account gRPC APIs and their storage.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *chartsqlite.Store
}

// New creates a configured chart server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured chart server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	tokenConfig, err := account.LoadTokenConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load token config: %w", err)
	}
	tokens, err := account.NewTokens(tokenConfig)
	if err != nil {
		return nil, err
	}
	narrativeConfig, err := narrative.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load narrative config: %w", err)
	}
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	narrator, err := narrative.New(context.Background(), narrativeConfig, renderer)
	if err != nil {
		return nil, err
	}
	if _, disabled := narrator.(narrative.Disabled); disabled {
		log.Printf("chart interpretation disabled: %sGEMINI_API_KEY is not set", config.EnvPrefix)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	env := loadServerEnv()
	store, err := openChartStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	accounts := account.NewService(store, tokens)
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(chartservice.AuthInterceptor(accounts)),
	)
	healthServer := health.NewServer()
	chartservice.RegisterChartServer(grpcServer, chartservice.NewService(store, renderer, narrator))
	chartservice.RegisterAccountServer(grpcServer, chartservice.NewAccountService(accounts))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(chartservice.ChartServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(chartservice.AccountServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a chart server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("chart server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases chart server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close chart store: %v", err)
		}
	}
}

func openChartStore(path string) (*chartsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := chartsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chart sqlite store: %w", err)
	}
	return store, nil
}
