// Package handlers provides gRPC and HTTP server implementations for
// serving the CounterpartyService, bridging the transport layer and business
// logic, translating between protobuf messages and domain models.
package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gartstein/counterparty/internal/counterparty/auth"
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// CounterpartyController defines the business logic interface
// that the gRPC/HTTP handlers will invoke.
type CounterpartyController interface {
	OpenSession(ctx context.Context) (*models.Session, error)
	CloseSession(ctx context.Context, id uuid.UUID) error
	Load(ctx context.Context, id uuid.UUID, records []models.Counterparty) (int, error)
	LoadDemo(ctx context.Context, id uuid.UUID) (int, error)
	Filter(ctx context.Context, id uuid.UUID, query string) (*models.FilterResult, error)
	Invite(ctx context.Context, id uuid.UUID, counterpartyID string) (*models.Counterparty, *models.Notice, error)
	CountByStatus(ctx context.Context, id uuid.UUID, status models.Status) (int, error)
	Summary(ctx context.Context, id uuid.UUID) (*models.Summary, error)
	AcknowledgeFile(ctx context.Context, id uuid.UUID, fileName string) (*models.Notice, error)
	SaveSearch(ctx context.Context, id uuid.UUID, query string) ([]string, error)
	SearchHistory(ctx context.Context, id uuid.UUID) ([]string, error)
	StatusLabel(status models.Status) string
}

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string

	grpcListener net.Listener
	httpListener net.Listener
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
// A zero port picks a free one when listening.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	return &Server{
		grpcServer:   grpc.NewServer(grpcOpts...),
		httpServer:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		logger:       logger,
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterGRPCHandler registers the gRPC handler for the CounterpartyService.
func (s *Server) RegisterGRPCHandler(h *CounterpartyHandler) {
	s.grpcServer.RegisterService(&ServiceDesc, h)
}

// RegisterHTTPGateway exposes h as JSON over HTTP on a grpc-gateway mux,
// guarded by the session token middleware.
func (s *Server) RegisterHTTPGateway(h *CounterpartyHandler, jwtSecret string) error {
	mux := runtime.NewServeMux()
	if err := newGateway(mux, h).register(); err != nil {
		return err
	}

	s.httpServer.Handler = auth.HTTPMiddleware(mux, jwtSecret)
	s.httpServer.Addr = s.httpEndpoint
	return nil
}

// Listen binds both endpoints. Start calls it when it has not been called yet.
func (s *Server) Listen() error {
	if s.grpcListener == nil {
		lis, err := net.Listen("tcp", s.grpcEndpoint)
		if err != nil {
			return fmt.Errorf("gRPC listen error: %w", err)
		}
		s.grpcListener = lis
	}
	if s.httpListener == nil {
		lis, err := net.Listen("tcp", s.httpEndpoint)
		if err != nil {
			return fmt.Errorf("HTTP listen error: %w", err)
		}
		s.httpListener = lis
	}
	return nil
}

// GRPCAddr returns the bound gRPC address, or the configured endpoint before Listen.
func (s *Server) GRPCAddr() string {
	if s.grpcListener != nil {
		return s.grpcListener.Addr().String()
	}
	return s.grpcEndpoint
}

// HTTPAddr returns the bound HTTP address, or the configured endpoint before Listen.
func (s *Server) HTTPAddr() string {
	if s.httpListener != nil {
		return s.httpListener.Addr().String()
	}
	return s.httpEndpoint
}

// Start runs the gRPC and HTTP servers concurrently, returning on the first error.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	// Start gRPC Server
	go func() {
		defer wg.Done()
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.GRPCAddr()))
		if err := s.grpcServer.Serve(s.grpcListener); err != nil {
			errChan <- fmt.Errorf("gRPC serve error: %w", err)
		}
	}()

	// Start HTTP Server
	go func() {
		defer wg.Done()
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.HTTPAddr()))
		if err := s.httpServer.Serve(s.httpListener); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down both gRPC and HTTP servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Servers stopped")
}
