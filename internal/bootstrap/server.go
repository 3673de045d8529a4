package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Domenick1991/airline-backoffice/api"
	"github.com/Domenick1991/airline-backoffice/config"
	bookingsapi "github.com/Domenick1991/airline-backoffice/internal/api/bookings_service_api"
	flightsapi "github.com/Domenick1991/airline-backoffice/internal/api/flights_service_api"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	grpcAddr   string
	log        logrus.FieldLogger
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or a
// server fails.
func Run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, services api.Services) error {
	s, err := NewServers(cfg, log, services)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

func NewServers(cfg *config.Config, log logrus.FieldLogger, services api.Services) (*Servers, error) {
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(log), recoveryInterceptor(log)))
	flightsapi.RegisterFlightsServiceServer(grpcSrv, flightsapi.NewServer(services.Flights))
	bookingsapi.RegisterBookingsServiceServer(grpcSrv, bookingsapi.NewServer(services.Bookings, services.Rewards))

	router, err := api.NewRouter(services, log, cfg.HTTP.SwaggerDir)
	if err != nil {
		return nil, fmt.Errorf("build http router: %w", err)
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpcAddr: cfg.GRPC.Address,
		log:      log,
	}, nil
}

func (s *Servers) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.grpcAddr)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", s.grpcAddr, err)
	}

	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("address", s.grpcAddr).Info("starting gRPC server")
		if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.log.WithField("address", s.httpServer.Addr).Info("starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Info("shutting down servers")
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info("shutdown complete")
	return nil
}

func loggingInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		entry := log.WithFields(logrus.Fields{
			"method":   info.FullMethod,
			"code":     status.Code(err).String(),
			"duration": time.Since(start),
		})
		if err != nil {
			entry.WithError(err).Warn("grpc request failed")
		} else {
			entry.Debug("grpc request")
		}
		return resp, err
	}
}

// recoveryInterceptor turns a handler panic into codes.Internal so the
// process keeps serving other calls.
func recoveryInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(logrus.Fields{
					"method": info.FullMethod,
					"panic":  r,
					"stack":  string(debug.Stack()),
				}).Error("grpc handler panicked")
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
