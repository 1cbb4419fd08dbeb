package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/witchfire-saves/internal/config"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/handlers/saveedit/v1alpha1"
)

const shutdownTimeout = 30 * time.Second

var (
	grpcPort int
	store    string
	envFiles []string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long: `Start the save editor gRPC server.

Settings come from WITCHFIRE_* environment variables and an optional .env
file. Flags override the environment.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().StringVar(&store, "store", config.StoreMemory, "session store (memory or redis)")
	serverCmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load instead of .env")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = grpcPort
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = store
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.close()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := newGRPCServer(application.handler, logger)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("gRPC server starting", "port", cfg.Port, "store", cfg.Store)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gRPC server")

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-time.After(shutdownTimeout):
			logger.Warn("graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			logger.Info("server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// newGRPCServer registers the save editor, health and reflection services
func newGRPCServer(handler v1alpha1.SaveEditorServer, logger *slog.Logger) *grpc.Server {
	recoveryOpt := grpc_recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		logger.ErrorContext(ctx, "recovered from panic", "panic", p)
		return errors.ToGRPCError(errors.Internal("internal error"))
	})

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(logger)),
			grpc_recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(logger)),
			grpc_recovery.StreamServerInterceptor(recoveryOpt),
		),
	)

	v1alpha1.RegisterSaveEditorServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	return srv
}

// interceptorLogger adapts slog to the middleware logger
func interceptorLogger(l *slog.Logger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(level), msg, fields...)
	})
}
