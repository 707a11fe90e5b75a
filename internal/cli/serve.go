package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hiringMetrics/internal/db"
	grpcserver "hiringMetrics/internal/grpc"
	"hiringMetrics/internal/httpapi"
	"hiringMetrics/internal/loader"
	"hiringMetrics/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP (and optional gRPC) server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd.OutOrStdout())

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Printf("Configuration loaded: %v", cfg)

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Printf("close db: %v", err)
		}
	}()

	svc := service.NewHiringService(d, service.Options{
		Loader: loader.Options{
			BatchSize:        cfg.Loader.BatchSize,
			StatementTimeout: cfg.Loader.StatementTimeout,
			Logger:           loaderLogger(cmd, logger),
		},
		TempDir: cfg.HTTP.TempDir,
	}, logger)

	handler := httpapi.NewHandler(svc, logger, cfg.HTTP.UploadMaxBytes)
	server := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           httpapi.Logging(logger, httpapi.CORS(cfg.HTTP.CORSAllowedOrigin, handler.Routes())),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var stopGRPC func(context.Context) error
	if cfg.GRPC.Address != "" {
		stopGRPC, err = grpcserver.StartGRPC(cfg, svc, logger)
		if err != nil {
			return fmt.Errorf("start grpc: %w", err)
		}
		logger.Printf("gRPC server listening on %s", cfg.GRPC.Address)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Printf("HTTP server listening on %s", cfg.HTTP.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	var runErr error
	select {
	case <-sigc:
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("http shutdown error: %v", err)
	}
	if stopGRPC != nil {
		if err := stopGRPC(ctx); err != nil {
			logger.Printf("grpc shutdown error: %v", err)
		}
	}
	return runErr
}
