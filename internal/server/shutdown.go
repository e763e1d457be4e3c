package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Serve runs srv until it is shut down. A clean shutdown is not an error.
func Serve(srv *http.Server, logger *zap.Logger) error {
	logger.Info("Listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// GracefulShutdown waits for ctx to end and then shuts down every server
// given, in order.
func GracefulShutdown(ctx context.Context, logger *zap.Logger, servers ...*http.Server) error {
	<-ctx.Done()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", zap.String("addr", srv.Addr), zap.Error(err))
			errs = append(errs, err)
		}
	}

	logger.Info("Server exiting")
	return errors.Join(errs...)
}
