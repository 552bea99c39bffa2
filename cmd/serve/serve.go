// Package serve runs the HTTP API
package serve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/upi-ledger/cmd/root"
	"fjacquet/upi-ledger/internal/api"
	"fjacquet/upi-ledger/internal/container"
	"fjacquet/upi-ledger/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the statement upload API",
	Long: `Serve the HTTP API: statement uploads, single-description classification,
the LLM on/off switch and Prometheus metrics.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
}

// NewApp builds the fiber application from the container.
func NewApp(c *container.Container) *fiber.App {
	cfg := c.GetConfig()
	handler := api.NewHandler(
		c.GetIngestService(),
		c.GetCategorizer(),
		c.GetLLMSwitch(),
		c.GetMetrics(),
		api.Options{
			MaxFileSize:  cfg.Upload.MaxFileSize,
			LLMAvailable: c.LLMAvailable(),
			Version:      root.Version,
		},
		c.GetLogger(),
	)
	return handler.NewApp()
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	listen := addr
	if listen == "" {
		listen = c.GetConfig().Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, NewApp(c), listen, c.GetLogger())
}

// Run serves app on listen until ctx is cancelled, then shuts it down.
func Run(ctx context.Context, app *fiber.App, listen string, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", logging.Field{Key: "addr", Value: listen})
		errCh <- app.Listen(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
