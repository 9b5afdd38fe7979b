package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gomoscap/internal/api"
	"github.com/alexiusacademia/gomoscap/internal/version"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine over HTTP",
	Long: `Start an HTTP server exposing the engine as a JSON API.

Endpoints:
  GET  /health
  POST /api/structure/analyze   body: stack definition
  POST /api/structure/bias      body: {"stack": ..., "bias_v": 1.0}
  POST /api/structure/profile   body: {"stack": ..., "bias_v": 1.0, "kind": "energy"}
  POST /api/sweep               body: {"stack": ..., "start_v": -2, "stop_v": 2, "step_v": 0.1}

Responses are MessagePack when the request accepts application/msgpack.

Examples:
  gomoscap serve --addr :9000
  gomoscap serve --config gomoscap.yaml --log-format json`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddress, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}
	e := api.NewServer(cfg, version.String(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "address", cfg.Server.Address, "version", version.Version)
		if err := e.Start(cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
