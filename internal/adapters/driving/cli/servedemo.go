package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/services"
	"github.com/custodia-labs/bistro-cli/internal/logger"
)

var (
	serveAddr    string
	serveToken   string
	serveLatency time.Duration
	serveRPS     float64
	serveBurst   int
	serveFind    bool
)

// portSearchRange is how far past the requested port --find-port looks.
const portSearchRange = 20

var serveDemoCmd = &cobra.Command{
	Use:   "serve-demo",
	Short: "Serve the demo restaurant over HTTP",
	Long: `Serve the built-in demo restaurant over the same REST API the client
speaks. Point another bistro at it with:

  bistro --backend http://localhost:8420 tui

Use --latency to make slow requests visible in the TUI.`,
	Annotations: map[string]string{skipServices: "true"},
	RunE:        runServeDemo,
}

func init() {
	serveDemoCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8420", "listen address")
	serveDemoCmd.Flags().StringVar(&serveToken, "token", "", "require this bearer token")
	serveDemoCmd.Flags().DurationVar(&serveLatency, "latency", 0, "delay added to every request")
	serveDemoCmd.Flags().Float64Var(&serveRPS, "rps", 0, "server-side request limit per second (0 = none)")
	serveDemoCmd.Flags().IntVar(&serveBurst, "burst", domain.DefaultBurst, "server-side burst size")
	serveDemoCmd.Flags().BoolVar(&serveFind, "find-port", false, "use the next free port if the one in --addr is taken")
	rootCmd.AddCommand(serveDemoCmd)
}

func runServeDemo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	addr := serveAddr
	if serveFind {
		a, err := nextFreeAddr(serveAddr)
		if err != nil {
			return err
		}
		addr = a
	}

	backend := memory.NewDemoBackend(memory.WithLatency(serveLatency))
	var opts []httpapi.Option
	if serveToken != "" {
		opts = append(opts, httpapi.WithToken(serveToken))
	}
	if serveRPS > 0 {
		opts = append(opts, httpapi.WithRateLimit(serveRPS, serveBurst))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(backend, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Demo restaurant listening on http://%s\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down demo server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// nextFreeAddr keeps the host of addr and swaps in the first free port at or
// after the requested one.
func nextFreeAddr(addr string) (string, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("%w: listen address %q", domain.ErrInvalidInput, addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", fmt.Errorf("%w: port in %q", domain.ErrInvalidInput, addr)
	}
	free, err := services.FindAvailablePort(host, port, port+portSearchRange)
	if err != nil {
		return "", err
	}
	if free != port {
		logger.Info("port %d is taken, using %d", port, free)
	}
	return net.JoinHostPort(host, strconv.Itoa(free)), nil
}
