package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server exposes the floor, orders, menu and stock of one restaurant to
// MCP clients. It is read-only: nothing here changes backend state.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "bistro",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: instructions(ports),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("mcp: serving bistro over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("mcp: serving bistro on http://%s", addr)

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// instructions tells the client what the tools and resources are for, and
// which of them return nothing because their service is not wired.
func instructions(p *Ports) string {
	var b strings.Builder
	b.WriteString("Read-only view of a restaurant's floor. ")
	b.WriteString("Use list_tables to see which tables are free, occupied or reserved and who is serving them. ")
	b.WriteString("Use list_orders for the orders of a table (table_id) or only open ones (open_only). ")
	b.WriteString("Use low_stock before suggesting dishes to find ingredients at or below their reorder level. ")
	b.WriteString("Read " + uriScheme + "menu for prices and availability by category, and " +
		uriScheme + "tables/{tableId} for one table with its open orders.")

	var missing []string
	if p.Orders == nil {
		missing = append(missing, "list_orders")
	}
	if p.Stock == nil {
		missing = append(missing, "low_stock")
	}
	if p.Menu == nil {
		missing = append(missing, uriScheme+"menu")
	}
	if len(missing) > 0 {
		b.WriteString(" Not configured on this server, always empty: " + strings.Join(missing, ", ") + ".")
	}
	return b.String()
}
