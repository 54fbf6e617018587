package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Bistro resources.
	uriScheme = "bistro://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "menu",
		Name:        "menu",
		Description: "The menu grouped by category, with prices and availability",
		MIMEType:    "application/json",
	}, s.handleMenuResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tables/{tableId}",
		Name:        "table",
		Description: "A table with its open orders",
		MIMEType:    "application/json",
	}, s.handleTableResource)
}

// handleMenuResource returns the menu grouped by category.
func (s *Server) handleMenuResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Menu == nil {
		return jsonResult(req.Params.URI, map[string]any{})
	}

	items, err := s.ports.Menu.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menu: %w", err)
	}

	type dish struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Price     string `json:"price"`
		Available bool   `json:"available"`
	}

	byCategory := make(map[string][]dish)
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], dish{
			ID:        it.ID,
			Name:      it.Name,
			Price:     domain.FormatCents(it.PriceCents),
			Available: it.Available,
		})
	}
	return jsonResult(req.Params.URI, byCategory)
}

// handleTableResource returns one table and its open orders.
func (s *Server) handleTableResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tableID := extractTableID(req.Params.URI)
	if tableID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tables, err := s.ports.Floor.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	var table *domain.Table
	for i := range tables {
		if tables[i].ID == tableID {
			table = &tables[i]
			break
		}
	}
	if table == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type orderInfo struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Items  int    `json:"items"`
		Total  string `json:"total"`
	}
	info := struct {
		ID     string      `json:"id"`
		Label  string      `json:"label"`
		Seats  int         `json:"seats"`
		Status string      `json:"status"`
		Guests int         `json:"guests"`
		Server string      `json:"server,omitempty"`
		Orders []orderInfo `json:"orders"`
	}{
		ID:     table.ID,
		Label:  table.Label(),
		Seats:  table.Seats,
		Status: string(table.Status),
		Guests: table.Guests,
		Server: table.Server,
		Orders: []orderInfo{},
	}

	if s.ports.Orders != nil {
		orders, err := s.ports.Orders.List(ctx, domain.OrderFilter{TableID: tableID, OpenOnly: true})
		if err != nil {
			return nil, fmt.Errorf("listing orders: %w", err)
		}
		for _, o := range orders {
			info.Orders = append(info.Orders, orderInfo{
				ID:     o.ID,
				Status: string(o.Status),
				Items:  o.ItemCount(),
				Total:  domain.FormatCents(o.TotalCents()),
			})
		}
	}

	return jsonResult(req.Params.URI, info)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTableID extracts the table ID from a URI like bistro://tables/{tableId}.
func extractTableID(uri string) string {
	const prefix = uriScheme + "tables/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
