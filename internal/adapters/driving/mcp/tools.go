package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// ListTablesInput is the input schema for the list_tables tool.
type ListTablesInput struct {
	Status string `json:"status,omitempty" jsonschema:"only return tables in this status: free, occupied, reserved or cleaning"`
}

// TableOutput is one table in a tool result.
type TableOutput struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Seats  int    `json:"seats"`
	Status string `json:"status"`
	Guests int    `json:"guests,omitempty"`
	Server string `json:"server,omitempty"`
}

// ListTablesOutput is the output schema for the list_tables tool.
type ListTablesOutput struct {
	Tables []TableOutput `json:"tables"`
	Count  int           `json:"count"`
}

// ListOrdersInput is the input schema for the list_orders tool.
type ListOrdersInput struct {
	TableID  string `json:"table_id,omitempty" jsonschema:"only return orders for this table"`
	OpenOnly bool   `json:"open_only,omitempty" jsonschema:"skip paid and cancelled orders"`
}

// OrderOutput is one order in a tool result.
type OrderOutput struct {
	ID      string   `json:"id"`
	TableID string   `json:"table_id"`
	Status  string   `json:"status"`
	Items   []string `json:"items"`
	Total   string   `json:"total"`
}

// ListOrdersOutput is the output schema for the list_orders tool.
type ListOrdersOutput struct {
	Orders []OrderOutput `json:"orders"`
	Count  int           `json:"count"`
}

// LowStockInput is the input schema for the low_stock tool.
type LowStockInput struct{}

// StockOutput is one stock item in a tool result.
type StockOutput struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	ReorderLevel float64 `json:"reorder_level"`
	Unit         string  `json:"unit"`
}

// LowStockOutput is the output schema for the low_stock tool.
type LowStockOutput struct {
	Items []StockOutput `json:"items"`
	Count int           `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_tables",
		Description: "List restaurant tables with their status and seated party",
	}, s.handleListTables)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_orders",
		Description: "List orders, optionally for one table or only open ones",
	}, s.handleListOrders)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "low_stock",
		Description: "List stock items at or below their reorder level",
	}, s.handleLowStock)
}

func (s *Server) handleListTables(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListTablesInput,
) (*mcp.CallToolResult, ListTablesOutput, error) {
	status := domain.TableStatus(input.Status)
	if input.Status != "" && !status.IsValid() {
		return nil, ListTablesOutput{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}

	tables, err := s.ports.Floor.Tables(ctx)
	if err != nil {
		return nil, ListTablesOutput{}, err
	}

	output := ListTablesOutput{Tables: make([]TableOutput, 0, len(tables))}
	for _, t := range tables {
		if input.Status != "" && t.Status != status {
			continue
		}
		output.Tables = append(output.Tables, TableOutput{
			ID:     t.ID,
			Label:  t.Label(),
			Seats:  t.Seats,
			Status: string(t.Status),
			Guests: t.Guests,
			Server: t.Server,
		})
	}
	output.Count = len(output.Tables)
	return nil, output, nil
}

func (s *Server) handleListOrders(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListOrdersInput,
) (*mcp.CallToolResult, ListOrdersOutput, error) {
	output := ListOrdersOutput{Orders: []OrderOutput{}}
	if s.ports.Orders == nil {
		return nil, output, nil
	}

	orders, err := s.ports.Orders.List(ctx, domain.OrderFilter{TableID: input.TableID, OpenOnly: input.OpenOnly})
	if err != nil {
		return nil, ListOrdersOutput{}, err
	}

	for _, o := range orders {
		items := make([]string, len(o.Items))
		for i, it := range o.Items {
			items[i] = fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		}
		output.Orders = append(output.Orders, OrderOutput{
			ID:      o.ID,
			TableID: o.TableID,
			Status:  string(o.Status),
			Items:   items,
			Total:   domain.FormatCents(o.TotalCents()),
		})
	}
	output.Count = len(output.Orders)
	return nil, output, nil
}

func (s *Server) handleLowStock(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ LowStockInput,
) (*mcp.CallToolResult, LowStockOutput, error) {
	output := LowStockOutput{Items: []StockOutput{}}
	if s.ports.Stock == nil {
		return nil, output, nil
	}

	items, err := s.ports.Stock.Low(ctx)
	if err != nil {
		return nil, LowStockOutput{}, err
	}
	for _, it := range items {
		output.Items = append(output.Items, StockOutput{
			ID:           it.ID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			ReorderLevel: it.ReorderLevel,
			Unit:         it.Unit,
		})
	}
	output.Count = len(output.Items)
	return nil, output, nil
}
