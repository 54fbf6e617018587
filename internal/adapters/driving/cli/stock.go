package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

var (
	stockJSON   bool
	stockLow    bool
	stockReason string
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Check and adjust ingredient stock",
	RunE:  runStockList,
}

var stockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stock levels",
	RunE:  runStockList,
}

var stockAdjustCmd = &cobra.Command{
	Use:   "adjust <item> <delta>",
	Short: "Add to or take from a stock item",
	Long: `Add to or take from a stock item. Use a negative delta for usage or
waste, for example:

  bistro stock adjust s-beef -- -1.5`,
	Args: cobra.ExactArgs(2),
	RunE: runStockAdjust,
}

func init() {
	stockCmd.PersistentFlags().BoolVar(&stockJSON, "json", false, "output as JSON")
	stockListCmd.Flags().BoolVar(&stockLow, "low", false, "only items at or below their reorder level")
	stockAdjustCmd.Flags().StringVar(&stockReason, "reason", "count", "reason recorded with the adjustment")

	stockCmd.AddCommand(stockListCmd, stockAdjustCmd)
	rootCmd.AddCommand(stockCmd)
}

func runStockList(cmd *cobra.Command, _ []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	var items []domain.StockItem
	if stockLow {
		items, err = s.Stock.Low(cmd.Context())
	} else {
		items, err = s.Stock.List(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to list stock: %w", err)
	}
	if stockJSON {
		return printJSON(cmd, items)
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No stock items.")
		return nil
	}
	for _, it := range items {
		low := ""
		if it.IsLow() {
			low = "  LOW"
		}
		fmt.Fprintf(out, "%-10s %-12s %8s %-6s reorder at %s%s\n",
			it.ID, it.Name, formatQuantity(it.Quantity), it.Unit, formatQuantity(it.ReorderLevel), low)
	}
	return nil
}

func runStockAdjust(cmd *cobra.Command, args []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	delta, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%w: delta %q is not a number", domain.ErrInvalidInput, args[1])
	}
	item, err := s.Stock.Adjust(cmd.Context(), domain.StockAdjustment{
		ItemID: args[0],
		Delta:  delta,
		Reason: stockReason,
	})
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if stockJSON {
		return printJSON(cmd, item)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now %s %s\n", item.Name, formatQuantity(item.Quantity), item.Unit)
	return nil
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
