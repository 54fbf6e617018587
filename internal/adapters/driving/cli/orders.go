package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

var (
	ordersJSON  bool
	ordersAll   bool
	ordersTable string
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Follow orders through the kitchen",
	RunE:  runOrdersList,
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open orders, oldest first",
	RunE:  runOrdersList,
}

var ordersPlaceCmd = &cobra.Command{
	Use:   "place <table> <item>[:qty[:note]]...",
	Short: "Place an order at an occupied table",
	Long: `Place an order at an occupied table. Each item is a menu item ID,
optionally followed by a quantity and a note:

  bistro orders place t3 m-steak:2 m-duck:1:no-salt`,
	Args: cobra.MinimumNArgs(2),
	RunE: runOrdersPlace,
}

var ordersAdvanceCmd = &cobra.Command{
	Use:   "advance <order>",
	Short: "Move an order to its next status",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersAdvance,
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel <order>",
	Short: "Cancel an order the kitchen has not finished",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersCancel,
}

func init() {
	ordersCmd.PersistentFlags().BoolVar(&ordersJSON, "json", false, "output as JSON")
	ordersListCmd.Flags().BoolVarP(&ordersAll, "all", "a", false, "include paid and cancelled orders")
	ordersListCmd.Flags().StringVarP(&ordersTable, "table", "t", "", "only orders for this table")

	ordersCmd.AddCommand(ordersListCmd, ordersPlaceCmd, ordersAdvanceCmd, ordersCancelCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runOrdersList(cmd *cobra.Command, _ []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	filter := domain.OrderFilter{OpenOnly: !ordersAll}
	if ordersTable != "" {
		filter.TableID = tableID(ordersTable)
	}
	list, err := s.Orders.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	if ordersJSON {
		return printJSON(cmd, list)
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No orders.")
		return nil
	}
	now := time.Now()
	for _, o := range list {
		fmt.Fprintf(out, "%-8s %-4s %-10s %3dm %8s  %s\n",
			o.ID, strings.ToUpper(o.TableID), o.Status,
			int(o.Age(now).Minutes()), domain.FormatCents(o.TotalCents()),
			itemSummary(o.Items))
	}
	return nil
}

func runOrdersPlace(cmd *cobra.Command, args []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	req := domain.NewOrder{TableID: tableID(args[0])}
	for _, arg := range args[1:] {
		item, err := parseOrderItem(arg)
		if err != nil {
			return err
		}
		req.Items = append(req.Items, item)
	}

	o, err := s.Orders.Place(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	if ordersJSON {
		return printJSON(cmd, o)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s placed for %s: %s (%s)\n",
		o.ID, strings.ToUpper(o.TableID), itemSummary(o.Items), domain.FormatCents(o.TotalCents()))
	return nil
}

// parseOrderItem parses "id", "id:qty" or "id:qty:note".
func parseOrderItem(arg string) (domain.NewOrderItem, error) {
	parts := strings.SplitN(arg, ":", 3)
	item := domain.NewOrderItem{MenuItemID: parts[0], Quantity: 1}
	if item.MenuItemID == "" {
		return item, fmt.Errorf("%w: empty menu item in %q", domain.ErrInvalidInput, arg)
	}
	if len(parts) > 1 && parts[1] != "" {
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			return item, fmt.Errorf("%w: quantity in %q must be a positive number", domain.ErrInvalidInput, arg)
		}
		item.Quantity = n
	}
	if len(parts) > 2 {
		item.Note = parts[2]
	}
	return item, nil
}

func runOrdersAdvance(cmd *cobra.Command, args []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	o, err := s.Orders.Advance(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to advance order: %w", err)
	}
	if ordersJSON {
		return printJSON(cmd, o)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", o.ID, o.Status)
	return nil
}

func runOrdersCancel(cmd *cobra.Command, args []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	o, err := s.Orders.Cancel(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if ordersJSON {
		return printJSON(cmd, o)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s cancelled\n", o.ID)
	return nil
}
