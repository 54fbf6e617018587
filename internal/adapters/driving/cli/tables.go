package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

var (
	tablesJSON bool
	openGuests int
	openServer string
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage tables on the floor",
	RunE:  runTablesList,
}

var tablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tables with their open orders",
	RunE:  runTablesList,
}

var tablesOpenCmd = &cobra.Command{
	Use:   "open <table>",
	Short: "Seat a party at a free or reserved table",
	Args:  cobra.ExactArgs(1),
	RunE:  runTablesOpen,
}

var tablesReserveCmd = &cobra.Command{
	Use:   "reserve <table>",
	Short: "Hold a free table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tableTransition(cmd, args[0], "reserved", func(s *Services) tableOp { return s.Floor.Reserve })
	},
}

var tablesCloseCmd = &cobra.Command{
	Use:   "close <table>",
	Short: "Close an occupied table once its orders are paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tableTransition(cmd, args[0], "closed", func(s *Services) tableOp { return s.Floor.Close })
	},
}

var tablesCleanCmd = &cobra.Command{
	Use:   "clean <table>",
	Short: "Mark a table clean and free",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tableTransition(cmd, args[0], "is free", func(s *Services) tableOp { return s.Floor.MarkClean })
	},
}

func init() {
	tablesCmd.PersistentFlags().BoolVar(&tablesJSON, "json", false, "output as JSON")
	tablesOpenCmd.Flags().IntVarP(&openGuests, "guests", "g", 2, "number of guests")
	tablesOpenCmd.Flags().StringVarP(&openServer, "server", "s", "", "server looking after the table")

	tablesCmd.AddCommand(tablesListCmd, tablesOpenCmd, tablesReserveCmd, tablesCloseCmd, tablesCleanCmd)
	rootCmd.AddCommand(tablesCmd)
}

func runTablesList(cmd *cobra.Command, _ []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	ov, err := s.Floor.Overview(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load floor: %w", err)
	}
	if tablesJSON {
		return printJSON(cmd, ov)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d covers, %d free, %d occupied, open %s\n\n",
		ov.Covers(),
		ov.CountByStatus(domain.TableFree),
		ov.CountByStatus(domain.TableOccupied),
		domain.FormatCents(ov.OpenTotalCents()),
	)
	now := time.Now()
	for _, sum := range ov.Tables {
		t := sum.Table
		line := fmt.Sprintf("%-4s %-9s %d/%d", t.Label(), t.Status, t.Guests, t.Seats)
		if t.Status == domain.TableOccupied {
			line += fmt.Sprintf("  %3dm", int(t.SeatedFor(now).Minutes()))
			if t.Server != "" {
				line += "  " + t.Server
			}
		}
		if len(sum.Orders) > 0 {
			line += fmt.Sprintf("  %d open, %s", len(sum.Orders), domain.FormatCents(sum.OpenTotalCents()))
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runTablesOpen(cmd *cobra.Command, args []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	t, err := s.Floor.Open(cmd.Context(), domain.OpenTable{
		TableID: tableID(args[0]),
		Guests:  openGuests,
		Server:  openServer,
	})
	if err != nil {
		return fmt.Errorf("failed to open table: %w", err)
	}
	if tablesJSON {
		return printJSON(cmd, t)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s seated, %d guests\n", t.Label(), t.Guests)
	return nil
}

type tableOp = func(ctx context.Context, id string) (*domain.Table, error)

func tableTransition(cmd *cobra.Command, arg, verb string, pick func(*Services) tableOp) error {
	s, err := current()
	if err != nil {
		return err
	}

	t, err := pick(s)(cmd.Context(), tableID(arg))
	if err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}
	if tablesJSON {
		return printJSON(cmd, t)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", t.Label(), verb)
	return nil
}
