package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

var menuJSON bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "View the menu and mark dishes sold out",
	RunE:  runMenuList,
}

var menuListCmd = &cobra.Command{
	Use:   "list",
	Short: "List menu items by category",
	RunE:  runMenuList,
}

var menuAvailabilityCmd = &cobra.Command{
	Use:   "availability <item> <available|sold-out>",
	Short: "Mark a menu item available or sold out",
	Args:  cobra.ExactArgs(2),
	RunE:  runMenuAvailability,
}

func init() {
	menuCmd.PersistentFlags().BoolVar(&menuJSON, "json", false, "output as JSON")
	menuCmd.AddCommand(menuListCmd, menuAvailabilityCmd)
	rootCmd.AddCommand(menuCmd)
}

func runMenuList(cmd *cobra.Command, _ []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	items, err := s.Menu.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list menu: %w", err)
	}
	if menuJSON {
		return printJSON(cmd, items)
	}

	out := cmd.OutOrStdout()
	category := ""
	for _, it := range items {
		if it.Category != category {
			if category != "" {
				fmt.Fprintln(out)
			}
			category = it.Category
			fmt.Fprintf(out, "[%s]\n", category)
		}
		state := ""
		if !it.Available {
			state = "  sold out"
		}
		fmt.Fprintf(out, "  %-10s %-24s %7s%s\n", it.ID, it.Name, domain.FormatCents(it.PriceCents), state)
	}
	return nil
}

func runMenuAvailability(cmd *cobra.Command, args []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	available, err := parseAvailability(args[1])
	if err != nil {
		return err
	}
	item, err := s.Menu.SetAvailability(cmd.Context(), args[0], available)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if menuJSON {
		return printJSON(cmd, item)
	}
	state := "available"
	if !item.Available {
		state = "sold out"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", item.Name, state)
	return nil
}

func parseAvailability(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "available", "on", "yes", "true":
		return true, nil
	case "sold-out", "soldout", "off", "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: availability must be available or sold-out, got %q", domain.ErrInvalidInput, arg)
	}
}
