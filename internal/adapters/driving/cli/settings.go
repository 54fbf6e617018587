package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bistro-cli/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the backend connection, polling interval and
client-side rate limit.

Settings are stored in config.toml in the config directory. A running TUI
picks up a new polling interval as soon as the file is saved.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a single setting",
	Long: `Set a single setting. Run "bistro settings keys" for the list.

When setting backend.token without a value, the token is read from the
terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settings keys",
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the backend connection step by step.`,
	RunE:  runSettingsWizard,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the backend is reachable",
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	settings, err := s.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", settings.Backend.URL)
	if settings.Backend.Token != "" {
		cmd.Printf("  Token: %s\n", maskToken(settings.Backend.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Printf("  Timeout: %s\n", settings.Backend.Timeout)
	cmd.Println()

	cmd.Println("[Polling]")
	cmd.Printf("  Interval: %s\n", settings.Polling.Interval)
	cmd.Println()

	cmd.Println("[Rate limit]")
	cmd.Printf("  Requests per second: %s\n", strconv.FormatFloat(settings.RateLimit.RequestsPerSecond, 'f', -1, 64))
	cmd.Printf("  Burst: %d\n", settings.RateLimit.Burst)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == services.KeyBackendToken:
		cmd.Print("Token: ")
		in := cmd.InOrStdin()
		value = readSecret(in, bufio.NewReader(in))
		cmd.Println()
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := s.Settings.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if key == services.KeyBackendToken {
		cmd.Printf("%s updated\n", key)
		return nil
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	s, err := current()
	if err != nil {
		return err
	}
	for _, k := range s.Settings.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	s, err := current()
	if err != nil {
		return err
	}

	settings, err := s.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)

	cmd.Println("Bistro Setup")
	cmd.Println("============")
	cmd.Println()

	cmd.Printf("Backend URL [%s]: ", settings.Backend.URL)
	if url := readLine(reader); url != "" {
		settings.Backend.URL = url
	}

	cmd.Print("API token (leave blank to keep): ")
	if token := readSecret(in, reader); token != "" {
		settings.Backend.Token = token
	}
	cmd.Println()

	cmd.Printf("Refresh every how many seconds [%d]: ", int(settings.Polling.Interval.Seconds()))
	if secs := parseChoice(readLine(reader), 3600, 0); secs > 0 {
		settings.Polling.Interval = time.Duration(secs) * time.Second
	}

	if err := s.Settings.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println()
	cmd.Println("Settings saved.")
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	s, err := current()
	if err != nil {
		return err
	}
	if err := s.Backend.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	cmd.Println("Backend OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo when in is an interactive terminal and
// falls back to a plain line from reader.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
