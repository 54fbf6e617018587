package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// tuiDemo runs the TUI against the built-in demo data.
var tuiDemo bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Bistro.

The visible view refreshes in the background. Leaving a view stops its
refresh; actions on a table, order, dish or stock item are refused while a
previous action on the same thing is still running.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select
  r        - Refresh now
  Esc      - Back
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiDemo, "demo", false, "use built-in demo data instead of a backend")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panicked: %v", r)
		}
	}()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the TUI needs an interactive terminal")
	}

	s, err := current()
	if err != nil {
		return err
	}

	if path, err := logPath(); err == nil {
		if restore, err := logger.OpenFile(path); err == nil {
			defer restore()
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ports := &tui.Ports{
		Floor:    s.Floor,
		Orders:   s.Orders,
		Menu:     s.Menu,
		Stock:    s.Stock,
		Settings: s.Settings,
	}
	opts := []tui.Option{tui.WithContext(ctx)}

	if s.ConfigPath != "" && s.Reload != nil {
		w, err := file.NewWatcher(s.ConfigPath)
		if err != nil {
			logger.Warn("config changes will not be picked up: %v", err)
		} else {
			defer func() { _ = w.Close() }()
			opts = append(opts, tui.WithConfigChanges(reloadOn(ctx, w.Changed(), s.Reload)))
		}
	}

	app, err := tui.NewApp(ports, opts...)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// reloadOn calls reload after every change and forwards the ones that
// loaded cleanly. The returned channel closes when ctx ends or changed
// closes.
func reloadOn(ctx context.Context, changed <-chan struct{}, reload func() error) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changed:
				if !ok {
					return
				}
				if err := reload(); err != nil {
					logger.Warn("config reload failed: %v", err)
					continue
				}
				logger.Debug("config reloaded")
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}
