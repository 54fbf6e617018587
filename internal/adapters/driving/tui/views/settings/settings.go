// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// ErrNoSettings is shown when the app runs without a settings service.
var ErrNoSettings = errors.New("settings are not available")

// View shows the active settings and edits the polling interval in place.
// Backend changes apply on the next start, so they are read-only here.
type View struct {
	styles          *styles.Styles
	keys            *keymap.KeyMap
	settingsService driving.SettingsService

	// onInterval is called after a new interval was saved.
	onInterval func(time.Duration)

	prompt   *input.Prompt
	settings *domain.AppSettings

	err    error
	notice string
	width  int
	height int
}

// NewView creates a settings view. svc may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, svc driving.SettingsService, onInterval func(time.Duration)) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:          s,
		keys:            km,
		settingsService: svc,
		onInterval:      onInterval,
		prompt:          input.NewPrompt(s),
		width:           80,
		height:          24,
	}
}

// Show reads the current settings.
func (v *View) Show() {
	v.err = nil
	v.notice = ""
	v.load()
}

func (v *View) load() {
	if v.settingsService == nil {
		v.err = ErrNoSettings
		return
	}
	settings, err := v.settingsService.Get()
	if err != nil {
		v.err = fmt.Errorf("loading settings: %w", err)
		return
	}
	v.settings = settings
}

// Dispose closes the prompt.
func (v *View) Dispose() {
	v.prompt.Dismiss()
}

// SetInterval re-reads the settings so an interval changed elsewhere shows
// up.
func (v *View) SetInterval(time.Duration) {
	if v.settings != nil {
		v.load()
	}
}

// Capturing reports whether the interval prompt is open.
func (v *View) Capturing() bool {
	return v.prompt.Active()
}

// Loading is always false; settings are read from the local config.
func (v *View) Loading() bool {
	return false
}

// Err returns the last error to show, if any.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last status message.
func (v *View) Notice() string {
	return v.notice
}

// Settings returns the settings on screen.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// HandleKey handles a key press.
func (v *View) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if v.prompt.Active() {
		return v.handlePrompt(msg)
	}

	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Refresh):
		v.err = nil
		v.load()
		if v.err == nil {
			v.notice = "Settings reloaded"
		}
	case keymap.Matches(k, v.keys.Adjust), keymap.Matches(k, v.keys.Select):
		if v.settings == nil {
			return nil
		}
		secs := strconv.Itoa(int(v.settings.Polling.Interval / time.Second))
		return v.prompt.Ask("Refresh every (seconds):", secs)
	}
	return nil
}

func (v *View) handlePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.prompt.Dismiss()
		return nil
	case tea.KeyEnter:
		secs, err := v.prompt.Int()
		if err != nil {
			v.err = fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			return nil
		}
		v.prompt.Dismiss()
		v.saveInterval(time.Duration(secs) * time.Second)
		return nil
	}
	return v.prompt.Update(msg)
}

func (v *View) saveInterval(d time.Duration) {
	updated := *v.settings
	updated.Polling.Interval = d
	if err := v.settingsService.Save(&updated); err != nil {
		v.err = err
		return
	}
	v.err = nil
	v.settings = &updated
	v.notice = fmt.Sprintf("Refreshing every %s", d)
	if v.onInterval != nil {
		v.onInterval(d)
	}
}

// View renders the settings.
func (v *View) View() string {
	s := v.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil {
		b.WriteString(s.Muted.Render("No settings loaded."))
		b.WriteString("\n")
		return b.String()
	}

	token := "(not set)"
	if v.settings.Backend.Token != "" {
		token = "set"
	}
	rows := [][2]string{
		{"Backend", v.settings.Backend.URL},
		{"Token", token},
		{"Timeout", v.settings.Backend.Timeout.String()},
		{"Refresh", "every " + v.settings.Polling.Interval.String()},
		{"Rate limit", fmt.Sprintf("%s/s, burst %d",
			strconv.FormatFloat(v.settings.RateLimit.RequestsPerSecond, 'f', -1, 64), v.settings.RateLimit.Burst)},
	}
	for _, r := range rows {
		b.WriteString(s.Subtitle.Render(fmt.Sprintf("%-11s", r[0])))
		b.WriteString(" ")
		b.WriteString(s.Normal.Render(r[1]))
		b.WriteString("\n")
	}

	if p := v.prompt.View(); p != "" {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Muted.Render("[e] change refresh  [r] reload"))
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(`Backend changes: "bistro settings wizard", then restart.`))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
