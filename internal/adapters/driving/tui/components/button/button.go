// Package button provides action hints that can be disabled while an
// operation they trigger is in flight.
package button

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bistro-cli/internal/core/coordination"
)

// Button is a keyboard action rendered as a hint. It implements
// coordination.Control so a Tracker can disable it; SetEnabled is only
// called from the UI goroutine, so no locking is needed.
type Button struct {
	bindings []key.Binding
	enabled  bool
}

var _ coordination.Control = (*Button)(nil)

// New creates an enabled button covering bindings.
func New(bindings ...key.Binding) *Button {
	return &Button{bindings: bindings, enabled: true}
}

// SetEnabled enables or disables the button.
func (b *Button) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// Enabled returns whether the button accepts presses.
func (b *Button) Enabled() bool {
	return b.enabled
}

// Matches reports whether keyStr triggers one of the button's bindings,
// regardless of whether it is enabled.
func (b *Button) Matches(keyStr string) bool {
	for _, binding := range b.bindings {
		for _, k := range binding.Keys() {
			if k == keyStr {
				return true
			}
		}
	}
	return false
}

// Bindings returns the bindings the button covers.
func (b *Button) Bindings() []key.Binding {
	return b.bindings
}

// View renders "[key] desc" hints, struck through while disabled.
func (b *Button) View(s *styles.Styles) string {
	style := s.Help
	if !b.enabled {
		style = s.Disabled
	}
	out := ""
	for i, binding := range b.bindings {
		if i > 0 {
			out += "  "
		}
		h := binding.Help()
		out += style.Render("[" + h.Key + "] " + h.Desc)
	}
	return out
}
