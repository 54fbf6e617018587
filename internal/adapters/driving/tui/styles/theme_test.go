package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
	assert.NotEmpty(t, string(theme.Reserved))
}

func TestDefaultTheme_StatusColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	palette := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Success,
		theme.Warning,
		theme.Error,
		theme.Reserved,
	}

	seen := make(map[string]bool)
	for _, c := range palette {
		s := string(c)
		assert.False(t, seen[s], "duplicate colour: %s", s)
		seen[s] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	styles := DefaultStyles()

	assert.NotEqual(t, lipgloss.Style{}, styles.Title)
	assert.NotEqual(t, lipgloss.Style{}, styles.Subtitle)
	assert.NotEqual(t, lipgloss.Style{}, styles.Normal)
	assert.NotEqual(t, lipgloss.Style{}, styles.Muted)
	assert.NotEqual(t, lipgloss.Style{}, styles.Selected)
	assert.NotEqual(t, lipgloss.Style{}, styles.Error)
	assert.NotEqual(t, lipgloss.Style{}, styles.Success)
	assert.NotEqual(t, lipgloss.Style{}, styles.InputField)
	assert.NotEqual(t, lipgloss.Style{}, styles.StatusBar)
	assert.NotEqual(t, lipgloss.Style{}, styles.Disabled)
	assert.NotEqual(t, lipgloss.Style{}, styles.Border)
}

func TestStyles_TableStatus(t *testing.T) {
	styles := DefaultStyles()

	assert.Equal(t, styles.Success, styles.TableStatus(domain.TableFree))
	assert.Equal(t, styles.Warning, styles.TableStatus(domain.TableOccupied))
	assert.Equal(t, styles.Muted, styles.TableStatus(domain.TableCleaning))
	assert.Equal(t, styles.Normal, styles.TableStatus(domain.TableStatus("broken")))

	for _, status := range domain.AllTableStatuses() {
		assert.NotEmpty(t, styles.TableStatus(status).Render(status.String()))
	}
}

func TestStyles_OrderStatus(t *testing.T) {
	styles := DefaultStyles()

	assert.Equal(t, styles.Warning, styles.OrderStatus(domain.OrderPreparing))
	assert.Equal(t, styles.Muted, styles.OrderStatus(domain.OrderCancelled))
	assert.Equal(t, styles.Normal, styles.OrderStatus(domain.OrderPending))
}
