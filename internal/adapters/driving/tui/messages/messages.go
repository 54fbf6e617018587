// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewFloor lists tables with their open orders.
	ViewFloor
	// ViewOrders lists orders for the kitchen and floor staff.
	ViewOrders
	// ViewMenuItems lists dishes and drinks with their availability.
	ViewMenuItems
	// ViewStock lists ingredient stock levels.
	ViewStock
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings shows the connection settings and polling interval.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewFloor:
		return "floor"
	case ViewOrders:
		return "orders"
	case ViewMenuItems:
		return "menu_items"
	case ViewStock:
		return "stock"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// IsData reports whether the view polls the backend.
func (v ViewType) IsData() bool {
	switch v {
	case ViewFloor, ViewOrders, ViewMenuItems, ViewStock:
		return true
	default:
		return false
	}
}

// Drain asks the App to run callbacks queued for the UI goroutine.
type Drain struct{}

// ConfigChanged signals that the config file was rewritten.
type ConfigChanged struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
