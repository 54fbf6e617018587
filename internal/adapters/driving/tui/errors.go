package tui

import "errors"

// ErrMissingFloorService is returned when the floor service is not provided.
var ErrMissingFloorService = errors.New("tui: floor service is required")

// ErrMissingOrderService is returned when the order service is not provided.
var ErrMissingOrderService = errors.New("tui: order service is required")

// ErrMissingMenuService is returned when the menu service is not provided.
var ErrMissingMenuService = errors.New("tui: menu service is required")

// ErrMissingStockService is returned when the stock service is not provided.
var ErrMissingStockService = errors.New("tui: stock service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
