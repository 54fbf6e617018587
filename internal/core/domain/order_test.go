package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Next(t *testing.T) {
	tests := []struct {
		from   OrderStatus
		next   OrderStatus
		canAdv bool
	}{
		{OrderPending, OrderPreparing, true},
		{OrderPreparing, OrderReady, true},
		{OrderReady, OrderServed, true},
		{OrderServed, OrderPaid, true},
		{OrderPaid, OrderPaid, false},
		{OrderCancelled, OrderCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			next, ok := tt.from.Next()
			assert.Equal(t, tt.canAdv, ok)
			assert.Equal(t, tt.next, next)
		})
	}
}

func TestOrderStatus_Predicates(t *testing.T) {
	assert.True(t, OrderPending.IsOpen())
	assert.True(t, OrderServed.IsOpen())
	assert.False(t, OrderPaid.IsOpen())
	assert.False(t, OrderCancelled.IsOpen())

	assert.True(t, OrderPending.IsCancellable())
	assert.True(t, OrderPreparing.IsCancellable())
	assert.False(t, OrderReady.IsCancellable())
	assert.False(t, OrderPaid.IsCancellable())

	assert.True(t, OrderReady.IsValid())
	assert.False(t, OrderStatus("burnt").IsValid())
}

func TestOrder_Totals(t *testing.T) {
	o := Order{Items: []OrderItem{
		{Name: "Soup", Quantity: 2, UnitPriceCents: 650},
		{Name: "Bread", Quantity: 1, UnitPriceCents: 300},
	}}

	assert.Equal(t, int64(1600), o.TotalCents())
	assert.Equal(t, 3, o.ItemCount())
	assert.Equal(t, int64(1300), o.Items[0].TotalCents())
}

func TestOrder_Age(t *testing.T) {
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, 10*time.Minute, Order{CreatedAt: now.Add(-10 * time.Minute)}.Age(now))
	assert.Zero(t, Order{}.Age(now))
}

func TestNewOrder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		order   NewOrder
		wantErr bool
	}{
		{"valid", NewOrder{TableID: "t1", Items: []NewOrderItem{{MenuItemID: "m1", Quantity: 1}}}, false},
		{"no table", NewOrder{Items: []NewOrderItem{{MenuItemID: "m1", Quantity: 1}}}, true},
		{"no items", NewOrder{TableID: "t1"}, true},
		{"no menu item", NewOrder{TableID: "t1", Items: []NewOrderItem{{Quantity: 1}}}, true},
		{"zero quantity", NewOrder{TableID: "t1", Items: []NewOrderItem{{MenuItemID: "m1"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderFilter_Matches(t *testing.T) {
	open := Order{TableID: "t1", Status: OrderPending}
	paid := Order{TableID: "t1", Status: OrderPaid}
	other := Order{TableID: "t2", Status: OrderReady}

	assert.True(t, OrderFilter{}.Matches(paid))
	assert.True(t, OrderFilter{TableID: "t1"}.Matches(open))
	assert.False(t, OrderFilter{TableID: "t1"}.Matches(other))
	assert.False(t, OrderFilter{OpenOnly: true}.Matches(paid))
	assert.True(t, OrderFilter{TableID: "t2", OpenOnly: true}.Matches(other))
}
