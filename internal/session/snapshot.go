package session

import (
	"context"

	"github.com/shopspring/decimal"
)

// Line is one bill row as handed to presentation adapters.
type Line struct {
	Code      string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// DiscountView describes the discount slot and what it takes off the bill.
type DiscountView struct {
	Applied bool
	Percent int
	Amount  decimal.Decimal
}

// Snapshot is a consistent view of the bill. Amounts keep full precision;
// formatting is left to adapters.
type Snapshot struct {
	SessionID string
	Version   uint64
	Lines     []Line
	Discount  DiscountView
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
}

// Notifier is told about every mutation, synchronously and in order. It runs
// while the session is locked and must not call back into the session.
type Notifier interface {
	OnStateChanged(ctx context.Context, snap Snapshot)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, snap Snapshot)

func (f NotifierFunc) OnStateChanged(ctx context.Context, snap Snapshot) {
	f(ctx, snap)
}
