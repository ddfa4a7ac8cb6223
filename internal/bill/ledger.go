// Package bill holds the running bill of scanned products.
package bill

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scanpos/internal/catalog"
	"github.com/angelmondragon/scanpos/internal/discount"
	"github.com/angelmondragon/scanpos/pkg/enums"
)

// DiscountRowID identifies the synthetic discount row shown next to the
// bill lines. It is never a ledger key.
const DiscountRowID = "discount"

var hundred = decimal.NewFromInt(100)

// LineItem aggregates the quantity of one product code.
type LineItem struct {
	Code      string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineTotal is unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Ledger maps product codes to line items, preserving first-scan order.
// Every key was present in the catalog when it was added and every quantity
// is at least one.
//
// Ledger is not safe for concurrent use; the session serializes access.
type Ledger struct {
	catalog catalog.Lookup
	items   map[string]*LineItem
	order   []string
}

// NewLedger builds an empty ledger backed by the catalog.
func NewLedger(c catalog.Lookup) *Ledger {
	return &Ledger{
		catalog: c,
		items:   map[string]*LineItem{},
	}
}

// AddScan records one scan of code. Codes missing from the catalog are
// ignored.
func (l *Ledger) AddScan(code string) enums.IgnoreReason {
	if item, ok := l.items[code]; ok {
		item.Quantity++
		return enums.IgnoreReasonNone
	}
	if l.catalog == nil {
		return enums.IgnoreReasonUnknownCode
	}
	entry, ok := l.catalog.Lookup(code)
	if !ok {
		return enums.IgnoreReasonUnknownCode
	}
	l.items[code] = &LineItem{
		Code:      code,
		Name:      entry.Name,
		UnitPrice: entry.UnitPrice,
		Quantity:  1,
	}
	l.order = append(l.order, code)
	return enums.IgnoreReasonNone
}

// RemoveLine deletes the line for code. The discount row is refused so the
// caller can route it to the discount controller.
func (l *Ledger) RemoveLine(code string) enums.IgnoreReason {
	if code == DiscountRowID {
		return enums.IgnoreReasonDiscountRow
	}
	if _, ok := l.items[code]; !ok {
		return enums.IgnoreReasonLineNotFound
	}
	delete(l.items, code)
	for i, existing := range l.order {
		if existing == code {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return enums.IgnoreReasonNone
}

// Lines returns a copy of the line items in insertion order.
func (l *Ledger) Lines() []LineItem {
	lines := make([]LineItem, 0, len(l.order))
	for _, code := range l.order {
		lines = append(lines, *l.items[code])
	}
	return lines
}

// Quantity returns the quantity for code, zero when absent.
func (l *Ledger) Quantity(code string) int {
	if item, ok := l.items[code]; ok {
		return item.Quantity
	}
	return 0
}

// Len returns the number of distinct lines.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Total is the undiscounted sum of every line.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, code := range l.order {
		total = total.Add(l.items[code].LineTotal())
	}
	return total
}

// DiscountAmount is the part of Total removed by an armed discount.
func (l *Ledger) DiscountAmount(state discount.State) decimal.Decimal {
	if !state.Applied {
		return decimal.Zero
	}
	return l.Total().Mul(decimal.NewFromInt(int64(state.Percent))).Div(hundred)
}

// DisplayTotal is Total minus the armed discount, if any.
func (l *Ledger) DisplayTotal(state discount.State) decimal.Decimal {
	return l.Total().Sub(l.DiscountAmount(state))
}
