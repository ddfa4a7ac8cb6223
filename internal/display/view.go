// Package display renders bill snapshots for the operator and customer
// screens. Amounts are formatted to two fraction digits here and nowhere else.
package display

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scanpos/internal/bill"
	"github.com/angelmondragon/scanpos/internal/session"
	"github.com/angelmondragon/scanpos/pkg/enums"
)

const (
	currency          = enums.CurrencyINR
	discountRowName   = "Discount Applied"
	moneyFractionDigs = 2
)

// RowView is one rendered bill row. The discount row carries no quantity or
// unit price.
type RowView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity,omitempty"`
	UnitPrice string `json:"unit_price,omitempty"`
	LineTotal string `json:"line_total"`
}

// BillView is the wire and screen representation of a snapshot.
type BillView struct {
	SessionID         string    `json:"session_id"`
	Currency          string    `json:"currency"`
	Version           uint64    `json:"version"`
	Rows              []RowView `json:"rows"`
	Subtotal          string    `json:"subtotal"`
	Total             string    `json:"total"`
	DiscountPercent   int       `json:"discount_percent,omitempty"`
	CanRemoveDiscount bool      `json:"can_remove_discount"`
	TotalLabel        string    `json:"total_label"`
}

// NewBillView formats snap for presentation.
func NewBillView(snap session.Snapshot) BillView {
	rows := make([]RowView, 0, len(snap.Lines)+1)
	for _, line := range snap.Lines {
		rows = append(rows, RowView{
			ID:        line.Code,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: Money(line.UnitPrice),
			LineTotal: Money(line.LineTotal),
		})
	}

	view := BillView{
		SessionID: snap.SessionID,
		Currency:  currency.String(),
		Version:   snap.Version,
		Subtotal:  Money(snap.Subtotal),
		Total:     Money(snap.Total),
	}
	if snap.Discount.Applied {
		rows = append(rows, RowView{
			ID:        bill.DiscountRowID,
			Name:      discountRowName,
			LineTotal: Money(snap.Discount.Amount.Neg()),
		})
		view.DiscountPercent = snap.Discount.Percent
		view.CanRemoveDiscount = true
		view.TotalLabel = fmt.Sprintf("Total Bill Amount: %s%s (%d%% discount applied)", currency.Symbol(), view.Total, snap.Discount.Percent)
	} else {
		view.TotalLabel = fmt.Sprintf("Total Bill Amount: %s%s", currency.Symbol(), view.Total)
	}
	view.Rows = rows
	return view
}

// Money formats an amount with two fraction digits, rounding half away from
// zero.
func Money(amount decimal.Decimal) string {
	return amount.StringFixed(moneyFractionDigs)
}
