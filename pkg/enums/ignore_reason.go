package enums

// IgnoreReason explains why a scan or user action was absorbed as a no-op.
type IgnoreReason string

const (
	IgnoreReasonNone                 IgnoreReason = ""
	IgnoreReasonUnknownCode          IgnoreReason = "unknown_code"
	IgnoreReasonCooldown             IgnoreReason = "cooldown"
	IgnoreReasonDiscountAlreadyArmed IgnoreReason = "discount_already_armed"
	IgnoreReasonDiscountNotInteger   IgnoreReason = "discount_not_integer"
	IgnoreReasonDiscountOutOfRange   IgnoreReason = "discount_out_of_range"
	IgnoreReasonDiscountNotArmed     IgnoreReason = "discount_not_armed"
	IgnoreReasonLineNotFound         IgnoreReason = "line_not_found"
	IgnoreReasonDiscountRow          IgnoreReason = "discount_row"
)

var validIgnoreReasons = []IgnoreReason{
	IgnoreReasonUnknownCode,
	IgnoreReasonCooldown,
	IgnoreReasonDiscountAlreadyArmed,
	IgnoreReasonDiscountNotInteger,
	IgnoreReasonDiscountOutOfRange,
	IgnoreReasonDiscountNotArmed,
	IgnoreReasonLineNotFound,
	IgnoreReasonDiscountRow,
}

// String implements fmt.Stringer.
func (r IgnoreReason) String() string {
	return string(r)
}

// IsValid reports whether the value is a known, non-empty IgnoreReason.
func (r IgnoreReason) IsValid() bool {
	for _, candidate := range validIgnoreReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsDiscountRejection reports whether the reason comes from a discount QR
// payload that could not arm the discount.
func (r IgnoreReason) IsDiscountRejection() bool {
	return r == IgnoreReasonDiscountNotInteger || r == IgnoreReasonDiscountOutOfRange
}
