package enums

// Currency is the denomination bill amounts are shown in.
type Currency string

const (
	CurrencyINR Currency = "INR"
)

var currencySymbols = map[Currency]string{
	CurrencyINR: "₹",
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// Symbol returns the glyph printed before amounts, or the code itself.
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c)
}
