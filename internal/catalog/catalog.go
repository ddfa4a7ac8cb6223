package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Entry is an immutable catalog row.
type Entry struct {
	Name      string
	UnitPrice decimal.Decimal
}

// Lookup resolves product codes to catalog entries.
type Lookup interface {
	Lookup(code string) (Entry, bool)
}

// Static is a read-only, in-memory catalog. It is safe for concurrent reads.
type Static struct {
	entries map[string]Entry
}

// NewStatic copies entries into a Static catalog after validating them.
func NewStatic(entries map[string]Entry) (*Static, error) {
	copied := make(map[string]Entry, len(entries))
	for code, entry := range entries {
		if code == "" {
			return nil, fmt.Errorf("catalog: empty product code")
		}
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("catalog: product %q has no name", code)
		}
		if entry.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("catalog: product %q has negative price %s", code, entry.UnitPrice)
		}
		copied[code] = entry
	}
	return &Static{entries: copied}, nil
}

// Lookup implements Lookup.
func (s *Static) Lookup(code string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	entry, ok := s.entries[code]
	return entry, ok
}

// Len returns the number of products.
func (s *Static) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Codes returns every product code in lexical order.
func (s *Static) Codes() []string {
	if s == nil {
		return nil
	}
	codes := make([]string, 0, len(s.entries))
	for code := range s.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DefaultSeed is the demo catalog the station ships with.
func DefaultSeed() map[string]Entry {
	return map[string]Entry{
		"1234567890128": {Name: "Milk", UnitPrice: decimal.RequireFromString("30.00")},
		"9782123456803": {Name: "Bread", UnitPrice: decimal.RequireFromString("35.00")},
		"8901491503051": {Name: "Orange Lays", UnitPrice: decimal.RequireFromString("10.00")},
		"89007655":      {Name: "DoubleMint", UnitPrice: decimal.RequireFromString("20.00")},
		"7622202398735": {Name: "Dairy Milk Chocolate", UnitPrice: decimal.RequireFromString("55.00")},
	}
}

// Default returns the seeded static catalog.
func Default() *Static {
	s, err := NewStatic(DefaultSeed())
	if err != nil {
		panic(err)
	}
	return s
}
