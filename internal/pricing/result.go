package pricing

import "github.com/shopspring/decimal"

// Breakdown itemizes a single-order combo price.
type Breakdown struct {
	ComboBase   decimal.Decimal `json:"combo_base"`
	Supplements decimal.Decimal `json:"supplements"`
}

// Result is the outcome of single-order pricing. A nil Total means no combo
// could be formed and the order must be priced by an external mechanism; the
// engine never invents a stand-alone price.
type Result struct {
	Total     *decimal.Decimal `json:"total,omitempty"`
	HasCombo  bool             `json:"has_combo"`
	Message   string           `json:"message,omitempty"`
	Breakdown *Breakdown       `json:"breakdown,omitempty"`
}

// ComboAssignment pairs one combinable food with one beverage plus the
// supplements billed into that combo. Always derived, never authoritative.
type ComboAssignment struct {
	Description string          `json:"description"`
	Beverage    string          `json:"beverage"`
	Food        string          `json:"food"`
	Supplements []string        `json:"supplements,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// OptimalResult is the outcome of group-level pricing. Leftovers are items
// that could not be paired into a combo; they contribute nothing to Total and
// are reported for separate billing.
type OptimalResult struct {
	Total       decimal.Decimal   `json:"total"`
	HasCombo    bool              `json:"has_combo"`
	Assignments []ComboAssignment `json:"assignments"`
	Leftovers   []string          `json:"leftovers"`
}
