package models

import "math"

// LineType represents the direction of a budget line
type LineType string

const (
	LineTypeIncome  LineType = "income"
	LineTypeExpense LineType = "expense"
)

// Valid reports whether t is one of the known line types.
func (t LineType) Valid() bool {
	return t == LineTypeIncome || t == LineTypeExpense
}

// Sign returns +1 for income and -1 for expense.
func (t LineType) Sign() float64 {
	if t == LineTypeIncome {
		return 1
	}
	return -1
}

// Subitem is a labeled amount nested under a line.
type Subitem struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Line is a single income or expense entry owned by one user.
type Line struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Type       LineType  `json:"type"`
	Category   string    `json:"category"`
	BaseAmount float64   `json:"base_amount"`
	Subitems   []Subitem `json:"subitems"`
	IsVariable *bool     `json:"is_variable"`
	UserID     string    `json:"user_id,omitempty"`
}

// Total returns what the line is worth. Subitems, when present, replace
// the base amount; BaseAmount itself is left untouched.
func (l Line) Total() float64 {
	if len(l.Subitems) == 0 {
		return l.BaseAmount
	}
	var sum float64
	for _, s := range l.Subitems {
		sum = AddAmounts(sum, s.Amount)
	}
	return sum
}

// AddAmounts returns a+b saturated at ±math.MaxFloat64. Amounts are finite
// on their own but large ones may overflow when summed, and JSON cannot
// carry an infinity.
func AddAmounts(a, b float64) float64 {
	sum := a + b
	switch {
	case math.IsInf(sum, 1):
		return math.MaxFloat64
	case math.IsInf(sum, -1):
		return -math.MaxFloat64
	}
	return sum
}

// SignedTotal returns Total with income positive and expense negative.
func (l Line) SignedTotal() float64 {
	return l.Type.Sign() * l.Total()
}

// Clone returns a deep copy of the line.
func (l Line) Clone() Line {
	c := l
	c.Subitems = append(make([]Subitem, 0, len(l.Subitems)), l.Subitems...)
	if l.IsVariable != nil {
		v := *l.IsVariable
		c.IsVariable = &v
	}
	return c
}
