package models

// Fallback categories assigned when a line carries none.
const (
	DefaultExpenseCategory = "sonstige ausgaben"
	DefaultIncomeCategory  = "sonstige einnahmen"

	// UncategorizedLabel is reported for a blank category in aggregates.
	UncategorizedLabel = "ohne"
)

// DefaultCategory returns the fallback category for the given line type.
func DefaultCategory(t LineType) string {
	if t == LineTypeIncome {
		return DefaultIncomeCategory
	}
	return DefaultExpenseCategory
}

// CategoryTotal is the signed total of all lines in one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Summary holds the income/expense totals of a user's lines.
type Summary struct {
	Income     float64         `json:"income"`
	Expense    float64         `json:"expense"`
	Net        float64         `json:"net"`
	Categories []CategoryTotal `json:"categories"`
}

// Group collects the lines sharing a type and category.
type Group struct {
	Type     LineType `json:"type"`
	Category string   `json:"category"`
	Total    float64  `json:"total"`
	Lines    []Line   `json:"lines"`
}
