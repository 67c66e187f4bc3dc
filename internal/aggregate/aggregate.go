// Package aggregate derives category listings, summaries, groupings and
// sorted listings from normalized lines. Callers are expected to pass only
// the lines of a single user.
package aggregate

import (
	"sort"
	"strings"

	"haushaltsbuch/internal/models"
)

// SortMode selects the order of a line listing.
type SortMode string

const (
	SortNone     SortMode = "none"
	SortCategory SortMode = "category"
	SortLabel    SortMode = "label"
)

// Valid reports whether m is a known sort mode. The empty mode is valid and
// means SortNone.
func (m SortMode) Valid() bool {
	switch m {
	case "", SortNone, SortCategory, SortLabel:
		return true
	}
	return false
}

// categoryOf returns the category used for aggregation.
func categoryOf(l models.Line) string {
	if strings.TrimSpace(l.Category) == "" {
		return models.UncategorizedLabel
	}
	return l.Category
}

// Categories returns the distinct categories of lines in ascending order.
func Categories(lines []models.Line) []string {
	set := make(map[string]struct{})
	out := make([]string, 0)
	for _, l := range lines {
		c := categoryOf(l)
		if _, ok := set[c]; ok {
			continue
		}
		set[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Summarize totals income and expense and the signed total per category.
func Summarize(lines []models.Line) models.Summary {
	var s models.Summary
	byCategory := make(map[string]float64)
	order := make([]string, 0)

	for _, l := range lines {
		total := l.Total()
		if l.Type == models.LineTypeIncome {
			s.Income = models.AddAmounts(s.Income, total)
		} else {
			s.Expense = models.AddAmounts(s.Expense, total)
		}

		c := categoryOf(l)
		if _, ok := byCategory[c]; !ok {
			order = append(order, c)
		}
		byCategory[c] = models.AddAmounts(byCategory[c], l.SignedTotal())
	}
	s.Net = models.AddAmounts(s.Income, -s.Expense)

	sort.Strings(order)
	s.Categories = make([]models.CategoryTotal, 0, len(order))
	for _, c := range order {
		s.Categories = append(s.Categories, models.CategoryTotal{Category: c, Total: byCategory[c]})
	}
	return s
}

// typeRank orders income buckets before expense buckets.
func typeRank(t models.LineType) int {
	switch t {
	case models.LineTypeIncome:
		return 0
	case models.LineTypeExpense:
		return 1
	}
	return 99
}

// Group buckets lines by type and category. Each bucket keeps its lines in
// input order and a signed running total. Buckets are ordered income first,
// then by category.
func Group(lines []models.Line) []models.Group {
	type key struct {
		t models.LineType
		c string
	}
	index := make(map[key]int)
	groups := make([]models.Group, 0)

	for _, l := range lines {
		k := key{t: l.Type, c: categoryOf(l)}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, models.Group{Type: k.t, Category: k.c, Lines: []models.Line{}})
		}
		groups[i].Lines = append(groups[i].Lines, l)
		groups[i].Total = models.AddAmounts(groups[i].Total, l.SignedTotal())
	}

	sort.SliceStable(groups, func(a, b int) bool {
		ra, rb := typeRank(groups[a].Type), typeRank(groups[b].Type)
		if ra != rb {
			return ra < rb
		}
		return groups[a].Category < groups[b].Category
	})
	return groups
}

// Sort orders lines in place according to mode. The sort is stable, so ties
// keep their dataset order.
func Sort(lines []models.Line, mode SortMode) {
	switch mode {
	case SortCategory:
		sort.SliceStable(lines, func(a, b int) bool {
			la, lb := lines[a], lines[b]
			if la.Type != lb.Type {
				return la.Type < lb.Type
			}
			ca, cb := strings.ToLower(la.Category), strings.ToLower(lb.Category)
			if ca != cb {
				return ca < cb
			}
			return strings.ToLower(la.Label) < strings.ToLower(lb.Label)
		})
	case SortLabel:
		sort.SliceStable(lines, func(a, b int) bool {
			return strings.ToLower(lines[a].Label) < strings.ToLower(lines[b].Label)
		})
	}
}
