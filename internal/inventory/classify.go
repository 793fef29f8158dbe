// Package inventory derives display aggregates from the fetched food items.
// Everything here is pure: no I/O, no clock reads.
package inventory

import (
	"math"
	"sort"
	"strings"

	"github.com/idilsaglam/coolsave/internal/model"
)

// IsExpired reports whether the item's expiration day is today or earlier.
func IsExpired(it model.FoodItem, today model.CalendarDate) bool {
	return !it.Expires().After(today)
}

// DaysLeft is the number of days until the item expires (negative once past).
func DaysLeft(it model.FoodItem, today model.CalendarDate) int {
	return today.DaysUntil(it.Expires())
}

// Summarize computes the expiration summary of the full collection.
// Ties for the top category go to the category met first in items.
func Summarize(items []model.FoodItem, today model.CalendarDate) model.ExpirationSummary {
	s := model.ExpirationSummary{Total: len(items), TopExpiredCategory: model.NotApplicable}
	if len(items) == 0 {
		return s
	}

	counts := make(map[model.Category]int)
	var order []model.Category
	for _, it := range items {
		if !IsExpired(it, today) {
			continue
		}
		s.Expired++
		if _, seen := counts[it.Category]; !seen {
			order = append(order, it.Category)
		}
		counts[it.Category]++
	}

	s.PercentExpired = math.Round(1000*float64(s.Expired)/float64(s.Total)) / 10

	best := 0
	for _, c := range order {
		if counts[c] > best {
			best = counts[c]
			s.TopExpiredCategory = string(c)
		}
	}
	return s
}

// SortByExpiration orders items soonest-expiring first. Equal dates keep their
// server order.
func SortByExpiration(items []model.FoodItem) []model.FoodItem {
	out := append([]model.FoodItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpirationDate.Before(out[j].ExpirationDate)
	})
	return out
}

// Filter keeps items whose name or category contains query, case-insensitively.
func Filter(items []model.FoodItem, query string) []model.FoodItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]model.FoodItem(nil), items...)
	}
	var out []model.FoodItem
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(string(it.Category)), q) {
			out = append(out, it)
		}
	}
	return out
}
