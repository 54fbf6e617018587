package domain

import (
	"fmt"
	"sort"
)

// MenuItem is a dish or drink that can be ordered.
type MenuItem struct {
	ID         string
	Name       string
	Category   string
	PriceCents int64
	Available  bool
}

// FormatCents renders an amount in cents as a decimal string, e.g. "12.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MenuCategories returns the distinct categories of items, sorted.
func MenuCategories(items []MenuItem) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	sort.Strings(out)
	return out
}
