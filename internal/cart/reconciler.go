// Package cart merges duplicate cart lines under a configurable
// item-identity rule.
package cart

import (
	"strings"

	"tableserve/internal/domain"
)

// MatchRule decides when two cart lines refer to the same menu item.
type MatchRule string

const (
	MatchByID       MatchRule = "id"
	MatchByName     MatchRule = "name"
	MatchByIDOrName MatchRule = "idOrName" // default
)

// SameItem reports whether a and b resolve to the same identity under the
// rule. Ids compare trimmed; names compare trimmed and lowercased. Empty
// keys never match.
func SameItem(rule MatchRule, a, b domain.CartLine) bool {
	idA, idB := strings.TrimSpace(a.ID), strings.TrimSpace(b.ID)
	nameA := strings.ToLower(strings.TrimSpace(a.Name))
	nameB := strings.ToLower(strings.TrimSpace(b.Name))

	switch rule {
	case MatchByID:
		return idA != "" && idA == idB
	case MatchByName:
		return nameA != "" && nameA == nameB
	default: // MatchByIDOrName
		if idA != "" && idA == idB {
			return true
		}
		return nameA != "" && nameA == nameB
	}
}

// Reconcile collapses lines to one entry per identity, summing quantities
// and keeping the first-seen line's descriptive fields. Lines whose merged
// quantity ends up non-positive are dropped. Reconciling an already
// reconciled cart returns the same cart.
func Reconcile(rule MatchRule, lines []domain.CartLine) []domain.CartLine {
	merged := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		idx := -1
		for i := range merged {
			if SameItem(rule, merged[i], line) {
				idx = i
				break
			}
		}
		if idx >= 0 {
			merged[idx].Quantity += line.Quantity
			continue
		}
		line.ID = strings.TrimSpace(line.ID)
		merged = append(merged, line)
	}

	out := merged[:0]
	for _, line := range merged {
		if line.Quantity > 0 {
			out = append(out, line)
		}
	}
	return out
}
