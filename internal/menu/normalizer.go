// Package menu turns raw spreadsheet rows into canonical menu items.
package menu

import (
	"regexp"
	"strconv"
	"strings"

	"tableserve/internal/domain"
)

// headerAliases maps recognized column names (lowercased, trimmed) to the
// canonical field they feed.
var headerAliases = map[string]string{
	"id":          "id",
	"name":        "name",
	"description": "description",
	"price":       "price",
	"category":    "category",
	"image":       "image",
	"rating":      "rating",
	"hasoffers":   "hasoffers",
	"has_offers":  "hasoffers",
	"isveg":       "isveg",
	"is_veg":      "isveg",
}

// positional column order used when the first row matches no known header.
var positionalColumns = []string{"id", "name", "description", "price", "category", "image"}

var priceNumber = regexp.MustCompile(`-?[0-9]+(?:\.[0-9]+)?`)

// Normalize maps tabular rows to menu items. The first row is always a
// header: when at least one of its cells is a recognized column name the
// mapping is header-driven, otherwise the fixed positional layout applies.
// Either way data starts at row two. Rows with neither id nor name are
// skipped.
func Normalize(rows [][]string) []domain.MenuItem {
	if len(rows) == 0 {
		return nil
	}

	cols, headered := headerColumns(rows[0])
	start := 1
	if !headered {
		cols = map[string]int{}
		for i, f := range positionalColumns {
			cols[f] = i
		}
	}

	items := make([]domain.MenuItem, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		id := strings.TrimSpace(cell(row, cols, "id"))
		name := strings.TrimSpace(cell(row, cols, "name"))
		if id == "" && name == "" {
			continue
		}
		rowIndex := i - start + 1
		if id == "" {
			id = "item-" + strconv.Itoa(rowIndex)
		}

		item := domain.MenuItem{
			ID:          id,
			Name:        name,
			Description: strings.TrimSpace(cell(row, cols, "description")),
			Price:       ParsePrice(cell(row, cols, "price")),
			Category:    strings.TrimSpace(cell(row, cols, "category")),
			Image:       strings.TrimSpace(cell(row, cols, "image")),
			Rating:      parseRating(cell(row, cols, "rating")),
			HasOffers:   truthy(cell(row, cols, "hasoffers")),
			IsVeg:       parseTriState(cell(row, cols, "isveg")),
		}
		if item.Category == "" {
			item.Category = "Other"
		}
		items = append(items, item)
	}
	return items
}

func headerColumns(header []string) (map[string]int, bool) {
	cols := map[string]int{}
	for i, c := range header {
		key := strings.ToLower(strings.TrimSpace(c))
		if field, ok := headerAliases[key]; ok {
			if _, taken := cols[field]; !taken {
				cols[field] = i
			}
		}
	}
	return cols, len(cols) > 0
}

func cell(row []string, cols map[string]int, field string) string {
	i, ok := cols[field]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParsePrice extracts the first numeric token after dropping grouping
// commas, so "₹1,250.50" yields 1250.50 and "Rs. 45" yields 45 (the dot
// in "Rs." is not part of the number). Anything unparsable yields 0, as
// do negative values.
func ParsePrice(s string) float64 {
	cleaned := priceNumber.FindString(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if v < 0 {
		v = 0
	}
	if v > 5 {
		v = 5
	}
	return &v
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// parseTriState keeps unknown tokens unset rather than assuming false.
func parseTriState(s string) *bool {
	t := true
	f := false
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "veg":
		return &t
	case "false", "no", "0", "non-veg", "nonveg":
		return &f
	}
	return nil
}
