package orders

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tableserve/internal/domain"
)

// TimestampLayout is the localized display format stored in the Timestamp
// column: day/month/year with a 12-hour clock. Day-first matters; these
// values must never be read as month/day/year.
const TimestampLayout = "02/01/2006, 03:04:05 PM"

// FormatTimestamp renders the display timestamp in the restaurant's
// location.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimestampLayout)
}

// ParseTimestamp turns a stored timestamp cell back into an instant,
// preferring the unambiguous RFC3339 column when the row carries one.
func ParseTimestamp(display, iso string, loc *time.Location) (time.Time, error) {
	if iso = strings.TrimSpace(iso); iso != "" {
		if t, err := time.Parse(time.RFC3339, iso); err == nil {
			return t, nil
		}
	}
	display = strings.TrimSpace(display)
	if display == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	t, err := time.ParseInLocation(TimestampLayout, display, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", display, err)
	}
	return t, nil
}

// FormatItemsJSON is the canonical Items cell representation.
func FormatItemsJSON(items []domain.OrderItem) string {
	b, _ := json.Marshal(items)
	return string(b)
}

// FormatItemsDisplay renders the legacy human-readable representation:
// "<name> x<qty> (₹<lineTotal>)" comma-joined. Line totals, not unit
// prices, go inside the parentheses.
func FormatItemsDisplay(items []domain.OrderItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s x%d (₹%.2f)", it.Name, it.Quantity, it.Price*float64(it.Quantity))
	}
	return strings.Join(parts, ", ")
}

// displayItem matches one "<name> x<qty> (<currency><amount>)" token.
var displayItem = regexp.MustCompile(`^(.+?) x(\d+) \([^0-9]*([0-9]+(?:\.[0-9]+)?)\)$`)

// ParseItems decodes a stored Items cell. JSON arrays are authoritative;
// otherwise the display format is parsed token by token, and tokens that
// match nothing degrade to {name: raw, quantity: 1, price: 0} rather than
// failing the whole lookup.
func ParseItems(cell string) ([]domain.OrderItem, domain.ItemsParseOutcome) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, domain.ItemsParsedFallback
	}

	if strings.HasPrefix(cell, "[") {
		var items []domain.OrderItem
		if err := json.Unmarshal([]byte(cell), &items); err == nil {
			return items, domain.ItemsParsedJSON
		}
	}

	outcome := domain.ItemsParsedDisplay
	var items []domain.OrderItem
	for _, token := range strings.Split(cell, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		m := displayItem.FindStringSubmatch(token)
		if m == nil {
			items = append(items, domain.OrderItem{Name: token, Quantity: 1, Price: 0})
			outcome = domain.ItemsParsedFallback
			continue
		}
		qty, _ := strconv.Atoi(m[2])
		lineTotal, _ := strconv.ParseFloat(m[3], 64)
		unit := lineTotal
		if qty > 1 {
			unit = lineTotal / float64(qty)
		}
		items = append(items, domain.OrderItem{Name: m[1], Quantity: qty, Price: unit})
	}
	return items, outcome
}
