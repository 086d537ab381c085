package domain

import "time"

// MenuItem is the canonical record produced from one spreadsheet row.
// Identity is ID; when the sheet carries no id column the normalizer
// synthesizes one, and cart matching can still fall back to the name.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	HasOffers   bool     `json:"hasOffers"`
	// IsVeg is tri-state: nil means the sheet did not say.
	IsVeg *bool `json:"isVeg,omitempty"`
}

// CartLine is one line of a customer cart. At most one line exists per
// item identity; the reconciler enforces that.
type CartLine struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	Quantity    int     `json:"quantity"`
}

// OrderItem is an ordered line as persisted: name, quantity and unit price.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ItemsParseOutcome reports how a stored Items cell was decoded.
type ItemsParseOutcome string

const (
	ItemsParsedJSON     ItemsParseOutcome = "json"
	ItemsParsedDisplay  ItemsParseOutcome = "display"
	ItemsParsedFallback ItemsParseOutcome = "fallback"
)

type Order struct {
	OrderID      string      `json:"orderId"`
	Timestamp    string      `json:"timestamp"`   // localized dd/MM/yyyy, hh:mm:ss AM/PM
	PlacedAtISO  string      `json:"placedAtIso"` // RFC3339 UTC counterpart
	TableNumber  string      `json:"tableNumber"`
	CustomerName string      `json:"customerName"`
	Mobile       string      `json:"mobile"`
	Email        string      `json:"email,omitempty"`
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
	// Status is the owner-managed state kept in the local backup store;
	// it is distinct from the time-derived preparation status.
	Status string `json:"status,omitempty"`

	// PlacedAt is the comparable instant derived from the stored
	// timestamp; zero when the row could not be dated.
	PlacedAt time.Time `json:"-"`
	// ItemsOutcome is set by the matcher when re-reading stored rows.
	ItemsOutcome ItemsParseOutcome `json:"-"`
}

// OrderStatus is the coarse preparation state derived from elapsed time.
type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusPreparing OrderStatus = "preparing"
	StatusCooking   OrderStatus = "cooking"
	StatusReady     OrderStatus = "ready"
)

// SheetStats describes one rotation-unit sheet.
type SheetStats struct {
	Name        string  `json:"name"`
	RowCount    int     `json:"rowCount"` // data rows, header excluded
	PercentFull float64 `json:"percentFull"`
	IsFull      bool    `json:"isFull"`
}
