package domain

type PlaceOrderRequest struct {
	TableNumber  string     `json:"tableNumber"`
	CustomerName string     `json:"customerName"`
	Mobile       string     `json:"mobile"`
	Email        string     `json:"email"`
	Items        []CartLine `json:"items"`
	Total        float64    `json:"total"`
}

type PlaceOrderResponse struct {
	OrderID     string  `json:"orderId"`
	Timestamp   string  `json:"timestamp"`
	PlacedAtISO string  `json:"placedAtIso"`
	Total       float64 `json:"total"`
	SheetInfo   Append  `json:"sheetInfo"`
}

// Append reports where a row landed and whether writing it rotated the
// current sheet.
type Append struct {
	SheetName         string `json:"sheetName"`
	RowNumber         int    `json:"rowNumber"` // 1-based, header is row 1
	NewSheetCreated   bool   `json:"newSheetCreated"`
	PreviousSheetRows int    `json:"previousSheetRows,omitempty"`
}

type VerifyOrderRequest struct {
	Mobile  string `json:"mobile"`
	OrderID string `json:"orderId"`
}

// TrackedOrder is a matched order annotated with its derived status.
type TrackedOrder struct {
	Order
	OrderStatus    OrderStatus `json:"orderStatus"`
	StatusText     string      `json:"statusText"`
	EstimatedTime  string      `json:"estimatedTime"`
	MinutesElapsed int         `json:"minutesElapsed"`
}
