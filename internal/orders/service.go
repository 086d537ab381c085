package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"tableserve/internal/cart"
	"tableserve/internal/common/logger"
	"tableserve/internal/domain"
	"tableserve/internal/menu"
	"tableserve/internal/sheetstore"
)

// ContactMode selects which contact fields order placement requires.
type ContactMode string

const (
	ContactMobile ContactMode = "mobile" // customer name + mobile number
	ContactEmail  ContactMode = "email"
)

// RecencyWindow bounds how far back order lookup reaches. Orders older
// than this are intentionally unreachable.
const RecencyWindow = 24 * time.Hour

// ValidationError marks a rejected request; the HTTP layer maps it to a
// 4xx response with the field-specific message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ErrNoRecentOrders is the lookup miss: nothing matched inside the
// recency window.
var ErrNoRecentOrders = errors.New("no recent orders found; orders are only available for 24 hours")

// Sheets is the slice of the rotation layer the service needs.
type Sheets interface {
	AppendRow(ctx context.Context, row []string) (domain.Append, error)
	Sheets(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) ([]domain.SheetStats, error)
}

// Dispatcher queues confirmation notifications. Implementations must be
// best-effort: a dispatch failure never fails the order.
type Dispatcher interface {
	Dispatch(ctx context.Context, order domain.Order)
}

// Backup keeps a local copy of placed orders for the owner dashboard and
// as a persistence fallback.
type Backup interface {
	Save(order domain.Order) error
}

type ServiceInterface interface {
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.PlaceOrderResponse, error)
	VerifyOrder(ctx context.Context, req domain.VerifyOrderRequest) ([]domain.TrackedOrder, error)
	SheetStats(ctx context.Context) ([]domain.SheetStats, error)
}

type Service struct {
	sheets     Sheets
	reader     sheetstore.Store
	dispatcher Dispatcher
	backup     Backup

	contactMode     ContactMode
	loc             *time.Location
	persistFallback bool

	lg  *logger.Logger
	now func() time.Time
}

type Options struct {
	ContactMode     ContactMode
	Location        *time.Location
	PersistFallback bool
	// Now overrides the clock; tests use it.
	Now func() time.Time
}

func NewService(sheets Sheets, reader sheetstore.Store, dispatcher Dispatcher, backup Backup, opts Options, lg *logger.Logger) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ContactMode == "" {
		opts.ContactMode = ContactMobile
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		sheets:          sheets,
		reader:          reader,
		dispatcher:      dispatcher,
		backup:          backup,
		contactMode:     opts.ContactMode,
		loc:             opts.Location,
		persistFallback: opts.PersistFallback,
		lg:              lg,
		now:             opts.Now,
	}
}

// PlaceOrder validates the request, records one durable row (rotating the
// target sheet when full) and queues confirmation notifications. The
// total is recomputed from the items; a disagreeing client value is
// logged, not trusted.
func (s *Service) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.PlaceOrderResponse, error) {
	if strings.TrimSpace(req.TableNumber) == "" {
		return domain.PlaceOrderResponse{}, validationf("table number is required")
	}
	if len(req.Items) == 0 {
		return domain.PlaceOrderResponse{}, validationf("at least one item is required")
	}
	switch s.contactMode {
	case ContactEmail:
		if strings.TrimSpace(req.Email) == "" {
			return domain.PlaceOrderResponse{}, validationf("email is required")
		}
	default:
		if strings.TrimSpace(req.CustomerName) == "" {
			return domain.PlaceOrderResponse{}, validationf("customer name is required")
		}
		if strings.TrimSpace(req.Mobile) == "" {
			return domain.PlaceOrderResponse{}, validationf("mobile number is required")
		}
	}

	// Validate the raw lines before merging: Reconcile drops non-positive
	// quantities, which would turn a bad line into a silent no-op.
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return domain.PlaceOrderResponse{}, validationf("invalid quantity for item %s", line.Name)
		}
		if line.Price < 0 {
			return domain.PlaceOrderResponse{}, validationf("invalid price for item %s", line.Name)
		}
	}

	lines := cart.Reconcile(cart.MatchByIDOrName, req.Items)
	if len(lines) == 0 {
		return domain.PlaceOrderResponse{}, validationf("at least one item is required")
	}
	items := make([]domain.OrderItem, 0, len(lines))
	total := 0.0
	for _, line := range lines {
		items = append(items, domain.OrderItem{Name: line.Name, Quantity: line.Quantity, Price: line.Price})
		total += line.Price * float64(line.Quantity)
	}
	total = math.Round(total*100) / 100
	if req.Total != 0 && math.Abs(req.Total-total) > 0.009 {
		s.lg.Warn("client_total_mismatch", map[string]any{"client_total": req.Total, "computed_total": total})
	}

	now := s.now()
	order := domain.Order{
		OrderID:      "ORD-" + strconv.FormatInt(now.UnixMilli(), 10),
		Timestamp:    FormatTimestamp(now, s.loc),
		PlacedAtISO:  now.UTC().Format(time.RFC3339),
		TableNumber:  strings.TrimSpace(req.TableNumber),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Mobile:       strings.TrimSpace(req.Mobile),
		Email:        strings.TrimSpace(req.Email),
		Items:        items,
		Total:        total,
		PlacedAt:     now,
	}

	email := order.Email
	if email == "" {
		email = "N/A"
	}
	row := []string{
		order.Timestamp,
		order.OrderID,
		order.TableNumber,
		order.CustomerName,
		order.Mobile,
		email,
		FormatItemsJSON(items),
		fmt.Sprintf("%.2f", total),
		order.PlacedAtISO,
	}

	appended, err := s.sheets.AppendRow(ctx, row)
	if err != nil {
		if !s.persistFallback || s.backup == nil {
			return domain.PlaceOrderResponse{}, fmt.Errorf("save order: %w", err)
		}
		// Sheet store is down; the local backup absorbs the write and
		// the order still succeeds.
		s.lg.Error("sheet_append_failed_using_backup", err, map[string]any{"order_id": order.OrderID})
		if berr := s.backup.Save(order); berr != nil {
			return domain.PlaceOrderResponse{}, fmt.Errorf("save order: %w", errors.Join(err, berr))
		}
		appended = domain.Append{}
	} else if s.backup != nil {
		if berr := s.backup.Save(order); berr != nil {
			s.lg.Warn("order_backup_failed", map[string]any{"order_id": order.OrderID, "error": berr.Error()})
		}
	}

	s.lg.Info("order_placed", map[string]any{
		"order_id": order.OrderID, "table": order.TableNumber,
		"total": total, "sheet": appended.SheetName, "row": appended.RowNumber,
	})

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, order)
	}

	return domain.PlaceOrderResponse{
		OrderID:     order.OrderID,
		Timestamp:   order.Timestamp,
		PlacedAtISO: order.PlacedAtISO,
		Total:       total,
		SheetInfo:   appended,
	}, nil
}

// VerifyOrder scans every rotation sheet for rows matching the given
// mobile number or order id, keeps only the last 24 hours, and annotates
// matches with their derived preparation status, newest first.
func (s *Service) VerifyOrder(ctx context.Context, req domain.VerifyOrderRequest) ([]domain.TrackedOrder, error) {
	mobile := strings.TrimSpace(req.Mobile)
	orderID := strings.TrimSpace(req.OrderID)
	if mobile == "" && orderID == "" {
		return nil, validationf("please provide either mobile number or order ID")
	}

	names, err := s.sheets.Sheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list order sheets: %w", err)
	}

	now := s.now()
	cutoff := now.Add(-RecencyWindow)
	var matched []domain.Order

	for _, name := range names {
		rows, err := s.reader.Read(ctx, name)
		if err != nil {
			if errors.Is(err, sheetstore.ErrSheetNotFound) {
				continue
			}
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		for i := 1; i < len(rows); i++ {
			order, ok := s.rowToOrder(rows[i])
			if !ok {
				continue
			}
			if order.PlacedAt.Before(cutoff) {
				continue
			}
			mobileMatch := mobile != "" && order.Mobile == mobile
			idMatch := orderID != "" && order.OrderID == orderID
			if mobileMatch || idMatch {
				matched = append(matched, order)
			}
		}
	}

	if len(matched) == 0 {
		return nil, ErrNoRecentOrders
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PlacedAt.After(matched[j].PlacedAt)
	})

	tracked := make([]domain.TrackedOrder, len(matched))
	for i, order := range matched {
		elapsed := int(now.Sub(order.PlacedAt).Minutes())
		status, text, eta := ResolveStatus(elapsed)
		tracked[i] = domain.TrackedOrder{
			Order:          order,
			OrderStatus:    status,
			StatusText:     text,
			EstimatedTime:  eta,
			MinutesElapsed: elapsed,
		}
	}
	return tracked, nil
}

func (s *Service) SheetStats(ctx context.Context) ([]domain.SheetStats, error) {
	return s.sheets.Stats(ctx)
}

// rowToOrder maps one persisted sheet row back to an order. Rows without
// a datable timestamp are skipped rather than failing the lookup.
func (s *Service) rowToOrder(row []string) (domain.Order, bool) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	placedAt, err := ParseTimestamp(get(0), get(8), s.loc)
	if err != nil {
		s.lg.Debug("undated_order_row_skipped", map[string]any{"timestamp": get(0)})
		return domain.Order{}, false
	}
	items, outcome := ParseItems(get(6))

	email := get(5)
	if email == "N/A" {
		email = ""
	}
	return domain.Order{
		OrderID:      get(1),
		Timestamp:    get(0),
		PlacedAtISO:  get(8),
		TableNumber:  get(2),
		CustomerName: get(3),
		Mobile:       get(4),
		Email:        email,
		Items:        items,
		Total:        menu.ParsePrice(get(7)),
		PlacedAt:     placedAt,
		ItemsOutcome: outcome,
	}, true
}
