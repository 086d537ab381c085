package api

import (
	"errors"
	"net/http"
	"time"

	"tableserve/internal/backup"
	"tableserve/internal/common/logger"
	"tableserve/internal/domain"
	"tableserve/internal/menu"
	"tableserve/internal/metrics"
	"tableserve/internal/notify"
	"tableserve/internal/orders"
)

// OrderBackup is the slice of the backup store the owner endpoints need.
type OrderBackup interface {
	Get(orderID string) (domain.Order, error)
	List() ([]domain.Order, error)
	Save(order domain.Order) error
}

type RestaurantInfo struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
}

type Handler struct {
	orders     orders.ServiceInterface
	menu       *menu.Service
	backup     OrderBackup
	dispatcher *notify.Dispatcher
	failed     notify.FailedStore
	reg        *metrics.Registry
	lg         *logger.Logger

	info        RestaurantInfo
	storageMode string
}

func NewHandler(svc orders.ServiceInterface, menuSvc *menu.Service, bak OrderBackup, dispatcher *notify.Dispatcher, failed notify.FailedStore, reg *metrics.Registry, info RestaurantInfo, storageMode string, lg *logger.Logger) *Handler {
	return &Handler{
		orders:      svc,
		menu:        menuSvc,
		backup:      bak,
		dispatcher:  dispatcher,
		failed:      failed,
		reg:         reg,
		lg:          lg,
		info:        info,
		storageMode: storageMode,
	}
}

func (h *Handler) RestaurantInfo(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.info)
}

func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	h.reg.MenuFetches.Inc()
	items, source, err := h.menu.Get(r.Context())
	if err != nil {
		h.reg.MenuFetchErrors.Inc()
		h.lg.Error("menu_fetch_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "Failed to fetch menu items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    items,
		"source":  source,
		"count":   len(items),
	})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.PlaceOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.reg.OrdersRejected.Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	resp, err := h.orders.PlaceOrder(r.Context(), req)
	h.reg.PlaceLatencySec.Observe(time.Since(start).Seconds())
	if err != nil {
		var verr *orders.ValidationError
		if errors.As(err, &verr) {
			h.reg.OrdersRejected.Inc()
			writeError(w, http.StatusBadRequest, verr.Msg)
			return
		}
		h.lg.Error("place_order_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	h.reg.OrdersPlaced.Inc()
	if resp.SheetInfo.NewSheetCreated {
		h.reg.SheetRotations.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order placed successfully!",
		"data":    resp,
	})
}

func (h *Handler) VerifyOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.reg.OrderLookups.Inc()
	matched, err := h.orders.VerifyOrder(r.Context(), req)
	if err != nil {
		var verr *orders.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Msg)
		case errors.Is(err, orders.ErrNoRecentOrders):
			h.reg.LookupMisses.Inc()
			writeError(w, http.StatusNotFound, err.Error())
		default:
			h.lg.Error("verify_order_failed", err, nil)
			writeError(w, http.StatusInternalServerError, "Failed to verify order")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    matched,
		"count":   len(matched),
	})
}

// ListOrders serves the owner dashboard from the local backup store.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		writeError(w, http.StatusServiceUnavailable, "backup store not configured")
		return
	}
	list, err := h.backup.List()
	if err != nil {
		h.lg.Error("list_orders_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    list,
		"count":   len(list),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		writeError(w, http.StatusServiceUnavailable, "backup store not configured")
		return
	}
	order, err := h.backup.Get(r.PathValue("orderId"))
	if err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.lg.Error("get_order_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	writeSuccess(w, http.StatusOK, order)
}

// UpdateOrderStatus lets the owner move an order through its workflow
// (e.g. confirmed, preparing, delivered). The status lives only in the
// backup store; it does not touch the sheet row.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		writeError(w, http.StatusServiceUnavailable, "backup store not configured")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	orderID := r.PathValue("orderId")
	order, err := h.backup.Get(orderID)
	if err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.lg.Error("update_status_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	order.Status = req.Status
	if err := h.backup.Save(order); err != nil {
		h.lg.Error("update_status_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	h.lg.Info("order_status_updated", map[string]any{"order_id": orderID, "status": req.Status})
	writeSuccess(w, http.StatusOK, order)
}

func (h *Handler) SheetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.SheetStats(r.Context())
	if err != nil {
		h.lg.Error("sheet_stats_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "Failed to read sheet stats")
		return
	}
	writeSuccess(w, http.StatusOK, stats)
}

func (h *Handler) RetryNotifications(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil || h.failed == nil {
		writeError(w, http.StatusServiceUnavailable, "notification queue not configured")
		return
	}
	n, err := h.dispatcher.RetryFailed(r.Context(), h.failed)
	if err != nil {
		h.lg.Error("notification_retry_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "Failed to requeue notifications")
		return
	}
	h.reg.NotificationsQueued.Add(float64(n))
	writeSuccess(w, http.StatusOK, map[string]any{"requeued": n})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"storage": h.storageMode,
	}
	if stats, err := h.orders.SheetStats(r.Context()); err == nil {
		resp["sheets"] = stats
	} else {
		resp["status"] = "degraded"
	}
	writeSuccess(w, http.StatusOK, resp)
}
