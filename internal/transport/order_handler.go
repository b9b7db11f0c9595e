package transport

import (
	"net/http"
	"time"

	"avin-home/internal/domain"
	"avin-home/internal/middleware"
	"avin-home/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// UpdateStatusRequest represents the order status payload
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// UpdatePaymentRequest represents the payment status payload
type UpdatePaymentRequest struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status" validate:"required"`
}

// OrderHandler handles HTTP requests for orders and the admin dashboard
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers the customer order history route
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireRole([]string{middleware.RoleCustomer, middleware.RoleAdmin}, h.logger))
		r.Get("/mine", h.ListMine)
	})
}

// RegisterAdminRoutes registers order management under an admin router
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/dashboard", h.GetDashboard)
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/recent", h.ListRecent)
		r.Get("/stats", h.GetStats)
		r.Get("/revenue", h.GetRevenue)
		r.Get("/{id}", h.GetOrder)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Patch("/{id}/payment", h.UpdatePayment)
		r.Delete("/{id}", h.DeleteOrder)
	})
}

// ListMine returns the signed-in customer's orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	email, _ := middleware.GetUserEmail(r.Context())

	orders, err := h.orderService.ListForUser(r.Context(), domain.Customer{ID: userID, Email: email})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "List customer orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListOrders searches orders for the admin list
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := parseDate(q.Get("from"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		return
	}

	page, err := h.orderService.Search(r.Context(), service.OrderSearch{
		Filter: domain.OrderFilter{
			Search: q.Get("search"),
			Status: q.Get("status"),
			From:   from,
			To:     to,
		},
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", domain.DefaultPageSize),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "List orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// ListRecent returns the newest orders
func (h *OrderHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListRecent(r.Context(), queryInt(r, "limit", service.DefaultRecentLimit))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "List recent orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetStats returns order statistics
func (h *OrderHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orderService.Stats(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Order stats")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// GetRevenue returns paid revenue grouped by month
func (h *OrderHandler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := h.orderService.MonthlyRevenue(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Monthly revenue")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, revenue)
}

// GetDashboard returns the admin landing view
func (h *OrderHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.orderService.Dashboard(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Dashboard")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, dashboard)
}

// GetOrder returns a single order
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Get order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateStatus moves an order through fulfilment
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Update order status")
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UpdatePayment records payment settlement
func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "id"), req.PaymentStatus)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Update payment status")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// DeleteOrder removes an order
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orderService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.logger, err, "Delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
