package transport

import (
	"net/http"

	"avin-home/internal/domain"
	"avin-home/internal/middleware"
	"avin-home/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// PaymentRequest represents the payment method payload
type PaymentRequest struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"required"`
}

// CheckoutHandler handles HTTP requests for the checkout flow
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers checkout routes under /api/carts/{cartID}. The
// optional auth middleware lets a signed-in customer own the order.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, optionalAuth func(http.Handler) http.Handler) {
	r.Route("/checkout", func(r chi.Router) {
		r.With(optionalAuth).Post("/", h.Start)
		r.Get("/", h.Get)
		r.Put("/shipping", h.UpdateShipping)
		r.Put("/payment", h.SelectPayment)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Post("/confirm", h.Confirm)
	})
}

// Start opens a checkout for the cart
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	var customer *domain.Customer
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		email, _ := middleware.GetUserEmail(r.Context())
		customer = &domain.Customer{ID: userID, Email: email}
	}

	state, err := h.checkoutService.Start(r.Context(), chi.URLParam(r, "cartID"), customer)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Start checkout")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, state)
}

// Get returns the current checkout state
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.checkoutService.Get(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Get checkout")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

// UpdateShipping stores the shipping form. It is validated when moving on.
func (h *CheckoutHandler) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	var info domain.ShippingInfo
	if err := middleware.DecodeJSON(w, r, &info); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	state, err := h.checkoutService.UpdateShipping(r.Context(), chi.URLParam(r, "cartID"), info)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Update shipping")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

// SelectPayment chooses the payment method
func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	state, err := h.checkoutService.SelectPayment(r.Context(), chi.URLParam(r, "cartID"), req.PaymentMethod)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Select payment")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

// Next moves the flow one step forward
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	state, err := h.checkoutService.Next(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Checkout next")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

// Back moves the flow one step backward
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	state, err := h.checkoutService.Back(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Checkout back")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

// Confirm places the order
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkoutService.Confirm(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Confirm order")
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("cart_id", chi.URLParam(r, "cartID")),
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}
