package transport

import (
	"net/http"

	"avin-home/internal/domain"
	"avin-home/internal/middleware"
	"avin-home/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest represents the add to cart payload
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,notblank"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// SetQuantityRequest represents the quantity update payload. Values outside
// the stock range are clamped rather than rejected.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartHandler handles HTTP requests for shopping carts
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers cart routes under /api/carts/{cartID}
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.GetSummary)
	r.Delete("/", h.Clear)
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.AddItem)
		r.Put("/{productID}", h.SetQuantity)
		r.Delete("/{productID}", h.RemoveItem)
		r.Post("/{productID}/increment", h.Increment)
		r.Post("/{productID}/decrement", h.Decrement)
	})
}

// GetSummary returns the priced cart. payment_method selects the quote.
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	method := domain.PaymentMethod(r.URL.Query().Get("payment_method"))
	h.respondWithSummary(w, r, method, http.StatusOK)
}

// AddItem puts a product in the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	if _, err := h.cartService.AddProduct(r.Context(), chi.URLParam(r, "cartID"), req.ProductID, req.Quantity); err != nil {
		respondWithServiceError(w, h.logger, err, "Add to cart")
		return
	}
	h.respondWithSummary(w, r, "", http.StatusCreated)
}

// SetQuantity changes a line quantity
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	cartID, productID := chi.URLParam(r, "cartID"), chi.URLParam(r, "productID")
	if _, err := h.cartService.SetQuantity(r.Context(), cartID, productID, req.Quantity); err != nil {
		respondWithServiceError(w, h.logger, err, "Set quantity")
		return
	}
	h.respondWithSummary(w, r, "", http.StatusOK)
}

// Increment raises a line quantity by one
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	cartID, productID := chi.URLParam(r, "cartID"), chi.URLParam(r, "productID")
	if _, err := h.cartService.Increment(r.Context(), cartID, productID); err != nil {
		respondWithServiceError(w, h.logger, err, "Increment quantity")
		return
	}
	h.respondWithSummary(w, r, "", http.StatusOK)
}

// Decrement lowers a line quantity by one
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	cartID, productID := chi.URLParam(r, "cartID"), chi.URLParam(r, "productID")
	if _, err := h.cartService.Decrement(r.Context(), cartID, productID); err != nil {
		respondWithServiceError(w, h.logger, err, "Decrement quantity")
		return
	}
	h.respondWithSummary(w, r, "", http.StatusOK)
}

// RemoveItem drops a line from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, productID := chi.URLParam(r, "cartID"), chi.URLParam(r, "productID")
	if _, err := h.cartService.Remove(r.Context(), cartID, productID); err != nil {
		respondWithServiceError(w, h.logger, err, "Remove item")
		return
	}
	h.respondWithSummary(w, r, "", http.StatusOK)
}

// Clear empties the cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cartService.Clear(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		respondWithServiceError(w, h.logger, err, "Clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) respondWithSummary(w http.ResponseWriter, r *http.Request, method domain.PaymentMethod, status int) {
	summary, err := h.cartService.Summary(r.Context(), chi.URLParam(r, "cartID"), method)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Cart summary")
		return
	}
	middleware.RespondWithJSON(w, status, summary)
}
