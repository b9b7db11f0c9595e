package transport

import (
	"net/http"

	"avin-home/internal/domain"
	"avin-home/internal/middleware"
	"avin-home/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers the public catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/categories", h.ListCategories)
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})
}

// RegisterAdminRoutes registers catalog management under an admin router
func (h *ProductHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/stats", h.GetStats)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

// ListCategories returns the fixed category list
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.Categories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "List categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListProducts searches the catalog. Only active products are listed unless
// a status filter is given.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := q.Get("status")
	if status == "" {
		status = string(domain.ProductStatusActive)
	}

	page, err := h.productService.Query(r.Context(), domain.ProductQuery{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		Status:    status,
		SortBy:    q.Get("sort"),
		SortOrder: domain.SortOrder(q.Get("order")),
		Page:      queryInt(r, "page", 1),
		PageSize:  queryInt(r, "page_size", domain.DefaultPageSize),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "List products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// GetProduct returns a single product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct adds a product to the catalog
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := middleware.DecodeJSON(w, r, &input); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Create product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct applies a partial update
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if err := middleware.DecodeJSON(w, r, &patch); err != nil {
		respondWithDecodeError(w, h.logger, err)
		return
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Update product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.logger, err, "Delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats returns inventory statistics
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.productService.Stats(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Product stats")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}
