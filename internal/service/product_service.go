package service

import (
	"context"
	"fmt"

	"avin-home/internal/domain"
	"avin-home/internal/repository"
	"avin-home/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput is the admin form for a new product
type ProductInput struct {
	Name          string               `json:"name" validate:"required,notblank,max=200"`
	Category      string               `json:"category" validate:"required"`
	Price         decimal.Decimal      `json:"price"`
	DiscountPrice *decimal.Decimal     `json:"discount_price,omitempty"`
	Stock         int                  `json:"stock" validate:"gte=0"`
	Status        domain.ProductStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	Description   string               `json:"description"`
	Image         string               `json:"image"`
	Rating        float64              `json:"rating" validate:"gte=0,lte=5"`
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	Query(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (domain.InventoryStats, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// Query searches, filters, sorts and paginates the catalog
func (s *productService) Query(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("failed to list products: %w", err)
	}
	return domain.QueryProducts(products, q), nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Create validates the form and adds the product to the catalog
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if fields := s.validateInput(ctx, input); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	status := input.Status
	if status == "" {
		status = domain.ProductStatusActive
	}

	product := &domain.Product{
		Name:          input.Name,
		Category:      input.Category,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Stock:         input.Stock,
		Status:        status,
		Description:   input.Description,
		Image:         input.Image,
		Rating:        input.Rating,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("category", product.Category),
	)
	return product, nil
}

// Update merges the patch into an existing product
func (s *productService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if fields := s.validatePatch(ctx, patch); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	product, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("Product updated", zap.String("product_id", id))
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// Stats summarizes inventory for the admin view
func (s *productService) Stats(ctx context.Context) (domain.InventoryStats, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return domain.InventoryStats{}, fmt.Errorf("failed to list products: %w", err)
	}
	return domain.ComputeInventoryStats(products), nil
}

func (s *productService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *productService) validateInput(ctx context.Context, input ProductInput) []validation.FieldError {
	var fields []validation.FieldError
	if err := validation.Struct(input); err != nil {
		fields = validation.FieldErrors(err)
	}

	if !input.Price.IsPositive() {
		fields = append(fields, validation.FieldError{Field: "price", Message: "Value must be greater than 0"})
	}
	if input.DiscountPrice != nil && !validDiscount(*input.DiscountPrice, input.Price) {
		fields = append(fields, validation.FieldError{Field: "discount_price", Message: "Discount must be positive and below the price"})
	}
	if input.Category != "" && !s.knownCategory(ctx, input.Category) {
		fields = append(fields, validation.FieldError{Field: "category", Message: "Unknown category"})
	}
	return fields
}

func (s *productService) validatePatch(ctx context.Context, patch domain.ProductPatch) []validation.FieldError {
	var fields []validation.FieldError
	if patch.Name != nil && *patch.Name == "" {
		fields = append(fields, validation.FieldError{Field: "name", Message: "This field is required"})
	}
	if patch.Category != nil && !s.knownCategory(ctx, *patch.Category) {
		fields = append(fields, validation.FieldError{Field: "category", Message: "Unknown category"})
	}
	if patch.Price != nil && !patch.Price.IsPositive() {
		fields = append(fields, validation.FieldError{Field: "price", Message: "Value must be greater than 0"})
	}
	if patch.DiscountPrice != nil && !patch.DiscountPrice.IsPositive() {
		fields = append(fields, validation.FieldError{Field: "discount_price", Message: "Value must be greater than 0"})
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		fields = append(fields, validation.FieldError{Field: "stock", Message: "Value must be greater than or equal to 0"})
	}
	if patch.Status != nil && !patch.Status.Valid() {
		fields = append(fields, validation.FieldError{Field: "status", Message: "Value must be one of active inactive"})
	}
	if patch.Rating != nil && (*patch.Rating < 0 || *patch.Rating > 5) {
		fields = append(fields, validation.FieldError{Field: "rating", Message: "Value must be between 0 and 5"})
	}
	return fields
}

func (s *productService) knownCategory(ctx context.Context, id string) bool {
	_, err := s.categories.FindByID(ctx, id)
	return err == nil
}

func validDiscount(discount, price decimal.Decimal) bool {
	return discount.IsPositive() && discount.LessThan(price)
}
