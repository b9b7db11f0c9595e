package repository

import (
	"context"
	"errors"

	"avin-home/internal/domain"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
}

type categoryRepository struct {
	categories []domain.Category
}

// NewCategoryRepository creates a repository over the fixed category list
func NewCategoryRepository() CategoryRepository {
	categories := make([]domain.Category, len(domain.Categories))
	copy(categories, domain.Categories)
	return &categoryRepository{categories: categories}
}

// List retrieves all categories in display order
func (r *categoryRepository) List(_ context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, len(r.categories))
	copy(categories, r.categories)
	return categories, nil
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(_ context.Context, id string) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			category := c
			return &category, nil
		}
	}
	return nil, ErrCategoryNotFound
}
