package service

import (
	"strings"

	"avin-home/internal/domain"
	"avin-home/internal/validation"
)

// ValidationError reports invalid input field by field
type ValidationError struct {
	Fields []validation.FieldError
	Err    error
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StockConflictError blocks checkout while cart lines exceed available stock
type StockConflictError struct {
	Warnings []domain.StockWarning
}

func (e *StockConflictError) Error() string {
	return domain.ErrStockExceeded.Error()
}

func (e *StockConflictError) Unwrap() error {
	return domain.ErrStockExceeded
}
