package transport

import (
	"errors"
	"net/http"
	"strconv"

	"avin-home/internal/domain"
	"avin-home/internal/middleware"
	"avin-home/internal/service"

	"go.uber.org/zap"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrCheckoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPayment),
		errors.Is(err, domain.ErrInvalidMethod),
		errors.Is(err, domain.ErrShippingInvalid):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductInactive),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrStockExceeded),
		errors.Is(err, domain.ErrInvalidStep),
		errors.Is(err, domain.ErrCheckoutProcessing),
		errors.Is(err, domain.ErrCheckoutCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes the error response for a failed service call
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.Debug(action+" rejected", zap.Error(err))
		middleware.RespondWithValidationErrors(w, validationErr.Fields)
		return
	}

	var conflict *service.StockConflictError
	if errors.As(err, &conflict) {
		logger.Info(action+" blocked by stock", zap.Int("warnings", len(conflict.Warnings)))
		middleware.RespondWithErrorDetails(w, http.StatusConflict, conflict.Error(), map[string]interface{}{
			"stock_warnings": conflict.Warnings,
		})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(action+" failed", zap.Error(err))
		middleware.RespondWithError(w, status, "internal server error")
		return
	}

	logger.Debug(action+" failed", zap.Error(err), zap.Int("status", status))
	middleware.RespondWithError(w, status, rootMessage(err))
}

// rootMessage is the message of the innermost domain sentinel, so callers do
// not see wrapping context such as "failed to update cart: ..."
func rootMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrProductNotFound, domain.ErrOrderNotFound, domain.ErrCartItemNotFound,
		domain.ErrCheckoutNotFound, domain.ErrInvalidQuantity, domain.ErrProductInactive,
		domain.ErrOutOfStock, domain.ErrEmptyCart, domain.ErrStockExceeded,
		domain.ErrCheckoutProcessing, domain.ErrInvalidStatus, domain.ErrInvalidPayment,
		domain.ErrInvalidMethod, domain.ErrShippingInvalid, domain.ErrInvalidStep,
		domain.ErrCheckoutCompleted,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// respondWithDecodeError answers a request whose body could not be decoded or validated
func respondWithDecodeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Debug("Request validation failed", zap.Error(err))
	if fields := middleware.FormatValidationErrors(err); len(fields) > 0 {
		middleware.RespondWithValidationErrors(w, fields)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

// queryInt reads an integer query parameter. Missing or malformed values yield def.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
