package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"avin-home/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var errorStatuses = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusConflict,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
}

// Property: every error response carries the status text, the message and an RFC3339 timestamp
func TestProperty_ErrorsHaveConsistentStructure(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("error envelope is complete", prop.ForAll(
		func(status int, message string) bool {
			w := httptest.NewRecorder()
			RespondWithError(w, status, message)

			var response ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				return false
			}
			_, err := time.Parse(time.RFC3339, response.Error.Timestamp)

			return w.Code == status &&
				w.Header().Get("Content-Type") == "application/json" &&
				response.Error.Code == http.StatusText(status) &&
				response.Error.Message == message &&
				response.Error.Details == nil &&
				err == nil
		},
		gen.IntRange(0, len(errorStatuses)-1).Map(func(i int) int { return errorStatuses[i] }),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: field errors come back one per field under validation_errors
func TestProperty_ValidationErrorsAreListedPerField(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors round trip", prop.ForAll(
		func(fields []string) bool {
			errs := make([]validation.FieldError, len(fields))
			for i, f := range fields {
				errs[i] = validation.FieldError{Field: f, Message: f + " is required"}
			}

			w := httptest.NewRecorder()
			RespondWithValidationErrors(w, errs)

			var response struct {
				Error struct {
					Message string `json:"message"`
					Details struct {
						ValidationErrors []validation.FieldError `json:"validation_errors"`
					} `json:"details"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				return false
			}

			got := response.Error.Details.ValidationErrors
			if w.Code != http.StatusBadRequest || response.Error.Message != "validation failed" || len(got) != len(errs) {
				return false
			}
			for i := range errs {
				if got[i] != errs[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.Identifier()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRespondWithErrorDetails(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithErrorDetails(w, http.StatusConflict, "cart quantity exceeds available stock", map[string]interface{}{
		"stock_warnings": []map[string]interface{}{{"product_id": "sofa", "requested": 3, "available": 1}},
	})

	require.Equal(t, http.StatusConflict, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Conflict", response.Error.Code)
	assert.Contains(t, response.Error.Details, "stock_warnings")
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, http.StatusCreated, map[string]string{"id": "ORD-20250101-ab12"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"ORD-20250101-ab12"}`, w.Body.String())

	w = httptest.NewRecorder()
	RespondWithJSON(w, http.StatusNoContent, map[string]string{"ignored": "yes"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorHandlingMiddlewareRecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	r := chi.NewRouter()
	r.Use(ErrorHandlingMiddleware(zap.New(core)))
	r.Get("/api/carts/{cartID}", func(w http.ResponseWriter, r *http.Request) {
		panic("snapshot exploded")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/carts/c1", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "internal server error", response.Error.Message)

	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/carts/{cartID}", entries[0].ContextMap()["route"])
	assert.Equal(t, "snapshot exploded", entries[0].ContextMap()["panic"])
}

func TestErrorHandlingMiddlewareRepanicsOnAbort(t *testing.T) {
	handler := ErrorHandlingMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
