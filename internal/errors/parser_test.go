package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-reservation/internal/app/service"
	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"product not found", service.ErrProductNotFound, http.StatusNotFound, ProductNotFound},
		{"wrapped variant not found", fmt.Errorf("update: %w", service.ErrVariantNotFound), http.StatusNotFound, VariantNotFound},
		{"negative stock", service.ErrInvalidStock, http.StatusBadRequest, StockInvalid},
		{"incomplete variant", service.ErrInvalidVariant, http.StatusBadRequest, VariantInvalid},
		{"rejection", &engine.Rejection{Kind: engine.RejectInsufficientStock, Message: "Only 1 left"}, http.StatusConflict, StockInsufficient},
		{"unavailable", &engine.Rejection{Kind: engine.RejectCombinationUnavailable, Message: "S / Red is not available"}, http.StatusConflict, PlanCombinationUnavailable},
		{"cart unavailable", &engine.Rejection{Kind: engine.RejectCartUnavailable, Message: "Could not add the items to the cart"}, http.StatusServiceUnavailable, PlanCartUnavailable},
		{"feed unavailable", fmt.Errorf("%w: %w", engine.ErrFeedUnavailable, errors.New("dial tcp: connection refused")), http.StatusServiceUnavailable, InternalFeedError},
		{"incomplete selection", engine.ErrSelectionIncomplete, http.StatusBadRequest, PlanSelectionIncomplete},
		{"stock fetch", &engine.StockFetchError{ProductID: 1, Err: errors.New("boom")}, http.StatusServiceUnavailable, StockUnavailable},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, ResourceNotFound},
		{"duplicate", errors.New("ERROR: duplicate key value violates unique constraint"), http.StatusConflict, ResourceAlreadyExists},
		{"db down", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, InternalDatabaseError},
		{"unknown", errors.New("kaboom"), http.StatusInternalServerError, InternalServerError},
		{"nil", nil, http.StatusInternalServerError, InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, "variant")
			assert.Equal(t, tt.status, info.Status)
			assert.Equal(t, tt.code, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_RejectionKeepsMessage(t *testing.T) {
	info := ParseError(&engine.Rejection{Kind: engine.RejectInsufficientStock, Message: "Only 1 left in M / Red"}, "")

	assert.Equal(t, "Only 1 left in M / Red", info.Message)
}

func TestParseError_NotFoundMessageUsesContext(t *testing.T) {
	assert.Equal(t, "Variant not found", ParseError(gorm.ErrRecordNotFound, "variant").Message)
	assert.Equal(t, "Not found", ParseError(gorm.ErrRecordNotFound, "").Message)
}

func TestRespondWithParsedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithParsedError(c, service.ErrProductNotFound, "product")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"PRODUCT_NOT_FOUND","message":"Product not found"}`, w.Body.String())
}
