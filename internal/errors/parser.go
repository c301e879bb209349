package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ikkim/variant-reservation/internal/app/service"
	"github.com/ikkim/variant-reservation/internal/engine"
	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError maps service, engine and storage errors onto an HTTP status,
// a code and a message safe to show. context names the resource for
// not-found messages.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Internal error"}
	}

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return ErrorInfo{Status: http.StatusNotFound, Code: ProductNotFound, Message: "Product not found"}
	case errors.Is(err, service.ErrVariantNotFound):
		return ErrorInfo{Status: http.StatusNotFound, Code: VariantNotFound, Message: "Variant not found"}
	case errors.Is(err, service.ErrInvalidStock):
		return ErrorInfo{Status: http.StatusBadRequest, Code: StockInvalid, Message: "Stock must not be negative"}
	case errors.Is(err, service.ErrInvalidVariant):
		return ErrorInfo{Status: http.StatusBadRequest, Code: VariantInvalid, Message: "A variant needs a size and a color"}
	case errors.Is(err, engine.ErrCombinationUnavailable):
		return ErrorInfo{Status: http.StatusConflict, Code: PlanCombinationUnavailable, Message: err.Error()}
	case errors.Is(err, engine.ErrInsufficientStock):
		return ErrorInfo{Status: http.StatusConflict, Code: StockInsufficient, Message: err.Error()}
	case errors.Is(err, engine.ErrSelectionIncomplete):
		return ErrorInfo{Status: http.StatusBadRequest, Code: PlanSelectionIncomplete, Message: err.Error()}
	case errors.Is(err, engine.ErrCartUnavailable):
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: PlanCartUnavailable, Message: "Could not add the items to the cart"}
	case errors.Is(err, engine.ErrFeedUnavailable):
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: InternalFeedError, Message: "Live stock updates are unavailable. Please try again shortly"}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var fetchErr *engine.StockFetchError
	if errors.As(err, &fetchErr) {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: StockUnavailable, Message: "Stock status unknown"}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint") {
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Already exists"}
	}
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "timeout") {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: InternalDatabaseError, Message: "Storage is unavailable. Please try again shortly"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Internal error"}
}

func notFoundMessage(context string) string {
	if context == "" {
		return "Not found"
	}
	return strings.ToUpper(context[:1]) + context[1:] + " not found"
}
