package engine

import (
	"errors"
	"fmt"
)

var (
	ErrCombinationUnavailable = errors.New("combination unavailable")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrSelectionIncomplete    = errors.New("selection incomplete")
	ErrQuantityMismatch       = errors.New("line item quantities do not add up to the requested quantity")
	ErrSessionClosed          = errors.New("session closed")
	ErrCartUnavailable        = errors.New("cart unavailable")
	ErrFeedUnavailable        = errors.New("stock feed unavailable")
)

// StockFetchError reports a failed initial variant or fallback stock fetch.
// It is non-fatal: the session keeps an empty index and flags stock as unknown.
type StockFetchError struct {
	ProductID uint
	Err       error
}

func (e *StockFetchError) Error() string {
	return fmt.Sprintf("stock fetch for product %d failed: %v", e.ProductID, e.Err)
}

func (e *StockFetchError) Unwrap() error {
	return e.Err
}

// RejectionKind classifies why an append or commit was refused.
type RejectionKind string

const (
	RejectCombinationUnavailable RejectionKind = "combination_unavailable"
	RejectInsufficientStock      RejectionKind = "insufficient_stock"
	RejectSelectionIncomplete    RejectionKind = "selection_incomplete"
	RejectCartUnavailable        RejectionKind = "cart_unavailable"
)

// Rejection is an advisory refusal surfaced to the shopper. It never leaves
// the plan modified.
type Rejection struct {
	Kind    RejectionKind `json:"kind"`
	Message string        `json:"message"`
}

func (r *Rejection) Error() string {
	return r.Message
}

// Unwrap maps the rejection onto the package sentinels so callers can use errors.Is.
func (r *Rejection) Unwrap() error {
	switch r.Kind {
	case RejectCombinationUnavailable:
		return ErrCombinationUnavailable
	case RejectInsufficientStock:
		return ErrInsufficientStock
	case RejectSelectionIncomplete:
		return ErrSelectionIncomplete
	case RejectCartUnavailable:
		return ErrCartUnavailable
	}
	return nil
}

func unavailable(size, color string) *Rejection {
	return &Rejection{
		Kind:    RejectCombinationUnavailable,
		Message: fmt.Sprintf("%s / %s is not available", size, color),
	}
}

func insufficient(msg string) *Rejection {
	return &Rejection{Kind: RejectInsufficientStock, Message: msg}
}
