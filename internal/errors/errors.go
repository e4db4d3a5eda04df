// Package errors provides the error taxonomy shared by the game engine,
// services and HTTP handlers. Every error that reaches a caller is an
// *AppError carrying a kind, a stable code and a human-readable message.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindState        Kind = "state"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// AppError represents a structured application error with a kind, error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so copies made
// by Wrap and WithMessage still match their sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same kind/code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Kind:       sentinel.Kind,
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Kind:       sentinel.Kind,
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithMessagef is WithMessage with fmt formatting.
func WithMessagef(sentinel *AppError, format string, args ...any) *AppError {
	return WithMessage(sentinel, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func validation(code, msg string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: msg, StatusCode: http.StatusBadRequest}
}

func notFound(code, msg string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: msg, StatusCode: http.StatusNotFound}
}

func state(code, msg string) *AppError {
	return &AppError{Kind: KindState, Code: code, Message: msg, StatusCode: http.StatusConflict}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized  = &AppError{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidAPIKey = &AppError{Kind: KindUnauthorized, Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = validation("INVALID_INPUT", "Invalid input")
	ErrNotFound       = notFound("NOT_FOUND", "Resource not found")
	ErrInternalServer = &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Catalog errors.
var (
	ErrProfessionNotFound = notFound("PROFESSION_NOT_FOUND", "Profession not found")
	ErrCardNotFound       = notFound("CARD_NOT_FOUND", "Opportunity card not found")
	ErrDoodadNotFound     = notFound("DOODAD_NOT_FOUND", "Doodad not found")
	ErrInvalidCatalog     = validation("INVALID_CATALOG", "Catalog is invalid")
)

// Session errors.
var (
	ErrGameNotFound      = notFound("GAME_NOT_FOUND", "Game not found")
	ErrInvalidState      = state("INVALID_STATE", "Command is not valid in the current turn state")
	ErrGameCompleted     = state("GAME_COMPLETED", "Game is completed")
	ErrNoPendingDecision = state("NO_PENDING_DECISION", "There is no pending card or decision")
	ErrDecisionPending   = state("DECISION_PENDING", "A card or decision is still pending")
	ErrDuplicateCommand  = state("DUPLICATE_COMMAND", "Command was already applied")
	ErrStaleGame         = state("STALE_GAME", "Game was modified by another command, retry")
)

// Ledger errors.
var (
	ErrInsufficientFunds   = validation("INSUFFICIENT_FUNDS", "Insufficient cash on hand")
	ErrInvalidAmount       = validation("INVALID_AMOUNT", "Amount is invalid")
	ErrInvalidDiceValue    = validation("INVALID_DICE_VALUE", "Dice value must be between 1 and 6")
	ErrSalePriceOutOfRange = validation("SALE_PRICE_OUT_OF_RANGE", "Sale price is outside the allowed range")
)

// Registry errors.
var (
	ErrInvestmentNotFound = notFound("INVESTMENT_NOT_FOUND", "Investment not found")
	ErrLiabilityNotFound  = notFound("LIABILITY_NOT_FOUND", "Liability not found")
)
