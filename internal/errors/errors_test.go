package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	internal := fmt.Errorf("db down")
	err := Wrap(ErrInternalServer, internal)

	if !stderrors.Is(err, ErrInternalServer) {
		t.Fatal("expected wrapped error to match its sentinel")
	}
	if !stderrors.Is(err, internal) {
		t.Fatal("expected wrapped error to unwrap to the internal error")
	}
	if err.Kind != KindInternal {
		t.Errorf("expected kind internal, got %s", err.Kind)
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessagef(ErrInsufficientFunds, "need %d, have %d", 2000, 1000)

	if err.Message != "need 2000, have 1000" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.StatusCode)
	}
	if !stderrors.Is(err, ErrInsufficientFunds) {
		t.Error("expected custom message error to match sentinel")
	}
	if stderrors.Is(err, ErrInvalidAmount) {
		t.Error("did not expect match against a different sentinel")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", ErrSalePriceOutOfRange, KindValidation},
		{"not found", ErrLiabilityNotFound, KindNotFound},
		{"state", ErrDecisionPending, KindState},
		{"wrapped", fmt.Errorf("outer: %w", ErrGameNotFound), KindNotFound},
		{"plain", fmt.Errorf("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}
