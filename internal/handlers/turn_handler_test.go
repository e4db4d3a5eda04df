package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"ratrace/internal/catalog"
	"ratrace/internal/engine"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/services"
)

type mockTurnService struct {
	rollDiceFn       func(cmd services.Command, suggested *int) (*services.CommandResult[engine.RollResult], error)
	drawCardFn       func(ownerID, gameID string) (*engine.Draw, error)
	resolveCharityFn func(cmd services.Command, accept bool) (*services.CommandResult[services.CharityOutcome], error)
	endTurnFn        func(cmd services.Command) (*services.CommandResult[engine.TurnResult], error)
}

var _ services.TurnServicer = (*mockTurnService)(nil)

func (m *mockTurnService) RollDice(cmd services.Command, suggested *int) (*services.CommandResult[engine.RollResult], error) {
	if m.rollDiceFn != nil {
		return m.rollDiceFn(cmd, suggested)
	}
	return &services.CommandResult[engine.RollResult]{}, nil
}

func (m *mockTurnService) DrawCard(ownerID, gameID string) (*engine.Draw, error) {
	if m.drawCardFn != nil {
		return m.drawCardFn(ownerID, gameID)
	}
	return &engine.Draw{}, nil
}

func (m *mockTurnService) ResolveCharity(cmd services.Command, accept bool) (*services.CommandResult[services.CharityOutcome], error) {
	if m.resolveCharityFn != nil {
		return m.resolveCharityFn(cmd, accept)
	}
	return &services.CommandResult[services.CharityOutcome]{}, nil
}

func (m *mockTurnService) EndTurn(cmd services.Command) (*services.CommandResult[engine.TurnResult], error) {
	if m.endTurnFn != nil {
		return m.endTurnFn(cmd)
	}
	return &services.CommandResult[engine.TurnResult]{}, nil
}

func setupTurnRouter(handler *TurnHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/games/:id", injectOwnerID(testOwner))
	g.POST("/roll", handler.RollDice)
	g.POST("/draw", handler.DrawCard)
	g.POST("/charity", handler.ResolveCharity)
	g.POST("/end-turn", handler.EndTurn)
	return r
}

func TestTurnHandler_RollDice(t *testing.T) {
	t.Run("empty body rolls without a suggestion", func(t *testing.T) {
		svc := &mockTurnService{
			rollDiceFn: func(cmd services.Command, suggested *int) (*services.CommandResult[engine.RollResult], error) {
				if suggested != nil {
					t.Errorf("expected no suggestion, got %d", *suggested)
				}
				if cmd.GameID != "g1" {
					t.Errorf("expected game g1, got %s", cmd.GameID)
				}
				return &services.CommandResult[engine.RollResult]{
					Result: engine.RollResult{Dice: []int{4}, Total: 4, Position: 4, Space: catalog.SpaceOpportunity},
				}, nil
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/roll", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		roll := parseJSON(t, rec)["result"].(map[string]interface{})
		if roll["total"] != float64(4) || roll["space"] != "opportunity" {
			t.Errorf("unexpected roll %v", roll)
		}
	})

	t.Run("passes a suggested value", func(t *testing.T) {
		svc := &mockTurnService{
			rollDiceFn: func(_ services.Command, suggested *int) (*services.CommandResult[engine.RollResult], error) {
				if suggested == nil || *suggested != 3 {
					t.Errorf("expected suggestion 3, got %v", suggested)
				}
				return &services.CommandResult[engine.RollResult]{}, nil
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/roll", `{"dice_value":3}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on out of range value", func(t *testing.T) {
		r := setupTurnRouter(NewTurnHandler(&mockTurnService{}))

		rec := doRequest(r, "POST", "/games/g1/roll", `{"dice_value":9}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DICE_VALUE")
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		r := setupTurnRouter(NewTurnHandler(&mockTurnService{}))

		rec := doRequest(r, "POST", "/games/g1/roll", `{"dice_value":`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 when a decision is pending", func(t *testing.T) {
		svc := &mockTurnService{
			rollDiceFn: func(_ services.Command, _ *int) (*services.CommandResult[engine.RollResult], error) {
				return nil, apperrors.ErrDecisionPending
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/roll", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "DECISION_PENDING")
		if kind := result["error"].(map[string]interface{})["kind"]; kind != "state" {
			t.Errorf("expected kind state, got %v", kind)
		}
	})

	t.Run("returns 409 on a replayed key", func(t *testing.T) {
		svc := &mockTurnService{
			rollDiceFn: func(cmd services.Command, _ *int) (*services.CommandResult[engine.RollResult], error) {
				if cmd.IdempotencyKey == "roll-1" {
					return nil, apperrors.ErrDuplicateCommand
				}
				return &services.CommandResult[engine.RollResult]{}, nil
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequestWithHeaders(r, "POST", "/games/g1/roll", "", map[string]string{IdempotencyHeader: "roll-1"})

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_COMMAND")
	})
}

func TestTurnHandler_DrawCard(t *testing.T) {
	t.Run("returns the pending card", func(t *testing.T) {
		svc := &mockTurnService{
			drawCardFn: func(_, _ string) (*engine.Draw, error) {
				return &engine.Draw{Space: catalog.SpaceDoodad, Doodad: &catalog.Doodad{ID: "gadget", Cost: 500}}, nil
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/draw", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		doodad := parseJSON(t, rec)["doodad"].(map[string]interface{})
		if doodad["id"] != "gadget" {
			t.Errorf("unexpected doodad %v", doodad)
		}
	})

	t.Run("returns 409 without a pending card", func(t *testing.T) {
		svc := &mockTurnService{
			drawCardFn: func(_, _ string) (*engine.Draw, error) {
				return nil, apperrors.ErrNoPendingDecision
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/draw", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_PENDING_DECISION")
	})
}

func TestTurnHandler_ResolveCharity(t *testing.T) {
	t.Run("declines", func(t *testing.T) {
		var got *bool
		svc := &mockTurnService{
			resolveCharityFn: func(_ services.Command, accept bool) (*services.CommandResult[services.CharityOutcome], error) {
				got = &accept
				return &services.CommandResult[services.CharityOutcome]{Result: services.CharityOutcome{Accepted: accept}}, nil
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/charity", `{"accept":false}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || *got {
			t.Error("expected the offer declined")
		}
	})

	t.Run("returns 400 when the answer is missing", func(t *testing.T) {
		r := setupTurnRouter(NewTurnHandler(&mockTurnService{}))

		rec := doRequest(r, "POST", "/games/g1/charity", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on insufficient funds", func(t *testing.T) {
		svc := &mockTurnService{
			resolveCharityFn: func(_ services.Command, _ bool) (*services.CommandResult[services.CharityOutcome], error) {
				return nil, apperrors.ErrInsufficientFunds
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/charity", `{"accept":true}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_FUNDS")
	})
}

func TestTurnHandler_EndTurn(t *testing.T) {
	t.Run("returns the settlement", func(t *testing.T) {
		svc := &mockTurnService{
			endTurnFn: func(_ services.Command) (*services.CommandResult[engine.TurnResult], error) {
				return &services.CommandResult[engine.TurnResult]{
					Result: engine.TurnResult{Turn: 2, Settlement: &engine.Settlement{CashFlow: 2500}},
				}, nil
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/end-turn", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		res := parseJSON(t, rec)["result"].(map[string]interface{})
		if res["turn"] != float64(2) {
			t.Errorf("expected turn 2, got %v", res["turn"])
		}
	})

	t.Run("returns 409 before rolling", func(t *testing.T) {
		svc := &mockTurnService{
			endTurnFn: func(_ services.Command) (*services.CommandResult[engine.TurnResult], error) {
				return nil, apperrors.ErrInvalidState
			},
		}
		r := setupTurnRouter(NewTurnHandler(svc))

		rec := doRequest(r, "POST", "/games/g1/end-turn", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_STATE")
	})
}
