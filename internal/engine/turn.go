package engine

import (
	"ratrace/internal/catalog"
	apperrors "ratrace/internal/errors"
)

// Draw is the card revealed by landing on a space. Exactly one of the
// payload fields is set.
type Draw struct {
	Space       catalog.SpaceKind        `json:"space"`
	Deck        catalog.DeckKind         `json:"deck,omitempty"`
	Opportunity *catalog.OpportunityCard `json:"opportunity,omitempty"`
	Doodad      *catalog.Doodad          `json:"doodad,omitempty"`
	Event       *catalog.MarketEvent     `json:"event,omitempty"`
}

// RollResult describes a completed roll.
type RollResult struct {
	Dice       []int             `json:"dice"`
	Total      int               `json:"total"`
	Position   int               `json:"position"`
	Space      catalog.SpaceKind `json:"space"`
	Draw       *Draw             `json:"draw,omitempty"`
	Settlement *Settlement       `json:"settlement,omitempty"`
	TurnState  TurnState         `json:"turn_state"`
}

// TurnResult describes a completed endTurn.
type TurnResult struct {
	Settlement *Settlement `json:"settlement,omitempty"`
	Turn       int         `json:"turn"`
	Escaped    bool        `json:"escaped"`
	Won        bool        `json:"won"`
	Expired    []Modifier  `json:"expired,omitempty"`
}

// RollDice rolls, moves and resolves the landed space. A suggested value is
// checked for range and otherwise ignored: the session's own dice decide.
// While a charity benefit is active two dice are rolled.
func (s *Session) RollDice(suggested *int) (RollResult, error) {
	if suggested != nil && (*suggested < 1 || *suggested > 6) {
		return RollResult{}, apperrors.ErrInvalidDiceValue
	}

	var res RollResult
	err := s.mutate(func(st *State) error {
		switch st.TurnState {
		case TurnAwaitingRoll:
		case TurnAwaitingCardDecision, TurnAwaitingCharityDecision:
			return apperrors.ErrDecisionPending
		default:
			return apperrors.WithMessagef(apperrors.ErrInvalidState, "Cannot roll while %s", st.TurnState)
		}

		st.TurnState = TurnRolling
		res.Dice = []int{s.dice.Roll()}
		if s.useModifier(st, ModifierCharityDice) {
			res.Dice = append(res.Dice, s.dice.Roll())
		}
		for _, d := range res.Dice {
			res.Total += d
		}
		st.LastRoll = res.Dice

		st.TurnState = TurnSpaceResolution
		res.Space = s.advance(st, res.Total)
		res.Position = st.Player.CurrentPosition
		res.Draw, res.Settlement = s.resolveSpace(st, res.Space)
		res.TurnState = st.TurnState
		return nil
	})
	if err != nil {
		return RollResult{}, err
	}
	return res, nil
}

// resolveSpace dispatches on the landed space. Opportunity and doodad
// spaces leave a pending card; market events apply immediately.
func (s *Session) resolveSpace(st *State, space catalog.SpaceKind) (*Draw, *Settlement) {
	switch space {
	case catalog.SpaceOpportunity:
		card := s.drawOpportunity(st)
		st.Pending = &Pending{Space: space, Deck: catalog.DeckOpportunity, CardID: card.ID}
		st.TurnState = TurnAwaitingCardDecision
		return &Draw{Space: space, Deck: catalog.DeckOpportunity, Opportunity: &card}, nil

	case catalog.SpaceDoodad:
		d := s.drawDoodad(st)
		st.Pending = &Pending{Space: space, Deck: catalog.DeckDoodad, CardID: d.ID}
		st.TurnState = TurnAwaitingCardDecision
		return &Draw{Space: space, Deck: catalog.DeckDoodad, Doodad: &d}, nil

	case catalog.SpaceMarket:
		ev := s.drawMarketEvent(st)
		s.applyEvent(st, ev)
		st.TurnState = TurnSettlement
		return &Draw{Space: space, Deck: catalog.DeckMarket, Event: &ev}, nil

	case catalog.SpacePayday:
		settlement := s.settle(st)
		st.TurnState = TurnSettlement
		return nil, &settlement

	case catalog.SpaceCharity:
		offer, ok := s.eng.cat.CharityOffer()
		if !ok {
			st.TurnState = TurnSettlement
			return nil, nil
		}
		st.Pending = &Pending{Space: space, CardID: offer.ID}
		st.TurnState = TurnAwaitingCharityDecision
		return &Draw{Space: space, Event: &offer}, nil
	}

	st.TurnState = TurnSettlement
	return nil, nil
}

// DrawCard returns the card pending a decision.
func (s *Session) DrawCard() (Draw, error) {
	if s.state.Status == StatusCompleted {
		return Draw{}, apperrors.ErrGameCompleted
	}
	p := s.state.Pending
	if p == nil {
		return Draw{}, apperrors.ErrNoPendingDecision
	}

	d := Draw{Space: p.Space, Deck: p.Deck}
	switch p.Deck {
	case catalog.DeckOpportunity:
		card, ok := s.eng.cat.Opportunity(p.CardID)
		if !ok {
			return Draw{}, apperrors.ErrCardNotFound
		}
		d.Opportunity = &card
	case catalog.DeckDoodad:
		doodad, ok := s.eng.cat.Doodad(p.CardID)
		if !ok {
			return Draw{}, apperrors.ErrDoodadNotFound
		}
		d.Doodad = &doodad
	default:
		ev, ok := s.eng.cat.Event(p.CardID)
		if !ok {
			return Draw{}, apperrors.ErrNotFound
		}
		d.Event = &ev
	}
	return d, nil
}

// EndTurn settles the month unless a payday already did, ticks expiring
// modifiers, advances the turn counters and evaluates phase transitions.
func (s *Session) EndTurn() (TurnResult, error) {
	var res TurnResult
	err := s.mutate(func(st *State) error {
		switch st.TurnState {
		case TurnSettlement:
		case TurnAwaitingCardDecision, TurnAwaitingCharityDecision:
			return apperrors.ErrDecisionPending
		default:
			return apperrors.WithMessagef(apperrors.ErrInvalidState, "Cannot end turn while %s", st.TurnState)
		}

		if !st.SettledThisTurn {
			settlement := s.settle(st)
			res.Settlement = &settlement
		}
		res.Expired = s.tickModifiers(st, ModifierSalaryCut)

		st.Player.CurrentTurn++
		st.TotalTurns++
		res.Escaped, res.Won = s.evaluatePhase(st)

		st.SettledThisTurn = false
		st.Pending = nil
		st.TurnState = TurnAwaitingRoll
		res.Turn = st.Player.CurrentTurn
		return nil
	})
	if err != nil {
		return TurnResult{}, err
	}
	return res, nil
}

// requirePending checks the pending decision is on space. A wrong kind of
// decision is a state error; no decision at all is ErrNoPendingDecision.
func requirePending(st *State, space catalog.SpaceKind) (*Pending, error) {
	if st.Pending == nil {
		return nil, apperrors.ErrNoPendingDecision
	}
	if st.Pending.Space != space {
		return nil, apperrors.WithMessagef(apperrors.ErrInvalidState, "Pending decision is for a %s space", st.Pending.Space)
	}
	return st.Pending, nil
}

// resolve clears the pending decision and moves to settlement.
func resolve(st *State) {
	st.Pending = nil
	st.TurnState = TurnSettlement
}
