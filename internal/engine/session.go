// Package engine implements the game session engine: the turn and board
// state machine, the economic ledger, the asset and liability registries,
// card decks and the phase controller.
//
// The engine is pure. It performs no I/O and never logs; callers load a
// State, run one command on a Session and persist the result. Every command
// is atomic: on error the session state and its random source are exactly
// as they were before the call.
package engine

import (
	"fmt"
	"time"

	"ratrace/internal/catalog"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/uuid"
)

// Engine creates and resumes sessions against one catalog.
type Engine struct {
	cat   *catalog.Catalog
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for purchase timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the generator for session and record ids.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New creates an engine bound to cat.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{cat: cat, now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine plays with.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Session runs commands against one game. A Session is not safe for
// concurrent use; callers serialize commands per game.
type Session struct {
	eng   *Engine
	prof  catalog.Profession
	state State
	dice  *Dice
}

// Start creates a new game for professionID on the rat race board.
func (e *Engine) Start(professionID string, seed uint64) (*Session, error) {
	prof, ok := e.cat.Profession(professionID)
	if !ok {
		return nil, apperrors.ErrProfessionNotFound
	}

	st := State{
		ID:           e.newID(),
		ProfessionID: prof.ID,
		Status:       StatusActive,
		CurrentPhase: catalog.TrackRatRace,
		TurnState:    TurnAwaitingRoll,
		Decks:        newDecks(e.cat),
		Player: Player{
			CashOnHand:  prof.StartingCash,
			Savings:     prof.Savings,
			CurrentTurn: 1,
		},
		CreatedAt: e.now(),
	}
	return &Session{eng: e, prof: prof, state: st, dice: NewDice(seed)}, nil
}

// Resume rebuilds a session from persisted state and dice state.
func (e *Engine) Resume(st State, diceState []byte) (*Session, error) {
	prof, ok := e.cat.Profession(st.ProfessionID)
	if !ok {
		return nil, apperrors.WithMessagef(apperrors.ErrProfessionNotFound, "Profession %q is not in the catalog", st.ProfessionID)
	}
	dice, err := RestoreDice(diceState)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	st = st.Clone()
	for deck, ids := range newDecks(e.cat) {
		if _, ok := st.Decks[deck]; !ok {
			st.Decks[deck] = ids
		}
	}
	return &Session{eng: e, prof: prof, state: st, dice: dice}, nil
}

// State returns a copy of the current session state.
func (s *Session) State() State { return s.state.Clone() }

// Profession returns the profession the session was started with.
func (s *Session) Profession() catalog.Profession { return s.prof }

// DiceState returns the encoded random source, to be persisted with State.
func (s *Session) DiceState() []byte {
	b, _ := s.dice.MarshalBinary()
	return b
}

// Ledger computes the current income statement.
func (s *Session) Ledger() Ledger { return ComputeLedger(s.prof, &s.state) }

// mutate runs fn against a copy of the state and commits it only when fn
// succeeds. The dice are rewound on failure so a rejected command does not
// consume randomness.
func (s *Session) mutate(fn func(st *State) error) error {
	if s.state.Status == StatusCompleted {
		return apperrors.ErrGameCompleted
	}
	next := s.state.Clone()
	saved, err := s.dice.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("snapshot dice: %w", err))
	}
	if err := fn(&next); err != nil {
		if rerr := s.dice.src.UnmarshalBinary(saved); rerr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, rerr)
		}
		return err
	}
	s.state = next
	return nil
}

// EndGame marks the session completed. Later commands fail.
func (s *Session) EndGame() error {
	return s.mutate(func(st *State) error {
		st.Status = StatusCompleted
		return nil
	})
}
