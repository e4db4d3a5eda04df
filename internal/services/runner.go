package services

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"ratrace/internal/engine"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/logger"
	"ratrace/internal/models"
)

// Actions recorded in the event log.
const (
	ActionStart      = "start"
	ActionRoll       = "roll"
	ActionPurchase   = "purchase"
	ActionPassCard   = "pass_card"
	ActionSell       = "sell"
	ActionBuyDoodad  = "buy_doodad"
	ActionPassDoodad = "pass_doodad"
	ActionCharity    = "charity"
	ActionTakeLoan   = "take_loan"
	ActionPayOffLoan = "pay_off_loan"
	ActionEndTurn    = "end_turn"
	ActionEndGame    = "end_game"
)

// GameRunner executes engine commands against persisted games. Commands on
// the same game are serialized; commands on different games run in
// parallel. Each command loads, mutates and saves inside one transaction.
type GameRunner struct {
	db    *gorm.DB
	eng   *engine.Engine
	locks *gameLocks
	seed  func() (uint64, error)
	now   func() time.Time
}

// RunnerOption configures a GameRunner.
type RunnerOption func(*GameRunner)

// WithSeed fixes the seed source for new games.
func WithSeed(fn func() uint64) RunnerOption {
	return func(r *GameRunner) {
		if fn != nil {
			r.seed = func() (uint64, error) { return fn(), nil }
		}
	}
}

// WithNow overrides the clock used for completion and snapshot times.
func WithNow(now func() time.Time) RunnerOption {
	return func(r *GameRunner) { r.now = now }
}

// NewGameRunner creates a runner over db playing with eng.
func NewGameRunner(db *gorm.DB, eng *engine.Engine, opts ...RunnerOption) *GameRunner {
	r := &GameRunner{
		db:    db,
		eng:   eng,
		locks: newGameLocks(),
		seed:  engine.NewSeed,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the engine commands run on.
func (r *GameRunner) Engine() *engine.Engine { return r.eng }

type command[T any] func(tx *gorm.DB, s *engine.Session) (T, error)

// runCommand applies fn to the game named by cmd and persists the outcome.
// Nothing is written when fn fails.
func runCommand[T any](r *GameRunner, cmd Command, action string, fn command[T]) (*CommandResult[T], error) {
	unlock := r.locks.lock(cmd.GameID)
	defer unlock()

	var out *CommandResult[T]
	var turn int
	var cash int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		game, err := loadGame(tx, cmd.OwnerID, cmd.GameID)
		if err != nil {
			return err
		}
		if err := checkCommandKey(tx, game.ID, cmd.IdempotencyKey); err != nil {
			return err
		}

		s, err := r.resume(game)
		if err != nil {
			return err
		}
		turn = s.State().Player.CurrentTurn

		res, err := fn(tx, s)
		if err != nil {
			return err
		}
		if err := s.CheckInvariants(); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		st := s.State()
		if err := saveGame(tx, game, st, s.DiceState(), r.now); err != nil {
			return err
		}
		if err := appendEvent(tx, game.ID, action, turn, st.Player.CashOnHand, res, cmd.IdempotencyKey); err != nil {
			return err
		}

		cash = st.Player.CashOnHand
		out = &CommandResult[T]{Result: res, Game: newGameView(game, s)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.ForGame(cmd.GameID).Infow("game command applied",
		"action", action,
		"turn", turn,
		"cash_on_hand", cash,
	)
	return out, nil
}

// read loads a game and resumes it without persisting anything.
func (r *GameRunner) read(ownerID, gameID string) (*models.GameSession, *engine.Session, error) {
	game, err := loadGame(r.db, ownerID, gameID)
	if err != nil {
		return nil, nil, err
	}
	s, err := r.resume(game)
	if err != nil {
		return nil, nil, err
	}
	return game, s, nil
}

func (r *GameRunner) resume(game *models.GameSession) (*engine.Session, error) {
	st, err := stateFromModel(game)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return r.eng.Resume(st, game.DiceState)
}

func checkCommandKey(tx *gorm.DB, gameID, key string) error {
	if key == "" {
		return nil
	}
	var count int64
	if err := tx.Model(&models.GameEvent{}).
		Where("game_id = ? AND command_key = ?", gameID, key).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCommand
	}
	return nil
}

func appendEvent(tx *gorm.DB, gameID, action string, turn int, cash int64, payload any, key string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	ev := &models.GameEvent{
		GameID:     gameID,
		Action:     action,
		Turn:       turn,
		CashOnHand: cash,
		Payload:    data,
	}
	if key != "" {
		ev.CommandKey = &key
	}
	if err := tx.Create(ev).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// gameLocks is a keyed mutex. Entries are reference counted and dropped
// once no command holds or waits on them.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[string]*gameLock)}
}

func (l *gameLocks) lock(id string) func() {
	l.mu.Lock()
	gl, ok := l.locks[id]
	if !ok {
		gl = &gameLock{}
		l.locks[id] = gl
	}
	gl.refs++
	l.mu.Unlock()

	gl.mu.Lock()
	return func() {
		gl.mu.Unlock()
		l.mu.Lock()
		gl.refs--
		if gl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
