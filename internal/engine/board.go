package engine

import "ratrace/internal/catalog"

// board returns the space layout of the current phase.
func (s *Session) board(st *State) []catalog.SpaceKind {
	return s.eng.cat.Rules.Board(st.CurrentPhase)
}

// advance moves the player steps spaces around the loop and returns the
// landed space.
func (s *Session) advance(st *State, steps int) catalog.SpaceKind {
	spaces := s.board(st)
	st.Player.CurrentPosition = (st.Player.CurrentPosition + steps) % len(spaces)
	return spaces[st.Player.CurrentPosition]
}
