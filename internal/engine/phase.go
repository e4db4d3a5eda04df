package engine

import "ratrace/internal/catalog"

// evaluatePhase flips the escape and win flags. Each flips at most once;
// once set, re-evaluation is a no-op.
func (s *Session) evaluatePhase(st *State) (escaped, won bool) {
	l := ComputeLedger(s.prof, st)

	if st.CurrentPhase == catalog.TrackRatRace && !st.Player.HasEscapedRatRace &&
		st.Player.PassiveIncome >= l.TotalExpenses {
		st.Player.HasEscapedRatRace = true
		st.CurrentPhase = catalog.TrackFastTrack
		st.Player.CurrentPosition = 0
		escaped = true
	}

	if st.CurrentPhase == catalog.TrackFastTrack && !st.Player.IsOnFastTrack &&
		st.Player.PassiveIncome >= s.eng.cat.Rules.FastTrackTarget {
		st.Player.IsOnFastTrack = true
		won = true
	}
	return escaped, won
}
