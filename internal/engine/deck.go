package engine

import (
	"slices"

	"ratrace/internal/catalog"
)

// newDecks builds the three draw pools from the catalog.
func newDecks(cat *catalog.Catalog) map[catalog.DeckKind][]string {
	return map[catalog.DeckKind][]string{
		catalog.DeckOpportunity: cat.DeckIDs(catalog.DeckOpportunity),
		catalog.DeckDoodad:      cat.DeckIDs(catalog.DeckDoodad),
		catalog.DeckMarket:      cat.DeckIDs(catalog.DeckMarket),
	}
}

// take removes id from the pool when the deck is drawn without replacement.
func (s *Session) take(st *State, deck catalog.DeckKind, id string) {
	if s.eng.cat.Rules.Policy(deck) == catalog.WithReplacement {
		return
	}
	pool := st.Decks[deck]
	if i := slices.Index(pool, id); i >= 0 {
		st.Decks[deck] = slices.Delete(pool, i, i+1)
	}
}

// drawOpportunity draws from the cards of the current phase. The asset kind
// is chosen first by the track's kind weights, then a card within the kind
// by card weight. An exhausted track is reshuffled from the catalog.
func (s *Session) drawOpportunity(st *State) catalog.OpportunityCard {
	cat := s.eng.cat
	track := st.CurrentPhase

	candidates := s.opportunitiesFor(st, track)
	if len(candidates) == 0 {
		for _, card := range cat.Opportunities {
			if card.Track == track {
				st.Decks[catalog.DeckOpportunity] = append(st.Decks[catalog.DeckOpportunity], card.ID)
			}
		}
		candidates = s.opportunitiesFor(st, track)
	}

	byKind := make(map[catalog.AssetKind][]catalog.OpportunityCard)
	for _, card := range candidates {
		byKind[card.Kind()] = append(byKind[card.Kind()], card)
	}
	var kinds []catalog.AssetKind
	var kindWeights []int
	for _, kind := range catalog.AssetKinds {
		if len(byKind[kind]) == 0 {
			continue
		}
		kinds = append(kinds, kind)
		kindWeights = append(kindWeights, cat.Rules.KindWeights[track][kind])
	}

	cards := byKind[kinds[s.dice.pick(kindWeights)]]
	weights := make([]int, len(cards))
	for i, card := range cards {
		weights[i] = card.Weight
	}
	card := cards[s.dice.pick(weights)]

	s.take(st, catalog.DeckOpportunity, card.ID)
	return card
}

func (s *Session) opportunitiesFor(st *State, track catalog.Track) []catalog.OpportunityCard {
	var out []catalog.OpportunityCard
	for _, id := range st.Decks[catalog.DeckOpportunity] {
		card, ok := s.eng.cat.Opportunity(id)
		if ok && card.Track == track {
			out = append(out, card)
		}
	}
	return out
}

func (s *Session) drawDoodad(st *State) catalog.Doodad {
	pool := s.refill(st, catalog.DeckDoodad)
	doodads := make([]catalog.Doodad, 0, len(pool))
	weights := make([]int, 0, len(pool))
	for _, id := range pool {
		if d, ok := s.eng.cat.Doodad(id); ok {
			doodads = append(doodads, d)
			weights = append(weights, d.Weight)
		}
	}
	d := doodads[s.dice.pick(weights)]
	s.take(st, catalog.DeckDoodad, d.ID)
	return d
}

func (s *Session) drawMarketEvent(st *State) catalog.MarketEvent {
	pool := s.refill(st, catalog.DeckMarket)
	events := make([]catalog.MarketEvent, 0, len(pool))
	weights := make([]int, 0, len(pool))
	for _, id := range pool {
		if e, ok := s.eng.cat.Event(id); ok && e.Type != catalog.EventCharity {
			events = append(events, e)
			weights = append(weights, e.Weight)
		}
	}
	e := events[s.dice.pick(weights)]
	s.take(st, catalog.DeckMarket, e.ID)
	return e
}

// refill restores an empty pool to the full catalog list.
func (s *Session) refill(st *State, deck catalog.DeckKind) []string {
	pool := st.Decks[deck]
	valid := 0
	for _, id := range pool {
		if s.known(deck, id) {
			valid++
		}
	}
	if valid == 0 {
		pool = s.eng.cat.DeckIDs(deck)
		st.Decks[deck] = pool
	}
	return pool
}

func (s *Session) known(deck catalog.DeckKind, id string) bool {
	switch deck {
	case catalog.DeckDoodad:
		_, ok := s.eng.cat.Doodad(id)
		return ok
	case catalog.DeckMarket:
		e, ok := s.eng.cat.Event(id)
		return ok && e.Type != catalog.EventCharity
	}
	_, ok := s.eng.cat.Opportunity(id)
	return ok
}
