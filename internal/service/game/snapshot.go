package game

import (
	"fmt"

	appErr "casino-service/pkg/errors"
	"casino-service/pkg/utils/random"
)

// RoundSnapshot is the persisted form of an in-flight round.
type RoundSnapshot struct {
	Variant string  `json:"variant"`
	Phase   Phase   `json:"phase"`
	Bet     int64   `json:"bet"`
	Deck    *Deck   `json:"deck,omitempty"`
	Player  Hand    `json:"player,omitempty"`
	Dealer  Hand    `json:"dealer,omitempty"`
	Doubled bool    `json:"doubled,omitempty"`
	Result  *Result `json:"result,omitempty"`
}

func (r *Round) Snapshot() RoundSnapshot {
	snap := RoundSnapshot{
		Variant: r.variant.Name,
		Phase:   r.phase,
		Bet:     r.bet,
		Player:  r.PlayerHand(),
		Dealer:  r.DealerHand(),
		Doubled: r.doubled,
		Result:  r.Result(),
	}
	if r.deck != nil {
		snap.Deck = &Deck{cards: append([]Card(nil), r.deck.cards...)}
	}
	return snap
}

// RestoreRound rebuilds a round saved with Snapshot.
func RestoreRound(snap RoundSnapshot, v Variant, rng random.Source, opts ...RoundOption) (*Round, error) {
	r := NewRound(v, rng, opts...)
	switch snap.Phase {
	case PhaseIdle, PhaseBetting:
		r.phase = snap.Phase
		return r, nil
	case PhasePlayerTurn, PhaseSettled:
	default:
		// DealerTurn never outlives a single action.
		return nil, fmt.Errorf("%w: unexpected phase %q", appErr.ErrInvalidSnapshot, snap.Phase)
	}
	if snap.Bet <= 0 || len(snap.Player) < 2 || len(snap.Dealer) < 2 {
		return nil, fmt.Errorf("%w: incomplete round", appErr.ErrInvalidSnapshot)
	}
	if snap.Phase == PhasePlayerTurn && snap.Deck == nil {
		return nil, fmt.Errorf("%w: missing deck", appErr.ErrInvalidSnapshot)
	}
	if snap.Phase == PhaseSettled && (snap.Result == nil || !snap.Result.Outcome.Valid()) {
		return nil, fmt.Errorf("%w: missing result", appErr.ErrInvalidSnapshot)
	}
	if err := checkUnique(snap); err != nil {
		return nil, err
	}

	r.phase = snap.Phase
	r.bet = snap.Bet
	r.deck = snap.Deck
	r.player = snap.Player
	r.dealer = snap.Dealer
	r.doubled = snap.Doubled
	if snap.Result != nil {
		res := *snap.Result
		r.result = &res
	}
	return r, nil
}

func checkUnique(snap RoundSnapshot) error {
	seen := make(map[Card]struct{}, DeckSize)
	groups := [][]Card{snap.Player, snap.Dealer}
	if snap.Deck != nil {
		groups = append(groups, snap.Deck.cards)
	}
	for _, cards := range groups {
		for _, c := range cards {
			if _, ok := seen[c]; ok {
				return fmt.Errorf("%w: card %s appears twice", appErr.ErrInvalidSnapshot, c)
			}
			seen[c] = struct{}{}
		}
	}
	return nil
}
