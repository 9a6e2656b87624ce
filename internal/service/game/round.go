package game

import (
	"fmt"

	appErr "casino-service/pkg/errors"
	"casino-service/pkg/utils/random"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseBetting    Phase = "betting"
	PhasePlayerTurn Phase = "player_turn"
	PhaseDealerTurn Phase = "dealer_turn"
	PhaseSettled    Phase = "settled"
)

type Outcome string

const (
	OutcomeWin     Outcome = "win"
	OutcomeNatural Outcome = "natural_blackjack"
	OutcomeLoss    Outcome = "loss"
	OutcomeBust    Outcome = "bust"
	OutcomeDraw    Outcome = "draw"
)

func (o Outcome) IsWin() bool  { return o == OutcomeWin || o == OutcomeNatural }
func (o Outcome) IsLoss() bool { return o == OutcomeLoss || o == OutcomeBust }

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeNatural, OutcomeLoss, OutcomeBust, OutcomeDraw:
		return true
	}
	return false
}

const (
	ActionBet    = "bet"
	ActionHit    = "hit"
	ActionStand  = "stand"
	ActionDouble = "double"
	ActionAgain  = "again"
	ActionLeave  = "leave"
)

// Result is the settled outcome of a round. Scores are the real card totals;
// Forced marks outcomes chosen by a weighted policy rather than by the cards.
type Result struct {
	Outcome     Outcome `json:"outcome"`
	PlayerScore int     `json:"playerScore"`
	DealerScore int     `json:"dealerScore"`
	DealerBust  bool    `json:"dealerBust,omitempty"`
	Forced      bool    `json:"forced,omitempty"`
}

// Variant is one configured flavour of the blackjack table.
type Variant struct {
	Name        string
	Title       string
	Policy      SettlementPolicy
	AllowDouble bool
}

type RoundOption func(*Round)

// WithDeckSource replaces the shuffled deck dealt at every bet.
func WithDeckSource(fn func() *Deck) RoundOption {
	return func(r *Round) { r.newDeck = fn }
}

// Round is the blackjack state machine for a single seat against the dealer.
// It is not safe for concurrent use; the owning session serializes access.
type Round struct {
	variant Variant
	rng     random.Source
	newDeck func() *Deck

	phase   Phase
	bet     int64
	deck    *Deck
	player  Hand
	dealer  Hand
	doubled bool
	result  *Result
}

func NewRound(v Variant, rng random.Source, opts ...RoundOption) *Round {
	r := &Round{
		variant: v,
		rng:     rng,
		phase:   PhaseIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newDeck == nil {
		r.newDeck = func() *Deck { return NewDeck(r.rng) }
	}
	return r
}

func (r *Round) Variant() Variant { return r.variant }
func (r *Round) Phase() Phase     { return r.phase }
func (r *Round) Bet() int64       { return r.bet }
func (r *Round) Doubled() bool    { return r.doubled }
func (r *Round) PlayerHand() Hand { return append(Hand(nil), r.player...) }
func (r *Round) DealerHand() Hand { return append(Hand(nil), r.dealer...) }

// Active reports whether a stake is on the table.
func (r *Round) Active() bool {
	return r.phase == PhasePlayerTurn || r.phase == PhaseDealerTurn
}

func (r *Round) Result() *Result {
	if r.result == nil {
		return nil
	}
	res := *r.result
	return &res
}

// Enter opens the betting board with a clean table.
func (r *Round) Enter() error {
	if r.Active() {
		return appErr.ErrRoundInProgress
	}
	r.clear()
	r.phase = PhaseBetting
	return nil
}

// Leave closes the table and returns to idle.
func (r *Round) Leave() error {
	if r.Active() {
		return appErr.ErrRoundInProgress
	}
	r.clear()
	r.phase = PhaseIdle
	return nil
}

func (r *Round) clear() {
	r.bet = 0
	r.deck = nil
	r.player = nil
	r.dealer = nil
	r.doubled = false
	r.result = nil
}

// PlaceBet validates the stake against balance and deals the opening hands.
// The caller debits the stake once this returns nil.
func (r *Round) PlaceBet(amount, balance int64) error {
	if r.phase != PhaseBetting {
		return fmt.Errorf("%w: cannot bet during %s", appErr.ErrInvalidAction, r.phase)
	}
	if err := ValidateBet(amount, balance); err != nil {
		return err
	}

	deck := r.newDeck()
	var player, dealer Hand
	for i := 0; i < 2; i++ {
		p, err := deck.Draw()
		if err != nil {
			return err
		}
		d, err := deck.Draw()
		if err != nil {
			return err
		}
		player = append(player, p)
		dealer = append(dealer, d)
	}

	r.deck = deck
	r.player = player
	r.dealer = dealer
	r.bet = amount
	r.doubled = false
	r.result = nil
	r.phase = PhasePlayerTurn

	if r.player.IsNatural() {
		r.settle(Result{Outcome: OutcomeNatural})
	}
	return nil
}

func (r *Round) Hit() error {
	if r.phase != PhasePlayerTurn {
		return fmt.Errorf("%w: cannot hit during %s", appErr.ErrInvalidAction, r.phase)
	}
	card, err := r.deck.Draw()
	if err != nil {
		return err
	}
	r.player = append(r.player, card)
	if r.player.IsBust() {
		r.settle(Result{Outcome: OutcomeBust})
	}
	return nil
}

func (r *Round) Stand() error {
	if r.phase != PhasePlayerTurn {
		return fmt.Errorf("%w: cannot stand during %s", appErr.ErrInvalidAction, r.phase)
	}
	r.phase = PhaseDealerTurn
	return r.playDealer()
}

// CanDouble reports whether DoubleDown is currently legal, ignoring balance.
func (r *Round) CanDouble() bool {
	return r.variant.AllowDouble && r.phase == PhasePlayerTurn && len(r.player) == 2
}

// DoubleDown doubles the stake, draws exactly one card and stands.
// It returns the extra stake the caller must debit.
func (r *Round) DoubleDown(balance int64) (int64, error) {
	if !r.variant.AllowDouble {
		return 0, appErr.ErrDoubleNotAllowed
	}
	if r.phase != PhasePlayerTurn {
		return 0, fmt.Errorf("%w: cannot double during %s", appErr.ErrInvalidAction, r.phase)
	}
	if len(r.player) != 2 {
		return 0, fmt.Errorf("%w: only on the first two cards", appErr.ErrDoubleNotAllowed)
	}
	extra := r.bet
	if extra > balance {
		return 0, fmt.Errorf("%w: doubling needs %d more, balance is %d", appErr.ErrInvalidBet, extra, balance)
	}

	card, err := r.deck.Draw()
	if err != nil {
		return 0, err
	}
	r.bet += extra
	r.doubled = true
	r.player = append(r.player, card)
	if r.player.IsBust() {
		r.settle(Result{Outcome: OutcomeBust})
		return extra, nil
	}
	r.phase = PhaseDealerTurn
	return extra, r.playDealer()
}

func (r *Round) playDealer() error {
	policy := r.variant.Policy
	if policy == nil {
		policy = FairDealer{}
	}
	res, err := policy.Settle(r)
	if err != nil {
		return err
	}
	r.settle(res)
	return nil
}

// PlayAnother clears a settled round and reopens betting.
func (r *Round) PlayAnother() error {
	if r.phase != PhaseSettled {
		return fmt.Errorf("%w: round not settled", appErr.ErrInvalidAction)
	}
	r.clear()
	r.phase = PhaseBetting
	return nil
}

// Void abandons an active round and returns the stake that must be refunded.
func (r *Round) Void() int64 {
	stake := int64(0)
	if r.Active() {
		stake = r.bet
	}
	r.clear()
	r.phase = PhaseBetting
	return stake
}

func (r *Round) settle(res Result) {
	res.PlayerScore = Score(r.player)
	res.DealerScore = Score(r.dealer)
	res.DealerBust = res.DealerScore > Blackjack && res.Outcome.IsWin() && !res.Forced
	r.result = &res
	r.phase = PhaseSettled
}

func (r *Round) drawDealer() error {
	card, err := r.deck.Draw()
	if err != nil {
		return err
	}
	r.dealer = append(r.dealer, card)
	return nil
}

// AllowedActions lists the actions legal in the current phase.
func (r *Round) AllowedActions() []string {
	switch r.phase {
	case PhaseIdle:
		return nil
	case PhaseBetting:
		return []string{ActionBet, ActionLeave}
	case PhasePlayerTurn:
		actions := []string{ActionHit, ActionStand}
		if r.CanDouble() {
			actions = append(actions, ActionDouble)
		}
		return actions
	case PhaseSettled:
		return []string{ActionAgain, ActionLeave}
	default:
		return nil
	}
}
