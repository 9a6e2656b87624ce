package game

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	appErr "casino-service/pkg/errors"
)

// SettlementPolicy plays the dealer's turn and decides the round outcome.
type SettlementPolicy interface {
	Name() string
	Settle(r *Round) (Result, error)
}

const (
	PolicyFair     = "fair"
	PolicyWeighted = "weighted"
)

// FairDealer draws to StandOn (hard 17 by default) and compares totals.
type FairDealer struct {
	StandOn int
}

func (FairDealer) Name() string { return PolicyFair }

func (p FairDealer) Settle(r *Round) (Result, error) {
	standOn := p.StandOn
	if standOn <= 0 {
		standOn = DealerStandOn
	}
	for Score(r.dealer) < standOn {
		if err := r.drawDealer(); err != nil {
			return Result{}, err
		}
	}
	return Result{Outcome: Compare(Score(r.player), Score(r.dealer))}, nil
}

// Compare decides a fair outcome from final totals.
func Compare(player, dealer int) Outcome {
	switch {
	case player > Blackjack:
		return OutcomeBust
	case dealer > Blackjack || player > dealer:
		return OutcomeWin
	case player < dealer:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// Weighted picks the outcome from probability bands without looking at the cards.
// Bands are normalized by their sum so every band stays reachable.
type Weighted struct {
	Win  float64
	Loss float64
	Draw float64
}

// DefaultWeighted is the 50/45/5 split.
var DefaultWeighted = Weighted{Win: 0.50, Loss: 0.45, Draw: 0.05}

func (Weighted) Name() string { return PolicyWeighted }

// Normalized returns the bands scaled to sum to 1.
func (w Weighted) Normalized() Weighted {
	if w.Win < 0 || w.Loss < 0 || w.Draw < 0 {
		return DefaultWeighted
	}
	total := w.Win + w.Loss + w.Draw
	if total <= 0 {
		return DefaultWeighted
	}
	return Weighted{Win: w.Win / total, Loss: w.Loss / total, Draw: w.Draw / total}
}

// Pick maps a uniform draw u in [0,1) onto a band.
func (w Weighted) Pick(u float64) Outcome {
	n := w.Normalized()
	switch {
	case u < n.Win:
		return OutcomeWin
	case u < n.Win+n.Loss:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

func (w Weighted) Settle(r *Round) (Result, error) {
	if r.player.IsBust() {
		return Result{Outcome: OutcomeBust}, nil
	}
	return Result{Outcome: w.Pick(r.rng.Float64()), Forced: true}, nil
}

// PolicyByName builds a policy from configuration values.
func PolicyByName(name string, bands Weighted) (SettlementPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyFair:
		return FairDealer{StandOn: DealerStandOn}, nil
	case PolicyWeighted:
		return bands.Normalized(), nil
	default:
		return nil, fmt.Errorf("unknown settlement policy %q", name)
	}
}

// ValidateBet enforces 0 < amount <= balance.
func ValidateBet(amount, balance int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: bet must be greater than 0", appErr.ErrInvalidBet)
	}
	if amount > balance {
		return fmt.Errorf("%w: insufficient balance", appErr.ErrInvalidBet)
	}
	return nil
}

// ParseBet reads a bet typed into the bet box.
func ParseBet(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: amount required", appErr.ErrInvalidBet)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", appErr.ErrInvalidBet, s)
	}
	return v, nil
}

// ParseBetJSON accepts a bet sent either as a JSON number or as a JSON string.
func ParseBetJSON(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("%w: amount required", appErr.ErrInvalidBet)
	}
	if strings.HasPrefix(s, `"`) {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("%w: malformed amount", appErr.ErrInvalidBet)
		}
		return ParseBet(text)
	}
	return ParseBet(s)
}
