package wallet

import (
	"context"
	"fmt"

	"casino-service/internal/service/game"
	appErr "casino-service/pkg/errors"
)

// Entry is one ledger movement as recorded in history.
type Entry struct {
	Type  string
	Game  string
	Bet   int64
	Delta int64
	After int64
	Meta  map[string]interface{}
}

const (
	EntryBet    = "bet"
	EntryWin    = "win"
	EntryLose   = "lose"
	EntryDraw   = "draw"
	EntryRefund = "refund"
	EntryReset  = "reset"
)

// Service applies ledger movements and describes them as history entries.
type Service struct {
	startingBalance int64
}

func NewService(startingBalance int64) *Service {
	if startingBalance <= 0 {
		startingBalance = DefaultStartingBalance
	}
	return &Service{startingBalance: startingBalance}
}

func (s *Service) StartingBalance() int64 { return s.startingBalance }

func (s *Service) New() Ledger { return NewLedger(s.startingBalance) }

// PlaceStake holds stake for a round, checking affordability first.
func (s *Service) PlaceStake(ctx context.Context, l Ledger, gameName string, stake int64) (Ledger, Entry, error) {
	if err := game.ValidateBet(stake, l.Balance); err != nil {
		return l, Entry{}, err
	}
	next := Hold(l, stake)
	return next, Entry{Type: EntryBet, Game: gameName, Bet: stake, Delta: -stake, After: next.Balance}, nil
}

// Settle releases the held stake and applies the blackjack outcome.
func (s *Service) Settle(ctx context.Context, l Ledger, gameName string, stake int64, res game.Result) (Ledger, Entry, error) {
	if !res.Outcome.Valid() {
		return l, Entry{}, fmt.Errorf("%w: outcome %q", appErr.ErrInvalidAction, res.Outcome)
	}
	before := l.Balance
	next := ApplyOutcome(Release(l, stake), stake, res.Outcome)

	entry := Entry{
		Game:  gameName,
		Bet:   stake,
		Delta: next.Balance - before,
		After: next.Balance,
		Meta: map[string]interface{}{
			"outcome":     res.Outcome,
			"playerScore": res.PlayerScore,
			"dealerScore": res.DealerScore,
			"forced":      res.Forced,
		},
	}
	switch {
	case res.Outcome.IsWin():
		entry.Type = EntryWin
	case res.Outcome.IsLoss():
		entry.Type = EntryLose
	default:
		entry.Type = EntryDraw
	}
	return next, entry, nil
}

// Refund returns the stake of a voided round.
func (s *Service) Refund(ctx context.Context, l Ledger, gameName string, stake int64, reason string) (Ledger, Entry) {
	next := Release(l, stake)
	return next, Entry{
		Type:  EntryRefund,
		Game:  gameName,
		Bet:   stake,
		Delta: stake,
		After: next.Balance,
		Meta:  map[string]interface{}{"reason": reason},
	}
}

// PlaySimple validates the bet and applies a simple game result.
func (s *Service) PlaySimple(ctx context.Context, l Ledger, res game.SimpleResult) (Ledger, Entry, error) {
	if err := game.ValidateBet(res.Bet, l.Balance); err != nil {
		return l, Entry{}, err
	}
	next := ApplyPayout(l, res)
	entry := Entry{
		Game:  string(res.Kind),
		Bet:   res.Bet,
		Delta: next.Balance - l.Balance,
		After: next.Balance,
		Meta: map[string]interface{}{
			"payout":     res.Payout,
			"multiplier": res.Multiplier,
			"details":    res.Details,
		},
	}
	if res.Won {
		entry.Type = EntryWin
	} else {
		entry.Type = EntryLose
	}
	return next, entry, nil
}

// Reset restores the configured starting balance.
func (s *Service) Reset(ctx context.Context, l Ledger) (Ledger, Entry) {
	next := Reset(s.startingBalance)
	return next, Entry{
		Type:  EntryReset,
		Delta: next.Balance - l.Balance,
		After: next.Balance,
		Meta: map[string]interface{}{
			"previousBalance": l.Balance,
			"totalWon":        l.TotalWon,
			"totalLost":       l.TotalLost,
		},
	}
}
