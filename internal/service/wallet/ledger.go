package wallet

import (
	"math"

	"casino-service/internal/service/game"
)

const DefaultStartingBalance int64 = 10000

// Ledger is the play-money account of one session. Values are copied, never shared.
type Ledger struct {
	Balance        int64 `json:"balance"`
	InitialBalance int64 `json:"initialBalance"`
	TotalWon       int64 `json:"totalWon"`
	TotalLost      int64 `json:"totalLost"`
	GamesPlayed    int64 `json:"gamesPlayed"`
	GamesWon       int64 `json:"gamesWon"`
}

func NewLedger(start int64) Ledger {
	if start <= 0 {
		start = DefaultStartingBalance
	}
	return Ledger{Balance: start, InitialBalance: start}
}

// ApplyOutcome settles a blackjack bet against a ledger that does not hold the stake.
func ApplyOutcome(l Ledger, bet int64, outcome game.Outcome) Ledger {
	switch {
	case outcome.IsWin():
		l.Balance += bet
		l.TotalWon += bet
	case outcome.IsLoss():
		l.Balance -= bet
		l.TotalLost += bet
	}
	return l
}

// ApplyPayout settles a simple game: the stake is taken, a win credits the payout.
func ApplyPayout(l Ledger, res game.SimpleResult) Ledger {
	l.Balance -= res.Bet
	l.GamesPlayed++
	if res.Won {
		l.Balance += res.Payout
		l.TotalWon += res.Payout - res.Bet
		l.GamesWon++
	} else {
		l.TotalLost += res.Bet
	}
	return l
}

// Hold takes the stake off the balance while a round is in play.
func Hold(l Ledger, stake int64) Ledger {
	l.Balance -= stake
	return l
}

// Release returns a held stake to the balance.
func Release(l Ledger, stake int64) Ledger {
	l.Balance += stake
	return l
}

func (l Ledger) NetWorth() int64 {
	return l.Balance - l.InitialBalance
}

// WinRate is gamesWon/gamesPlayed as a rounded percentage.
func (l Ledger) WinRate() int {
	if l.GamesPlayed <= 0 {
		return 0
	}
	return int(math.Round(float64(l.GamesWon) / float64(l.GamesPlayed) * 100))
}

// Reset restores the starting amount and clears every counter.
func Reset(start int64) Ledger {
	return NewLedger(start)
}
