package wallet_test

import (
	"context"
	"testing"

	"casino-service/internal/service/game"
	"casino-service/internal/service/wallet"
	appErr "casino-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOutcome(t *testing.T) {
	start := wallet.NewLedger(10000)
	cases := []struct {
		outcome   game.Outcome
		balance   int64
		totalWon  int64
		totalLost int64
	}{
		{game.OutcomeWin, 10500, 500, 0},
		{game.OutcomeNatural, 10500, 500, 0},
		{game.OutcomeLoss, 9500, 0, 500},
		{game.OutcomeBust, 9500, 0, 500},
		{game.OutcomeDraw, 10000, 0, 0},
	}
	for _, tc := range cases {
		got := wallet.ApplyOutcome(start, 500, tc.outcome)
		assert.Equal(t, tc.balance, got.Balance, tc.outcome)
		assert.Equal(t, tc.totalWon, got.TotalWon, tc.outcome)
		assert.Equal(t, tc.totalLost, got.TotalLost, tc.outcome)
		assert.Zero(t, got.GamesPlayed, tc.outcome)
	}
	assert.Equal(t, wallet.NewLedger(10000), start)
}

func TestApplyPayout(t *testing.T) {
	l := wallet.NewLedger(1000)

	l = wallet.ApplyPayout(l, game.SimpleResult{Kind: game.KindSlots, Bet: 100, Won: true, Payout: 250})
	assert.Equal(t, int64(1150), l.Balance)
	assert.Equal(t, int64(150), l.TotalWon)
	assert.Equal(t, int64(1), l.GamesPlayed)
	assert.Equal(t, int64(1), l.GamesWon)

	l = wallet.ApplyPayout(l, game.SimpleResult{Kind: game.KindSlots, Bet: 100})
	assert.Equal(t, int64(1050), l.Balance)
	assert.Equal(t, int64(100), l.TotalLost)
	assert.Equal(t, int64(2), l.GamesPlayed)
	assert.Equal(t, 50, l.WinRate())
	assert.Equal(t, int64(50), l.NetWorth())
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0, wallet.Ledger{}.WinRate())
	assert.Equal(t, 33, wallet.Ledger{GamesPlayed: 3, GamesWon: 1}.WinRate())
	assert.Equal(t, 67, wallet.Ledger{GamesPlayed: 3, GamesWon: 2}.WinRate())
}

func TestNewLedgerDefaults(t *testing.T) {
	l := wallet.NewLedger(0)
	assert.Equal(t, wallet.DefaultStartingBalance, l.Balance)
	assert.Equal(t, wallet.DefaultStartingBalance, l.InitialBalance)
}

func TestServiceStakeAndSettle(t *testing.T) {
	ctx := context.Background()
	svc := wallet.NewService(10000)
	l := svc.New()

	held, bet, err := svc.PlaceStake(ctx, l, "blackjack", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(9500), held.Balance)
	assert.Equal(t, wallet.EntryBet, bet.Type)
	assert.Equal(t, int64(-500), bet.Delta)

	won, entry, err := svc.Settle(ctx, held, "blackjack", 500, game.Result{Outcome: game.OutcomeWin, PlayerScore: 19, DealerScore: 26})
	require.NoError(t, err)
	assert.Equal(t, int64(10500), won.Balance)
	assert.Equal(t, int64(500), won.TotalWon)
	assert.Equal(t, wallet.EntryWin, entry.Type)
	assert.Equal(t, int64(10500), entry.After)

	pushed, entry, err := svc.Settle(ctx, held, "blackjack", 500, game.Result{Outcome: game.OutcomeDraw})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), pushed.Balance)
	assert.Equal(t, wallet.EntryDraw, entry.Type)

	_, _, err = svc.Settle(ctx, held, "blackjack", 500, game.Result{Outcome: "maybe"})
	assert.ErrorIs(t, err, appErr.ErrInvalidAction)
}

func TestServiceRejectsUnaffordableStake(t *testing.T) {
	svc := wallet.NewService(1000)
	l := svc.New()

	next, _, err := svc.PlaceStake(context.Background(), l, "blackjack", 1001)
	assert.ErrorIs(t, err, appErr.ErrInvalidBet)
	assert.Equal(t, l, next)

	_, _, err = svc.PlaySimple(context.Background(), l, game.SimpleResult{Kind: game.KindPoker, Bet: 2000})
	assert.ErrorIs(t, err, appErr.ErrInvalidBet)
}

func TestServiceRefundAndReset(t *testing.T) {
	ctx := context.Background()
	svc := wallet.NewService(10000)

	held, _, err := svc.PlaceStake(ctx, svc.New(), "blackjack", 300)
	require.NoError(t, err)
	refunded, entry := svc.Refund(ctx, held, "blackjack", 300, "deck exhausted")
	assert.Equal(t, int64(10000), refunded.Balance)
	assert.Equal(t, wallet.EntryRefund, entry.Type)

	played := wallet.Ledger{Balance: 420, InitialBalance: 10000, TotalLost: 9580, GamesPlayed: 12, GamesWon: 3}
	reset, entry := svc.Reset(ctx, played)
	assert.Equal(t, wallet.NewLedger(10000), reset)
	assert.Equal(t, wallet.EntryReset, entry.Type)
	assert.Equal(t, int64(9580), entry.Delta)
}
