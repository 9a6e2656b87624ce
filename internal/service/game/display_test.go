package game_test

import (
	"encoding/json"
	"testing"

	"casino-service/internal/service/game"
	appErr "casino-service/pkg/errors"
	"casino-service/pkg/utils/random"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewConcealsHoleCard(t *testing.T) {
	r := newTable(t, "blackjack", nil, "Ts", "6h", "9c", "Kd", "Qh")
	require.NoError(t, r.PlaceBet(100, 1000))

	view := r.View()
	assert.Equal(t, game.PhasePlayerTurn, view.Phase)
	assert.Equal(t, 19, view.Player.Score)
	require.Len(t, view.Dealer.Cards, 2)
	assert.True(t, view.Dealer.Cards[0].FaceUp)
	assert.Equal(t, "6h", view.Dealer.Cards[0].Code)
	assert.False(t, view.Dealer.Cards[1].FaceUp)
	assert.Empty(t, view.Dealer.Cards[1].Code)
	assert.Equal(t, 6, view.Dealer.Score)
	assert.Equal(t, 1, view.CardsLeft)

	require.NoError(t, r.Stand())
	view = r.View()
	assert.True(t, view.Dealer.Cards[1].FaceUp)
	assert.Len(t, view.Dealer.Cards, 3)
	assert.Equal(t, 26, view.Dealer.Score)
	assert.Equal(t, game.OutcomeWin, view.Outcome)
	assert.Equal(t, "Dealer busts! You win!", view.Message)
	assert.False(t, view.Player.Synthetic)
}

func TestViewForcedOutcomeUsesPlaceholderScores(t *testing.T) {
	rng := &random.Fixed{Floats: []float64{0.10}}
	r := newTable(t, "blackjack_rigged", rng, "2s", "Th", "3c", "Td")
	require.NoError(t, r.PlaceBet(100, 1000))
	require.NoError(t, r.Stand())

	view := r.View()
	assert.True(t, view.Forced)
	assert.Equal(t, 21, view.Player.Score)
	assert.Equal(t, 18, view.Dealer.Score)
	assert.True(t, view.Player.Synthetic)
	assert.Equal(t, 5, r.Result().PlayerScore)
}

func TestIdleViewHasNoActions(t *testing.T) {
	r := game.NewRound(game.DefaultVariants()["blackjack"], random.Seeded(1))
	view := r.View()
	assert.Equal(t, game.PhaseIdle, view.Phase)
	assert.NotNil(t, view.AllowedActions)
	assert.Empty(t, view.AllowedActions)
	assert.Zero(t, view.CardsLeft)
}

func TestSnapshotRestoresMidHand(t *testing.T) {
	codes := []string{"Ts", "6h", "9c", "Th", "Kd"}
	r := newTable(t, "blackjack", nil, codes...)
	require.NoError(t, r.PlaceBet(500, 10000))

	data, err := json.Marshal(r.Snapshot())
	require.NoError(t, err)

	var snap game.RoundSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	restored, err := game.RestoreRound(snap, game.DefaultVariants()["blackjack"], random.Seeded(1))
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlayerTurn, restored.Phase())
	assert.Equal(t, int64(500), restored.Bet())
	assert.Equal(t, "Ts 9c", handCodes(restored.PlayerHand()))

	require.NoError(t, restored.Stand())
	assert.Equal(t, game.OutcomeWin, restored.Result().Outcome)
	assert.True(t, restored.Result().DealerBust)
}

func TestRestoreRejectsBrokenSnapshots(t *testing.T) {
	v := game.DefaultVariants()["blackjack"]
	rng := random.Seeded(1)

	dup := game.RoundSnapshot{
		Variant: "blackjack",
		Phase:   game.PhasePlayerTurn,
		Bet:     100,
		Deck:    game.StackDeck(game.MustCards("2c")...),
		Player:  game.MustCards("Ts", "9c"),
		Dealer:  game.MustCards("Ts", "6h"),
	}
	_, err := game.RestoreRound(dup, v, rng)
	assert.ErrorIs(t, err, appErr.ErrInvalidSnapshot)

	mid := dup
	mid.Phase = game.PhaseDealerTurn
	_, err = game.RestoreRound(mid, v, rng)
	assert.ErrorIs(t, err, appErr.ErrInvalidSnapshot)

	noResult := game.RoundSnapshot{
		Variant: "blackjack",
		Phase:   game.PhaseSettled,
		Bet:     100,
		Player:  game.MustCards("Ts", "9c"),
		Dealer:  game.MustCards("Th", "6h"),
	}
	_, err = game.RestoreRound(noResult, v, rng)
	assert.ErrorIs(t, err, appErr.ErrInvalidSnapshot)

	betting, err := game.RestoreRound(game.RoundSnapshot{Variant: "blackjack", Phase: game.PhaseBetting}, v, rng)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseBetting, betting.Phase())
}
