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

func TestCompare(t *testing.T) {
	assert.Equal(t, game.OutcomeBust, game.Compare(22, 17))
	assert.Equal(t, game.OutcomeWin, game.Compare(18, 23))
	assert.Equal(t, game.OutcomeWin, game.Compare(20, 19))
	assert.Equal(t, game.OutcomeLoss, game.Compare(17, 20))
	assert.Equal(t, game.OutcomeDraw, game.Compare(19, 19))
}

func TestWeightedNormalizesBands(t *testing.T) {
	w := game.Weighted{Win: 0.50, Loss: 0.50, Draw: 0.05}
	n := w.Normalized()
	assert.InDelta(t, 1.0, n.Win+n.Loss+n.Draw, 1e-9)

	assert.Equal(t, game.OutcomeWin, w.Pick(0.40))
	assert.Equal(t, game.OutcomeLoss, w.Pick(0.90))
	assert.Equal(t, game.OutcomeDraw, w.Pick(0.99))

	assert.Equal(t, game.DefaultWeighted, game.Weighted{}.Normalized())
	assert.Equal(t, game.DefaultWeighted, game.Weighted{Win: -1, Loss: 1}.Normalized())
}

func TestPolicyByName(t *testing.T) {
	p, err := game.PolicyByName("", game.Weighted{})
	require.NoError(t, err)
	assert.Equal(t, game.PolicyFair, p.Name())

	p, err = game.PolicyByName("Weighted", game.Weighted{Win: 2, Loss: 2})
	require.NoError(t, err)
	assert.Equal(t, game.PolicyWeighted, p.Name())
	assert.InDelta(t, 0.5, p.(game.Weighted).Win, 1e-9)

	_, err = game.PolicyByName("coinflip", game.Weighted{})
	assert.Error(t, err)
}

func TestParseBet(t *testing.T) {
	v, err := game.ParseBet(" 250 ")
	require.NoError(t, err)
	assert.Equal(t, int64(250), v)

	for _, bad := range []string{"", "abc", "12.5", "1e3"} {
		_, err := game.ParseBet(bad)
		assert.ErrorIs(t, err, appErr.ErrInvalidBet, bad)
	}
}

func TestParseBetJSON(t *testing.T) {
	cases := map[string]int64{`250`: 250, `"75"`: 75}
	for raw, want := range cases {
		v, err := game.ParseBetJSON(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, want, v)
	}
	for _, bad := range []string{``, `null`, `"ten"`, `10.5`, `{}`} {
		_, err := game.ParseBetJSON(json.RawMessage(bad))
		assert.ErrorIs(t, err, appErr.ErrInvalidBet, bad)
	}
}

func TestValidateBet(t *testing.T) {
	assert.NoError(t, game.ValidateBet(1000, 1000))
	assert.ErrorIs(t, game.ValidateBet(0, 1000), appErr.ErrInvalidBet)
	assert.ErrorIs(t, game.ValidateBet(1001, 1000), appErr.ErrInvalidBet)
}

func TestSimulate(t *testing.T) {
	win := game.Simulate(game.KindRoulette, 100, &random.Fixed{Floats: []float64{0.10, 0.50}})
	assert.True(t, win.Won)
	assert.InDelta(t, 2.25, win.Multiplier, 1e-9)
	assert.Equal(t, int64(225), win.Payout)
	assert.Equal(t, "Number hit! You win!", win.Details)

	loss := game.Simulate(game.KindSlots, 100, &random.Fixed{Floats: []float64{0.44}})
	assert.False(t, loss.Won)
	assert.Zero(t, loss.Payout)
	assert.Equal(t, "No match. Try again!", loss.Details)
}

func TestSimulatePayoutRange(t *testing.T) {
	rng := random.Seeded(3)
	for i := 0; i < 500; i++ {
		res := game.Simulate(game.KindBaccarat, 1000, rng)
		if !res.Won {
			continue
		}
		assert.GreaterOrEqual(t, res.Payout, int64(1500))
		assert.Less(t, res.Payout, int64(3000))
	}
}

func TestWinChance(t *testing.T) {
	assert.Equal(t, 0.47, game.WinChance(game.KindRoulette))
	assert.Equal(t, 0.45, game.WinChance(game.Kind("keno")))
	assert.Equal(t, 0.45, game.WinChance(game.KindBlackjack))
	assert.True(t, game.KindPoker.IsSimple())
	assert.False(t, game.KindBlackjack.IsSimple())
	assert.False(t, game.ParseKind("keno").IsSimple())
}

func TestServiceVariants(t *testing.T) {
	svc := game.NewService(nil, random.Seeded(1))
	names := make([]string, 0)
	for _, v := range svc.Variants() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"blackjack", "blackjack_double", "blackjack_house", "blackjack_rigged"}, names)

	_, err := svc.NewRound("craps")
	assert.ErrorIs(t, err, appErr.ErrUnknownGame)

	r, err := svc.NewRound("blackjack_double")
	require.NoError(t, err)
	assert.True(t, r.Variant().AllowDouble)
}
