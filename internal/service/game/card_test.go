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

func TestParseCard(t *testing.T) {
	c, err := game.ParseCard("Td")
	require.NoError(t, err)
	assert.Equal(t, game.Ten, c.Rank)
	assert.Equal(t, game.Diamonds, c.Suit)
	assert.Equal(t, "Td", c.String())
	assert.Equal(t, "10", c.Rank.Label())
	assert.Equal(t, "♦", c.Suit.Symbol())

	for _, bad := range []string{"", "1s", "Ax", "Tdd"} {
		_, err := game.ParseCard(bad)
		assert.Error(t, err, bad)
	}
}

func TestCardValue(t *testing.T) {
	cases := map[string]int{"As": 11, "Kh": 10, "Qd": 10, "Jc": 10, "Ts": 10, "9h": 9, "2c": 2}
	for code, want := range cases {
		assert.Equal(t, want, game.MustCards(code)[0].Value(), code)
	}
}

func TestCardJSON(t *testing.T) {
	data, err := json.Marshal(game.MustCards("As", "7h"))
	require.NoError(t, err)
	assert.JSONEq(t, `["As","7h"]`, string(data))

	var cards []game.Card
	require.NoError(t, json.Unmarshal(data, &cards))
	assert.Equal(t, game.MustCards("As", "7h"), cards)
}

func TestDeckDealsEveryCardOnce(t *testing.T) {
	deck := game.NewDeck(random.Seeded(7))
	require.Equal(t, game.DeckSize, deck.Remaining())

	seen := make(map[game.Card]bool)
	for i := 0; i < game.DeckSize; i++ {
		c, err := deck.Draw()
		require.NoError(t, err)
		require.False(t, seen[c], "card %s dealt twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, game.DeckSize)
	assert.Equal(t, 0, deck.Remaining())

	_, err := deck.Draw()
	assert.ErrorIs(t, err, appErr.ErrDeckExhausted)
}

func TestDeckShuffleIsSeeded(t *testing.T) {
	a := game.NewDeck(random.Seeded(42))
	b := game.NewDeck(random.Seeded(42))
	for a.Remaining() > 0 {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		require.Equal(t, ca, cb)
	}
}

func TestStackDeckDrawOrder(t *testing.T) {
	deck := game.StackDeck(game.MustCards("As", "Kd", "2c")...)
	for _, want := range []string{"As", "Kd", "2c"} {
		c, err := deck.Draw()
		require.NoError(t, err)
		assert.Equal(t, want, c.String())
	}
}

func TestDeckRejectsOversizedSnapshot(t *testing.T) {
	codes := make([]string, 0, game.DeckSize+1)
	deck := game.NewDeck(random.Seeded(1))
	for deck.Remaining() > 0 {
		c, _ := deck.Draw()
		codes = append(codes, c.String())
	}
	codes = append(codes, "As")
	data, err := json.Marshal(codes)
	require.NoError(t, err)

	var restored game.Deck
	assert.ErrorIs(t, json.Unmarshal(data, &restored), appErr.ErrInvalidSnapshot)
}

func TestScore(t *testing.T) {
	cases := []struct {
		cards []string
		want  int
		soft  bool
	}{
		{nil, 0, false},
		{[]string{"As", "Ah", "9c"}, 21, true},
		{[]string{"Ks", "Ah"}, 21, true},
		{[]string{"Ks", "Qh", "2c"}, 22, false},
		{[]string{"As", "Ah"}, 12, true},
		{[]string{"As", "6h"}, 17, true},
		{[]string{"As", "6h", "Kd"}, 17, false},
		{[]string{"As", "Ah", "Ad", "Ac"}, 14, true},
	}
	for _, tc := range cases {
		h := game.Hand(game.MustCards(tc.cards...))
		assert.Equal(t, tc.want, h.Score(), "%v", tc.cards)
		assert.Equal(t, tc.soft, h.IsSoft(), "%v", tc.cards)
		assert.Equal(t, tc.want > game.Blackjack, h.IsBust(), "%v", tc.cards)
	}
}

func TestIsNatural(t *testing.T) {
	assert.True(t, game.Hand(game.MustCards("As", "Kd")).IsNatural())
	assert.False(t, game.Hand(game.MustCards("7s", "7d", "7h")).IsNatural())
	assert.False(t, game.Hand(game.MustCards("As", "9d")).IsNatural())
}
