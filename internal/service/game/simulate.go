package game

import (
	"math"

	"casino-service/pkg/utils/random"
)

const (
	defaultWinChance = 0.45
	minMultiplier    = 1.5
	multiplierSpread = 1.5
)

// House edge table for the one-shot games.
var winChances = map[Kind]float64{
	KindRoulette: 0.47,
	KindSlots:    0.44,
	KindPoker:    0.46,
	KindBaccarat: 0.49,
}

var gameDetails = map[Kind][2]string{
	KindRoulette: {"Number hit! You win!", "No luck this spin."},
	KindSlots:    {"Jackpot! Symbols aligned!", "No match. Try again!"},
	KindPoker:    {"Great hand! You win!", "Better luck next hand."},
	KindBaccarat: {"Your bet paid off!", "House takes this round."},
}

type SimpleResult struct {
	Kind       Kind    `json:"kind"`
	Bet        int64   `json:"bet"`
	Won        bool    `json:"won"`
	Payout     int64   `json:"payout"`
	Multiplier float64 `json:"multiplier"`
	Details    string  `json:"details"`
}

func WinChance(kind Kind) float64 {
	if p, ok := winChances[kind]; ok {
		return p
	}
	return defaultWinChance
}

// Simulate plays one round of a simple game. A win pays floor(bet*m) with m
// uniform in [1.5, 3.0); a loss pays nothing.
func Simulate(kind Kind, bet int64, rng random.Source) SimpleResult {
	res := SimpleResult{Kind: kind, Bet: bet}
	res.Won = rng.Float64() < WinChance(kind)
	if res.Won {
		res.Multiplier = minMultiplier + rng.Float64()*multiplierSpread
		res.Payout = int64(math.Floor(float64(bet) * res.Multiplier))
	}
	if d, ok := gameDetails[kind]; ok {
		if res.Won {
			res.Details = d[0]
		} else {
			res.Details = d[1]
		}
	}
	return res
}
