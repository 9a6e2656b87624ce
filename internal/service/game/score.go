package game

const (
	Blackjack     = 21
	DealerStandOn = 17
)

// Hand is an append-only list of dealt cards.
type Hand []Card

// Score returns the best blackjack total for cards: aces count 11 and drop
// to 1 one at a time while the total is over 21.
func Score(cards []Card) int {
	total, _ := scoreWithSoftAces(cards)
	return total
}

func scoreWithSoftAces(cards []Card) (int, int) {
	total := 0
	soft := 0
	for _, c := range cards {
		total += c.Value()
		if c.Rank == Ace {
			soft++
		}
	}
	for total > Blackjack && soft > 0 {
		total -= 10
		soft--
	}
	return total, soft
}

func (h Hand) Score() int { return Score(h) }

func (h Hand) IsBust() bool { return Score(h) > Blackjack }

// IsSoft reports whether an ace is still counted as 11.
func (h Hand) IsSoft() bool {
	_, soft := scoreWithSoftAces(h)
	return soft > 0
}

// IsNatural reports a two-card 21.
func (h Hand) IsNatural() bool {
	return len(h) == 2 && Score(h) == Blackjack
}
