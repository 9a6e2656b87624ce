package game

import (
	"encoding/json"
	"fmt"
)

// Card represents a playing card.
// Format: Rank + Suit (e.g., "As", "Td", "2c")
// Ranks: 2, 3, 4, 5, 6, 7, 8, 9, T, J, Q, K, A
// Suits: s (spades), h (hearts), d (diamonds), c (clubs)
type Card struct {
	Rank Rank
	Suit Suit
}

type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var (
	allSuits = []Suit{Spades, Hearts, Diamonds, Clubs}
	allRanks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "shdc"
)

var suitNames = [...]string{"spades", "hearts", "diamonds", "clubs"}

func (r Rank) valid() bool { return r >= Two && r <= Ace }

// Label is the rank as printed on the card face.
func (r Rank) Label() string {
	switch r {
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	if r.valid() {
		return string(rankChars[r-Two])
	}
	return "?"
}

func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return "unknown"
}

// Symbol returns the unicode pip used by the browser page.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}
	return "?"
}

// Value is the blackjack base value, aces counted as 11.
func (c Card) Value() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

func (c Card) String() string {
	if !c.Rank.valid() || int(c.Suit) >= len(suitChars) {
		return "??"
	}
	return string([]byte{rankChars[c.Rank-Two], suitChars[c.Suit]})
}

func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	r := -1
	for i := 0; i < len(rankChars); i++ {
		if rankChars[i] == code[0] {
			r = i
			break
		}
	}
	s := -1
	for i := 0; i < len(suitChars); i++ {
		if suitChars[i] == code[1] {
			s = i
			break
		}
	}
	if r < 0 || s < 0 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	return Card{Rank: Two + Rank(r), Suit: Suit(s)}, nil
}

// MustCards parses a list of codes and panics on a bad one. Used by tests and fixtures.
func MustCards(codes ...string) []Card {
	cards := make([]Card, len(codes))
	for i, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			panic(err)
		}
		cards[i] = c
	}
	return cards
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	parsed, err := ParseCard(code)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
