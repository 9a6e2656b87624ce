package game

import (
	"encoding/json"
	"fmt"

	appErr "casino-service/pkg/errors"
	"casino-service/pkg/utils/random"
)

const DeckSize = 52

// Deck is a single 52-card deck consumed from the top (the end of the slice).
type Deck struct {
	cards []Card
}

// baseDeck returns the unshuffled order: suits outer, ranks inner.
func baseDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, s := range allSuits {
		for _, r := range allRanks {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}

// NewDeck creates a new deck shuffled with rng.
func NewDeck(rng random.Source) *Deck {
	d := &Deck{cards: baseDeck()}
	d.Shuffle(rng)
	return d
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle(rng random.Source) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if d == nil || len(d.cards) == 0 {
		return Card{}, appErr.ErrDeckExhausted
	}
	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards = d.cards[:last]
	return card, nil
}

func (d *Deck) Remaining() int {
	if d == nil {
		return 0
	}
	return len(d.cards)
}

// StackDeck builds a deck whose top card is the first argument. Used to script deals.
func StackDeck(top ...Card) *Deck {
	cards := make([]Card, len(top))
	for i, c := range top {
		cards[len(top)-1-i] = c
	}
	return &Deck{cards: cards}
}

func (d *Deck) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.cards)
}

func (d *Deck) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	if len(cards) > DeckSize {
		return fmt.Errorf("%w: deck holds %d cards", appErr.ErrInvalidSnapshot, len(cards))
	}
	d.cards = cards
	return nil
}
