package game

import (
	"sort"
	"strings"
)

// Kind identifies a game on the landing menu.
type Kind string

const (
	KindBlackjack Kind = "blackjack"
	KindRoulette  Kind = "roulette"
	KindSlots     Kind = "slots"
	KindPoker     Kind = "poker"
	KindBaccarat  Kind = "baccarat"
)

var kindTitles = map[Kind]string{
	KindBlackjack: "Blackjack",
	KindRoulette:  "Roulette",
	KindSlots:     "Slots",
	KindPoker:     "Poker",
	KindBaccarat:  "Baccarat",
}

func (k Kind) Title() string {
	if t, ok := kindTitles[k]; ok {
		return t
	}
	return string(k)
}

func ParseKind(s string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(s)))
}

// IsSimple reports whether kind is played through Simulate.
func (k Kind) IsSimple() bool {
	_, ok := winChances[k]
	return ok
}

// DefaultVariants returns the four blackjack tables.
func DefaultVariants() map[string]Variant {
	return map[string]Variant{
		"blackjack": {
			Name:   "blackjack",
			Title:  "Blackjack",
			Policy: FairDealer{StandOn: DealerStandOn},
		},
		"blackjack_double": {
			Name:        "blackjack_double",
			Title:       "Blackjack (Double Down)",
			Policy:      FairDealer{StandOn: DealerStandOn},
			AllowDouble: true,
		},
		"blackjack_house": {
			Name:   "blackjack_house",
			Title:  "Blackjack (House Edge)",
			Policy: Weighted{Win: 0.48, Loss: 0.47, Draw: 0.05},
		},
		"blackjack_rigged": {
			Name:   "blackjack_rigged",
			Title:  "Blackjack (Lucky Table)",
			Policy: DefaultWeighted,
		},
	}
}

// VariantNames returns the sorted variant keys.
func VariantNames(variants map[string]Variant) []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
