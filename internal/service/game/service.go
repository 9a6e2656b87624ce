package game

import (
	"fmt"

	appErr "casino-service/pkg/errors"
	"casino-service/pkg/utils/random"
)

// Service owns the table catalogue and the randomness shared by every round.
type Service struct {
	variants map[string]Variant
	rng      random.Source
	opts     []RoundOption
}

func NewService(variants map[string]Variant, rng random.Source, opts ...RoundOption) *Service {
	if len(variants) == 0 {
		variants = DefaultVariants()
	}
	if rng == nil {
		rng = random.New()
	}
	return &Service{variants: variants, rng: rng, opts: opts}
}

func (s *Service) Variant(name string) (Variant, error) {
	v, ok := s.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", appErr.ErrUnknownGame, name)
	}
	return v, nil
}

func (s *Service) Variants() []Variant {
	names := VariantNames(s.variants)
	out := make([]Variant, 0, len(names))
	for _, name := range names {
		out = append(out, s.variants[name])
	}
	return out
}

func (s *Service) NewRound(name string) (*Round, error) {
	v, err := s.Variant(name)
	if err != nil {
		return nil, err
	}
	return NewRound(v, s.rng, s.opts...), nil
}

func (s *Service) RestoreRound(snap RoundSnapshot) (*Round, error) {
	v, err := s.Variant(snap.Variant)
	if err != nil {
		return nil, err
	}
	return RestoreRound(snap, v, s.rng, s.opts...)
}

func (s *Service) Simulate(kind Kind, bet int64) SimpleResult {
	return Simulate(kind, bet, s.rng)
}
