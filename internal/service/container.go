package service

import (
	"fmt"
	"strings"

	"casino-service/internal/config"
	"casino-service/internal/service/game"
	"casino-service/internal/service/session"
	"casino-service/internal/service/wallet"
	"casino-service/pkg/utils/random"
)

type Container struct {
	Game    *game.Service
	Wallet  *wallet.Service
	Session *session.Service
}

// Stores bundles the persistence adapters picked by configuration.
type Stores struct {
	State   session.Store
	History session.HistoryStore
}

func NewContainer(cfg *config.Config, stores Stores, view session.View, rng random.Source) (*Container, error) {
	variants, err := VariantsFromConfig(cfg.Casino.Variants)
	if err != nil {
		return nil, err
	}
	games := game.NewService(variants, rng)
	wallets := wallet.NewService(cfg.Casino.StartingBalance)

	opts := []session.Option{session.WithStateKey(cfg.Persistence.StateKey)}
	if stores.History != nil {
		opts = append(opts, session.WithHistory(stores.History))
	}
	if view != nil {
		opts = append(opts, session.WithView(view))
	}

	return &Container{
		Game:    games,
		Wallet:  wallets,
		Session: session.NewService(stores.State, games, wallets, opts...),
	}, nil
}

// VariantsFromConfig builds the blackjack tables; an empty map yields the defaults.
func VariantsFromConfig(raw map[string]config.VariantConfig) (map[string]game.Variant, error) {
	if len(raw) == 0 {
		return game.DefaultVariants(), nil
	}
	variants := make(map[string]game.Variant, len(raw))
	for name, vc := range raw {
		name = strings.ToLower(strings.TrimSpace(name))
		policy, err := game.PolicyByName(vc.Policy, game.Weighted{Win: vc.Win, Loss: vc.Loss, Draw: vc.Draw})
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}
		title := vc.Title
		if title == "" {
			title = game.KindBlackjack.Title()
		}
		variants[name] = game.Variant{
			Name:        name,
			Title:       title,
			Policy:      policy,
			AllowDouble: vc.AllowDouble,
		}
	}
	return variants, nil
}
