package session

import (
	"context"
	"strings"
	"sync"

	"casino-service/internal/service/game"
	"casino-service/internal/service/wallet"
	appErr "casino-service/pkg/errors"
	"casino-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultStateKey = "fakemegamble_state"

var simpleKinds = []game.Kind{game.KindRoulette, game.KindSlots, game.KindPoker, game.KindBaccarat}

type Option func(*Service)

func WithView(v View) Option {
	return func(s *Service) { s.view = v }
}

func WithHistory(h HistoryStore) Option {
	return func(s *Service) { s.history = h }
}

func WithStateKey(key string) Option {
	return func(s *Service) {
		if strings.TrimSpace(key) != "" {
			s.stateKey = key
		}
	}
}

// Service hands out sessions and keeps the live ones in memory.
type Service struct {
	store     Store
	history   HistoryStore
	committer Committer
	view      View
	games     *game.Service
	wallets   *wallet.Service
	stateKey  string

	sessions sync.Map // key -> *Session
}

func NewService(store Store, games *game.Service, wallets *wallet.Service, opts ...Option) *Service {
	s := &Service{
		store:    store,
		games:    games,
		wallets:  wallets,
		stateKey: DefaultStateKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		if h, ok := store.(HistoryStore); ok {
			s.history = h
		}
	}
	if c, ok := store.(Committer); ok && (s.history == nil || any(s.history) == any(store)) {
		s.committer = c
	}
	return s
}

// Create starts a new session under a fresh key.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	return s.Open(ctx, uuid.NewString())
}

// Open returns the live session for key, loading it from the store on first use.
func (s *Service) Open(ctx context.Context, key string) (*Session, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, appErr.ErrSessionNotFound
	}
	if v, ok := s.sessions.Load(key); ok {
		sess := v.(*Session)
		sess.refresh(ctx)
		return sess, nil
	}

	sess := s.load(ctx, key)
	actual, loaded := s.sessions.LoadOrStore(key, sess)
	if !loaded {
		logger.Session(key).Info("session opened",
			zap.Int64("balance", sess.ledger.Balance),
			zap.Bool("degraded", sess.degraded),
		)
	}
	return actual.(*Session), nil
}

func (s *Service) slotKey(key string) string {
	return s.stateKey + ":" + key
}

// Games lists the landing menu.
func (s *Service) Games() []GameInfo {
	items := make([]GameInfo, 0)
	for _, v := range s.games.Variants() {
		info := GameInfo{
			Name:        v.Name,
			Title:       v.Title,
			Kind:        "table",
			AllowDouble: v.AllowDouble,
		}
		if v.Policy != nil {
			info.Policy = v.Policy.Name()
		}
		items = append(items, info)
	}
	for _, k := range simpleKinds {
		items = append(items, GameInfo{Name: string(k), Title: k.Title(), Kind: "simple"})
	}
	return items
}

func (s *Service) render(key string, state State) {
	if s.view != nil {
		s.view.Render(key, state)
	}
}
