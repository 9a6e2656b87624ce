package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"casino-service/internal/service/game"
	"casino-service/internal/service/wallet"
	appErr "casino-service/pkg/errors"

	"go.uber.org/zap"
)

// Session owns one player's ledger and table. Every action holds mu for its
// whole duration, so actions on a session never interleave.
type Session struct {
	key  string
	slot string
	svc  *Service
	log  *zap.Logger

	mu       sync.Mutex
	ledger   wallet.Ledger
	current  string
	round    *game.Round
	lastPlay *game.SimpleResult
	message  string
	degraded bool
	loaded   bool
}

func (sess *Session) Key() string { return sess.key }

func (sess *Session) State() State {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.stateLocked()
}

// refresh gives a session that started degraded another chance to read its stored record.
func (sess *Session) refresh(ctx context.Context) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.loaded {
		return
	}
	adopted, err := sess.reloadLocked(ctx)
	if err != nil {
		return
	}
	if adopted {
		sess.svc.render(sess.key, sess.stateLocked())
	}
}

func (sess *Session) Ledger() wallet.Ledger {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.ledger
}

func (sess *Session) stateLocked() State {
	l := sess.ledger
	st := State{
		Key:            sess.key,
		Screen:         sess.screenLocked(),
		Game:           sess.current,
		Balance:        l.Balance,
		InitialBalance: l.InitialBalance,
		TotalWon:       l.TotalWon,
		TotalLost:      l.TotalLost,
		NetWorth:       l.NetWorth(),
		GamesPlayed:    l.GamesPlayed,
		GamesWon:       l.GamesWon,
		WinRate:        l.WinRate(),
		Message:        sess.message,
		Degraded:       sess.degraded,
	}
	if sess.round != nil {
		view := sess.round.View()
		st.Table = &view
		st.GameTitle = view.Title
	} else if sess.current != "" {
		st.GameTitle = game.ParseKind(sess.current).Title()
	}
	if sess.lastPlay != nil {
		res := *sess.lastPlay
		st.LastPlay = &res
	}
	return st
}

func (sess *Session) screenLocked() Screen {
	if sess.current == "" {
		return ScreenMenu
	}
	if sess.round == nil {
		if sess.lastPlay != nil {
			return ScreenResult
		}
		return ScreenBetting
	}
	switch sess.round.Phase() {
	case game.PhasePlayerTurn, game.PhaseDealerTurn:
		return ScreenGameBoard
	case game.PhaseSettled:
		return ScreenResult
	default:
		return ScreenBetting
	}
}

// SelectGame opens a table variant or a simple game from the menu.
func (sess *Session) SelectGame(ctx context.Context, name string) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.round != nil && sess.round.Active() {
		return sess.stateLocked(), appErr.ErrRoundInProgress
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if _, err := sess.svc.games.Variant(name); err == nil {
		round, err := sess.svc.games.NewRound(name)
		if err != nil {
			return sess.stateLocked(), err
		}
		if err := round.Enter(); err != nil {
			return sess.stateLocked(), err
		}
		sess.round = round
	} else {
		kind := game.ParseKind(name)
		if !kind.IsSimple() {
			return sess.stateLocked(), fmt.Errorf("%w: %s", appErr.ErrUnknownGame, name)
		}
		name = string(kind)
		sess.round = nil
	}
	sess.current = name
	sess.lastPlay = nil
	sess.message = ""
	sess.log.Debug("game selected", zap.String("game", name))

	sess.persistLocked(ctx)
	return sess.stateLocked(), nil
}

// BackToMenu leaves the current game. Not allowed while a hand is in play.
func (sess *Session) BackToMenu(ctx context.Context) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.round != nil {
		if err := sess.round.Leave(); err != nil {
			return sess.stateLocked(), err
		}
	}
	sess.round = nil
	sess.current = ""
	sess.lastPlay = nil
	sess.message = ""

	sess.persistLocked(ctx)
	return sess.stateLocked(), nil
}

func (sess *Session) tableLocked() (*game.Round, error) {
	if sess.current == "" {
		return nil, appErr.ErrNoGameSelected
	}
	if sess.round == nil {
		return nil, fmt.Errorf("%w: %s is not a table game", appErr.ErrInvalidAction, sess.current)
	}
	return sess.round, nil
}

// PlaceBet stakes amount on a new blackjack hand.
func (sess *Session) PlaceBet(ctx context.Context, amount int64) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	round, err := sess.tableLocked()
	if err != nil {
		return sess.stateLocked(), err
	}
	if err := round.PlaceBet(amount, sess.ledger.Balance); err != nil {
		return sess.failLocked(ctx, err)
	}

	next, entry, err := sess.svc.wallets.PlaceStake(ctx, sess.ledger, sess.current, amount)
	if err != nil {
		round.Void()
		return sess.stateLocked(), err
	}
	sess.ledger = next
	sess.message = ""
	entries := []wallet.Entry{entry}
	entries = append(entries, sess.settleIfDoneLocked(ctx)...)

	sess.log.Info("bet placed", zap.Int64("amount", amount), zap.Int64("balance", sess.ledger.Balance))
	sess.persistLocked(ctx, entries...)
	return sess.stateLocked(), nil
}

func (sess *Session) Hit(ctx context.Context) (State, error) {
	return sess.play(ctx, func(r *game.Round) ([]wallet.Entry, error) {
		return nil, r.Hit()
	})
}

func (sess *Session) Stand(ctx context.Context) (State, error) {
	return sess.play(ctx, func(r *game.Round) ([]wallet.Entry, error) {
		return nil, r.Stand()
	})
}

// DoubleDown doubles the stake, takes one card and stands.
func (sess *Session) DoubleDown(ctx context.Context) (State, error) {
	return sess.play(ctx, func(r *game.Round) ([]wallet.Entry, error) {
		extra, err := r.DoubleDown(sess.ledger.Balance)
		if extra > 0 {
			sess.ledger = wallet.Hold(sess.ledger, extra)
			entry := wallet.Entry{
				Type:  wallet.EntryBet,
				Game:  sess.current,
				Bet:   extra,
				Delta: -extra,
				After: sess.ledger.Balance,
				Meta:  map[string]interface{}{"double": true},
			}
			return []wallet.Entry{entry}, err
		}
		return nil, err
	})
}

func (sess *Session) play(ctx context.Context, action func(*game.Round) ([]wallet.Entry, error)) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	round, err := sess.tableLocked()
	if err != nil {
		return sess.stateLocked(), err
	}
	entries, err := action(round)
	if err != nil {
		return sess.failLocked(ctx, err, entries...)
	}
	entries = append(entries, sess.settleIfDoneLocked(ctx)...)
	sess.persistLocked(ctx, entries...)
	return sess.stateLocked(), nil
}

// settleIfDoneLocked applies a freshly settled round to the ledger.
func (sess *Session) settleIfDoneLocked(ctx context.Context) []wallet.Entry {
	round := sess.round
	if round == nil || round.Phase() != game.PhaseSettled {
		return nil
	}
	res := round.Result()
	if res == nil {
		return nil
	}
	next, entry, err := sess.svc.wallets.Settle(ctx, sess.ledger, sess.current, round.Bet(), *res)
	if err != nil {
		sess.log.Error("settlement rejected", zap.Error(err))
		return nil
	}
	sess.ledger = next
	sess.message = game.OutcomeMessage(*res)
	sess.log.Info("round settled",
		zap.String("outcome", string(res.Outcome)),
		zap.Bool("forced", res.Forced),
		zap.Int64("bet", round.Bet()),
		zap.Int64("balance", sess.ledger.Balance),
	)
	return []wallet.Entry{entry}
}

// failLocked handles errors from the round. Deck exhaustion voids the round and
// refunds the stake; other errors leave the session untouched.
func (sess *Session) failLocked(ctx context.Context, err error, entries ...wallet.Entry) (State, error) {
	if !isDeckExhausted(err) || sess.round == nil {
		if len(entries) > 0 {
			sess.persistLocked(ctx, entries...)
		}
		return sess.stateLocked(), err
	}
	sess.log.Error("deck exhausted, voiding round", zap.Error(err))
	stake := sess.round.Void()
	if stake > 0 {
		next, entry := sess.svc.wallets.Refund(ctx, sess.ledger, sess.current, stake, "deck_exhausted")
		sess.ledger = next
		entries = append(entries, entry)
	}
	sess.message = "The deck ran out. The round was voided and your bet returned."
	sess.persistLocked(ctx, entries...)
	return sess.stateLocked(), err
}

// PlayAnother clears the settled table for a new bet.
func (sess *Session) PlayAnother(ctx context.Context) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.round == nil && sess.current != "" {
		// Simple games go straight back to the bet box.
		sess.lastPlay = nil
		sess.message = ""
		sess.persistLocked(ctx)
		return sess.stateLocked(), nil
	}
	round, err := sess.tableLocked()
	if err != nil {
		return sess.stateLocked(), err
	}
	if err := round.PlayAnother(); err != nil {
		return sess.stateLocked(), err
	}
	sess.message = ""
	sess.persistLocked(ctx)
	return sess.stateLocked(), nil
}

// PlaySimple plays one round of the selected simple game.
func (sess *Session) PlaySimple(ctx context.Context, amount int64) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.current == "" {
		return sess.stateLocked(), appErr.ErrNoGameSelected
	}
	kind := game.ParseKind(sess.current)
	if sess.round != nil || !kind.IsSimple() {
		return sess.stateLocked(), fmt.Errorf("%w: %s is not a simple game", appErr.ErrInvalidAction, sess.current)
	}
	if err := game.ValidateBet(amount, sess.ledger.Balance); err != nil {
		return sess.stateLocked(), err
	}

	res := sess.svc.games.Simulate(kind, amount)
	next, entry, err := sess.svc.wallets.PlaySimple(ctx, sess.ledger, res)
	if err != nil {
		return sess.stateLocked(), err
	}
	sess.ledger = next
	sess.lastPlay = &res
	if res.Won {
		sess.message = fmt.Sprintf("You won $%d!", res.Payout)
	} else {
		sess.message = "You lost!"
	}
	sess.log.Info("simple game played",
		zap.String("game", string(kind)),
		zap.Bool("won", res.Won),
		zap.Int64("payout", res.Payout),
	)
	sess.persistLocked(ctx, entry)
	return sess.stateLocked(), nil
}

// Reset wipes all progress. The caller must pass confirm=true.
func (sess *Session) Reset(ctx context.Context, confirm bool) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !confirm {
		return sess.stateLocked(), appErr.ErrResetNotConfirmed
	}
	next, entry := sess.svc.wallets.Reset(ctx, sess.ledger)
	sess.ledger = next
	sess.round = nil
	sess.current = ""
	sess.lastPlay = nil
	sess.message = "Progress reset."
	sess.log.Info("session reset", zap.Int64("balance", next.Balance))

	sess.persistLocked(ctx, entry)
	return sess.stateLocked(), nil
}

// History returns the ledger movements of this session, newest first.
func (sess *Session) History(ctx context.Context, page, size int) (HistoryPage, error) {
	result := HistoryPage{Screen: ScreenHistory, Page: page, Size: size}
	if sess.svc.history == nil {
		return result, nil
	}
	items, total, err := sess.svc.history.ListHistory(ctx, sess.slot, page, size)
	if err != nil {
		return result, err
	}
	result.Items = items
	result.Total = total
	return result, nil
}
