package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"casino-service/internal/model"
	"casino-service/internal/service/game"
	"casino-service/internal/service/wallet"
	appErr "casino-service/pkg/errors"
	"casino-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// load builds a session from the store, falling back to defaults. A session
// whose load failed stays unloaded until a later read of the store succeeds.
func (s *Service) load(ctx context.Context, key string) *Session {
	sess := &Session{
		key:    key,
		slot:   s.slotKey(key),
		svc:    s,
		ledger: s.wallets.New(),
		log:    logger.Session(key),
	}

	record, err := s.store.Load(ctx, sess.slot)
	if err != nil {
		sess.degraded = true
		sess.log.Warn("session load failed, continuing in memory", zap.Error(err))
		return sess
	}
	sess.loaded = true
	if record != nil {
		sess.adoptLocked(record)
	}
	return sess
}

// adoptLocked replaces the in-memory ledger and table with a stored record.
func (sess *Session) adoptLocked(record *model.SessionState) {
	s := sess.svc
	sess.ledger = wallet.Ledger{
		Balance:        record.Balance,
		InitialBalance: record.InitialBalance,
		TotalWon:       record.TotalWon,
		TotalLost:      record.TotalLost,
		GamesPlayed:    record.GamesPlayed,
		GamesWon:       record.GamesWon,
	}
	sess.current = ""
	sess.round = nil
	sess.lastPlay = nil
	if sess.ledger.InitialBalance <= 0 || sess.ledger.Balance < 0 {
		sess.log.Warn("discarding corrupt ledger", zap.Int64("balance", record.Balance))
		sess.ledger = s.wallets.New()
		return
	}

	sess.current = record.CurrentGame
	if sess.current == "" {
		return
	}
	if game.ParseKind(sess.current).IsSimple() {
		return
	}
	if len(record.RoundJSON) == 0 {
		sess.current = ""
		return
	}

	var snap game.RoundSnapshot
	if err := json.Unmarshal(record.RoundJSON, &snap); err != nil {
		sess.log.Warn("discarding unreadable round", zap.Error(err))
		sess.current = ""
		return
	}
	round, err := s.games.RestoreRound(snap)
	if err != nil {
		sess.log.Warn("discarding round", zap.Error(err))
		if snap.Phase == game.PhasePlayerTurn && snap.Bet > 0 {
			sess.ledger = wallet.Release(sess.ledger, snap.Bet)
		}
		sess.current = ""
		return
	}
	sess.round = round
}

// reloadLocked retries the initial read for a session that started degraded.
// It reports whether a stored record replaced the in-memory progress.
func (sess *Session) reloadLocked(ctx context.Context) (bool, error) {
	if sess.loaded {
		return false, nil
	}
	record, err := sess.svc.store.Load(ctx, sess.slot)
	if err != nil {
		return false, err
	}
	sess.loaded = true
	if record == nil {
		return false, nil
	}
	sess.adoptLocked(record)
	sess.degraded = false
	sess.message = "Saved progress restored."
	sess.log.Info("stored session adopted after outage", zap.Int64("balance", sess.ledger.Balance))
	return true, nil
}

func (sess *Session) record() *model.SessionState {
	state := &model.SessionState{
		Key:            sess.slot,
		Balance:        sess.ledger.Balance,
		InitialBalance: sess.ledger.InitialBalance,
		TotalWon:       sess.ledger.TotalWon,
		TotalLost:      sess.ledger.TotalLost,
		GamesPlayed:    sess.ledger.GamesPlayed,
		GamesWon:       sess.ledger.GamesWon,
		CurrentGame:    sess.current,
		UpdatedAt:      time.Now(),
	}
	if sess.round != nil {
		raw, err := json.Marshal(sess.round.Snapshot())
		if err == nil {
			state.RoundJSON = datatypes.JSON(raw)
		} else {
			sess.log.Error("failed to encode round", zap.Error(err))
		}
	}
	return state
}

// persistLocked writes the slot and any ledger entries, then notifies the view.
// Storage failures switch the session to in-memory operation instead of failing the action.
// Nothing is written until the stored record has been read at least once.
func (sess *Session) persistLocked(ctx context.Context, entries ...wallet.Entry) {
	adopted, err := sess.reloadLocked(ctx)
	if err != nil || adopted {
		if err != nil {
			sess.degraded = true
		}
		sess.svc.render(sess.key, sess.stateLocked())
		return
	}

	state := sess.record()
	logs := sess.billingLogs(entries)

	if sess.svc.committer != nil {
		err = sess.svc.committer.Commit(ctx, state, logs)
	} else {
		err = sess.svc.store.Save(ctx, state)
		if err == nil && sess.svc.history != nil {
			err = sess.svc.history.AppendHistory(ctx, logs)
		}
	}
	if err != nil {
		if !sess.degraded {
			sess.log.Warn("persistence unavailable, continuing in memory", zap.Error(err))
		}
		sess.degraded = true
	} else if sess.degraded {
		sess.log.Info("persistence recovered")
		sess.degraded = false
	}

	sess.svc.render(sess.key, sess.stateLocked())
}

func (sess *Session) billingLogs(entries []wallet.Entry) []model.BillingLog {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now()
	logs := make([]model.BillingLog, 0, len(entries))
	for _, e := range entries {
		if e.Type == "" {
			continue
		}
		logs = append(logs, model.BillingLog{
			SessionKey:   sess.slot,
			Type:         e.Type,
			Game:         e.Game,
			Bet:          e.Bet,
			Delta:        e.Delta,
			BalanceAfter: e.After,
			MetaJSON:     mustJSON(e.Meta),
			CreatedAt:    now,
		})
	}
	return logs
}

func mustJSON(v map[string]interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("{}")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

func isDeckExhausted(err error) bool {
	return errors.Is(err, appErr.ErrDeckExhausted)
}
