package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"casino-service/internal/config"
	"casino-service/internal/model"
	"casino-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var RDB *redis.Client

// InitRedis connects RDB from config. An unreachable server is not fatal:
// sessions run degraded until it answers.
func InitRedis() {
	conf := config.GlobalConfig.Redis
	RDB = redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("Failed to connect to Redis", zap.String("addr", conf.Addr), zap.Error(err))
	}
}

const defaultHistoryLimit = 200

// RedisStore keeps each session slot as one JSON value and history as a capped list.
type RedisStore struct {
	rdb          *redis.Client
	historyLimit int64
}

func NewRedisStore(rdb *redis.Client, historyLimit int) *RedisStore {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &RedisStore{rdb: rdb, historyLimit: int64(historyLimit)}
}

func (s *RedisStore) Load(ctx context.Context, key string) (*model.SessionState, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, unavailable(err)
	}
	var state model.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, unavailable(err)
	}
	state.Key = key
	return &state, nil
}

func (s *RedisStore) Save(ctx context.Context, state *model.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return unavailable(err)
	}
	if err := s.rdb.Set(ctx, state.Key, raw, 0).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// AppendHistory pushes each log onto its session's list and trims every
// touched list to the history limit in one transaction.
func (s *RedisStore) AppendHistory(ctx context.Context, logs []model.BillingLog) error {
	if len(logs) == 0 {
		return nil
	}
	pipe := s.rdb.TxPipeline()
	touched := make(map[string]bool)
	for i := range logs {
		id, err := s.rdb.Incr(ctx, buildHistorySeqKey(logs[i].SessionKey)).Result()
		if err != nil {
			return unavailable(err)
		}
		logs[i].ID = id
		if logs[i].CreatedAt.IsZero() {
			logs[i].CreatedAt = time.Now()
		}
		raw, err := json.Marshal(logs[i])
		if err != nil {
			return unavailable(err)
		}
		listKey := buildHistoryKey(logs[i].SessionKey)
		pipe.LPush(ctx, listKey, raw)
		touched[listKey] = true
	}
	for listKey := range touched {
		pipe.LTrim(ctx, listKey, 0, s.historyLimit-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) ListHistory(ctx context.Context, key string, page, size int) ([]model.BillingLog, int64, error) {
	page, size = sanitizePage(page, size)
	listKey := buildHistoryKey(key)

	total, err := s.rdb.LLen(ctx, listKey).Result()
	if err != nil {
		return nil, 0, unavailable(err)
	}
	items := make([]model.BillingLog, 0)
	if total == 0 {
		return items, 0, nil
	}

	start := int64((page - 1) * size)
	raws, err := s.rdb.LRange(ctx, listKey, start, start+int64(size)-1).Result()
	if err != nil {
		return nil, 0, unavailable(err)
	}
	for _, raw := range raws {
		var item model.BillingLog
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			continue
		}
		item.SessionKey = key
		items = append(items, item)
	}
	return items, total, nil
}

func buildHistoryKey(key string) string {
	return key + ":history"
}

func buildHistorySeqKey(key string) string {
	return key + ":history:seq"
}
