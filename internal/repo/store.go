package repo

import (
	"context"
	"errors"
	"fmt"

	"casino-service/internal/model"
	appErr "casino-service/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultHistoryPageSize = 20
	maxHistoryPageSize     = 100
)

// GormStore keeps session slots and history in a SQL database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, key string) (*model.SessionState, error) {
	var state model.SessionState
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, unavailable(err)
	}
	return &state, nil
}

func (s *GormStore) Save(ctx context.Context, state *model.SessionState) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(state).Error
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// Commit writes the slot and its history rows in one transaction.
func (s *GormStore) Commit(ctx context.Context, state *model.SessionState, logs []model.BillingLog) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(state).Error; err != nil {
			return err
		}
		if len(logs) > 0 {
			if err := tx.Create(&logs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *GormStore) AppendHistory(ctx context.Context, logs []model.BillingLog) error {
	if len(logs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&logs).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *GormStore) ListHistory(ctx context.Context, key string, page, size int) ([]model.BillingLog, int64, error) {
	page, size = sanitizePage(page, size)

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.BillingLog{}).
		Where("session_key = ?", key).
		Count(&total).Error; err != nil {
		return nil, 0, unavailable(err)
	}

	items := make([]model.BillingLog, 0)
	if total > 0 {
		offset := (page - 1) * size
		if err := s.db.WithContext(ctx).
			Where("session_key = ?", key).
			Order("id DESC").
			Limit(size).
			Offset(offset).
			Find(&items).Error; err != nil {
			return nil, 0, unavailable(err)
		}
	}
	return items, total, nil
}

func sanitizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultHistoryPageSize
	}
	if size > maxHistoryPageSize {
		size = maxHistoryPageSize
	}
	return page, size
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", appErr.ErrPersistenceUnavailable, err)
}
