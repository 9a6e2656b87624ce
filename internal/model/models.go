package model

import (
	"time"

	"gorm.io/datatypes"
)

// SessionState is the single durable slot of a player session: the ledger
// as flat numeric fields plus the in-flight round, if any.
type SessionState struct {
	Key            string         `gorm:"primaryKey;column:slot_key;size:128" json:"key"`
	Balance        int64          `json:"balance"`
	InitialBalance int64          `json:"initialBalance"`
	TotalWon       int64          `json:"totalWon"`
	TotalLost      int64          `json:"totalLost"`
	GamesPlayed    int64          `json:"gamesPlayed"`
	GamesWon       int64          `json:"gamesWon"`
	CurrentGame    string         `gorm:"size:64" json:"currentGame,omitempty"`
	RoundJSON      datatypes.JSON `json:"round,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// BillingLog records one balance movement of a session.
type BillingLog struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionKey   string         `gorm:"index;size:128" json:"-"`
	Type         string         `gorm:"size:16" json:"type"` // bet/win/lose/draw/refund/reset
	Game         string         `gorm:"size:64" json:"game,omitempty"`
	Bet          int64          `json:"bet"`
	Delta        int64          `json:"delta"`
	BalanceAfter int64          `json:"balanceAfter"`
	MetaJSON     datatypes.JSON `json:"meta,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
