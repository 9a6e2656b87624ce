package session

import (
	"context"

	"casino-service/internal/model"
	"casino-service/internal/service/game"
)

// Store is the single durable slot per session.
type Store interface {
	// Load returns nil, nil when nothing was saved under key.
	Load(ctx context.Context, key string) (*model.SessionState, error)
	Save(ctx context.Context, state *model.SessionState) error
}

type HistoryStore interface {
	AppendHistory(ctx context.Context, logs []model.BillingLog) error
	ListHistory(ctx context.Context, key string, page, size int) ([]model.BillingLog, int64, error)
}

// Committer is implemented by stores that can write a slot and its history atomically.
type Committer interface {
	Commit(ctx context.Context, state *model.SessionState, logs []model.BillingLog) error
}

// View receives every state change of a session.
type View interface {
	Render(key string, state State)
}

type Screen string

const (
	ScreenMenu      Screen = "menu"
	ScreenBetting   Screen = "betting"
	ScreenGameBoard Screen = "game_board"
	ScreenResult    Screen = "result"
	ScreenHistory   Screen = "history"
)

// State is the document the page redraws from.
type State struct {
	Key            string             `json:"key"`
	Screen         Screen             `json:"screen"`
	Game           string             `json:"game,omitempty"`
	GameTitle      string             `json:"gameTitle,omitempty"`
	Balance        int64              `json:"balance"`
	InitialBalance int64              `json:"initialBalance"`
	TotalWon       int64              `json:"totalWon"`
	TotalLost      int64              `json:"totalLost"`
	NetWorth       int64              `json:"netWorth"`
	GamesPlayed    int64              `json:"gamesPlayed"`
	GamesWon       int64              `json:"gamesWon"`
	WinRate        int                `json:"winRate"`
	Table          *game.TableView    `json:"table,omitempty"`
	LastPlay       *game.SimpleResult `json:"lastPlay,omitempty"`
	Message        string             `json:"message,omitempty"`
	Degraded       bool               `json:"degraded,omitempty"`
}

// GameInfo is one entry of the landing menu.
type GameInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Kind        string `json:"kind"` // table, simple
	Policy      string `json:"policy,omitempty"`
	AllowDouble bool   `json:"allowDouble,omitempty"`
}

type HistoryPage struct {
	Screen Screen             `json:"screen"`
	Items  []model.BillingLog `json:"items"`
	Total  int64              `json:"total"`
	Page   int                `json:"page"`
	Size   int                `json:"size"`
}
