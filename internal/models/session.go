package models

import "time"

// SessionRecord is the persisted form of a login session. UserID is empty once
// the session has logged out until the next sync drops the record.
type SessionRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type SyncStatus string

const (
	SyncConnected SyncStatus = "connected"
	SyncSyncing   SyncStatus = "syncing"
	SyncError     SyncStatus = "error"
)

type DailyReward struct {
	Streak     int       `json:"streak"`
	GoldCoins  float64   `json:"goldCoins"`
	SweepCoins float64   `json:"sweepCoins"`
	Balance    Balance   `json:"balance"`
	NextClaim  time.Time `json:"nextClaim"`
}
