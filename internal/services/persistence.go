package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"social-casino-backend/internal/models"
)

// SnapshotSchemaVersion is written into every persisted collection.
const SnapshotSchemaVersion = 1

// Logical key per persisted collection.
const (
	SnapshotUsers        = "users"
	SnapshotTransactions = "transactions"
	SnapshotRedemptions  = "redemptions"
	SnapshotCategories   = "categories"
	SnapshotGames        = "games"
	SnapshotPackages     = "packages"
	SnapshotPromotions   = "promotions"
	SnapshotComments     = "comments"
	SnapshotWins         = "wins"
	SnapshotAlerts       = "alerts"
	SnapshotAudit        = "audit"
	SnapshotEmails       = "emails"
	SnapshotIngestion    = "ingestion"
	SnapshotSettings     = "settings"
	SnapshotCurrentUser  = "current-user"
)

// SnapshotStore is the durable mirror of the store. SaveSnapshot writes every
// given key as one unit; LoadSnapshot returns models.ErrSnapshotNotFound for
// keys that were never written.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, collections map[string][]byte) error
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// RateLimiter counts actions per user inside a fixed window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID, action string, limit int, window time.Duration) (bool, error)
}

type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

func encodeEnvelope(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{SchemaVersion: SnapshotSchemaVersion, Data: data})
}

func decodeEnvelope(raw []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode snapshot envelope: %w", err)
	}
	if env.SchemaVersion != SnapshotSchemaVersion {
		return fmt.Errorf("%w: %d", models.ErrSchemaVersion, env.SchemaVersion)
	}
	return json.Unmarshal(env.Data, v)
}
