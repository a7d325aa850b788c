package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"social-casino-backend/internal/models"
)

// Sync writes a full snapshot of every collection to the snapshot store.
// Concurrent calls are serialised and each captures state only once it holds
// the sync lock.
func (s *Store) Sync(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.setSyncStatus(models.SyncSyncing, time.Time{})
	s.pruneSessions()

	payload, err := s.captureSnapshot()
	if err != nil {
		s.setSyncStatus(models.SyncError, time.Time{})
		return err
	}

	if s.syncDelay > 0 {
		timer := time.NewTimer(s.syncDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.setSyncStatus(models.SyncError, time.Time{})
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := s.snapshots.SaveSnapshot(ctx, payload); err != nil {
		s.setSyncStatus(models.SyncError, time.Time{})
		s.logger.Error("snapshot sync failed", slog.String("error", err.Error()))
		return fmt.Errorf("sync: %w", err)
	}

	s.setSyncStatus(models.SyncConnected, s.clock.Now())
	s.logger.Debug("snapshot synced", slog.Int("collections", len(payload)))
	return nil
}

// SyncStatus reports the state of the last sync and when it last succeeded.
func (s *Store) SyncStatus() (models.SyncStatus, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncStatus, s.lastSyncAt
}

func (s *Store) setSyncStatus(status models.SyncStatus, at time.Time) {
	s.mu.Lock()
	s.syncStatus = status
	if !at.IsZero() {
		s.lastSyncAt = at
	}
	s.mu.Unlock()
}

// pruneSessions drops logged-out sessions and, when a TTL is set, sessions
// older than it.
func (s *Store) pruneSessions() {
	cutoff := s.clock.Now().Add(-s.sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.sessions {
		if rec.UserID == "" || (s.sessionTTL > 0 && rec.CreatedAt.Before(cutoff)) {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) sessionsSortedLocked() []models.SessionRecord {
	out := make([]models.SessionRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) captureSnapshot() (map[string][]byte, error) {
	// Settings are read under s.mu so jackpot pools match the committed users.
	s.mu.RLock()
	settings := s.Settings()
	collections := map[string]any{
		SnapshotUsers:        s.usersSortedLocked(),
		SnapshotTransactions: s.transactions,
		SnapshotRedemptions:  s.redemptions,
		SnapshotCategories:   s.categories,
		SnapshotGames:        s.games,
		SnapshotPackages:     s.packages,
		SnapshotPromotions:   s.promotions,
		SnapshotComments:     s.comments,
		SnapshotWins:         s.wins,
		SnapshotAlerts:       s.alerts,
		SnapshotAudit:        s.audit,
		SnapshotEmails:       s.emails,
		SnapshotIngestion:    s.ingestion,
		SnapshotSettings:     settings,
		SnapshotCurrentUser:  s.sessionsSortedLocked(),
	}
	payload := make(map[string][]byte, len(collections))
	var encodeErr error
	for key, v := range collections {
		data, err := encodeEnvelope(v)
		if err != nil {
			encodeErr = fmt.Errorf("failed to encode %s: %w", key, err)
			break
		}
		payload[key] = data
	}
	s.mu.RUnlock()

	if encodeErr != nil {
		return nil, encodeErr
	}
	return payload, nil
}

// Hydrate replaces seeded collections with whatever the snapshot store holds.
// Keys that were never written keep their seed values.
func (s *Store) Hydrate(ctx context.Context) error {
	var (
		users        []models.User
		transactions []models.Transaction
		redemptions  []models.RedemptionRequest
		categories   []models.Category
		games        []models.Game
		packages     []models.Package
		promotions   []models.Promotion
		comments     []models.Comment
		wins         []models.Win
		alerts       []models.SecurityAlert
		audit        []models.AuditLog
		emails       []models.EmailLog
		ingestion    []models.IngestionLog
		settings     models.AppSettings
		sessions     []models.SessionRecord
	)

	targets := []struct {
		key   string
		dst   any
		apply func()
	}{
		{SnapshotUsers, &users, func() {
			s.users = make(map[string]*models.User, len(users))
			for i := range users {
				s.users[users[i].ID] = &users[i]
			}
		}},
		{SnapshotTransactions, &transactions, func() { s.transactions = transactions }},
		{SnapshotRedemptions, &redemptions, func() { s.redemptions = redemptions }},
		{SnapshotCategories, &categories, func() { s.categories = categories }},
		{SnapshotGames, &games, func() { s.games = games }},
		{SnapshotPackages, &packages, func() { s.packages = packages }},
		{SnapshotPromotions, &promotions, func() { s.promotions = promotions }},
		{SnapshotComments, &comments, func() { s.comments = comments }},
		{SnapshotWins, &wins, func() { s.wins = wins }},
		{SnapshotAlerts, &alerts, func() { s.alerts = alerts }},
		{SnapshotAudit, &audit, func() { s.audit = audit }},
		{SnapshotEmails, &emails, func() { s.emails = emails }},
		{SnapshotIngestion, &ingestion, func() { s.ingestion = ingestion }},
		{SnapshotCurrentUser, &sessions, func() {
			s.sessions = make(map[string]*models.SessionRecord, len(sessions))
			for i := range sessions {
				s.sessions[sessions[i].ID] = &sessions[i]
			}
		}},
	}

	var apply []func()
	loaded := 0
	for _, t := range targets {
		ok, err := s.loadKey(ctx, t.key, t.dst)
		if err != nil {
			return err
		}
		if ok {
			apply = append(apply, t.apply)
			loaded++
		}
	}
	hasSettings, err := s.loadKey(ctx, SnapshotSettings, &settings)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for _, f := range apply {
		f()
	}
	s.mu.Unlock()

	if hasSettings {
		s.settingsMu.Lock()
		s.settings = settings
		s.settingsMu.Unlock()
		loaded++
	}

	s.logger.Info("store hydrated", slog.Int("collections", loaded))
	return nil
}

func (s *Store) loadKey(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.snapshots.LoadSnapshot(ctx, key)
	if errors.Is(err, models.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := decodeEnvelope(raw, dst); err != nil {
		return false, fmt.Errorf("hydrate %s: %w", key, err)
	}
	return true, nil
}
