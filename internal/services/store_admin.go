package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"social-casino-backend/internal/models"
)

// Admin operations check the caller's role here rather than trusting the
// transport layer.

// AdminAdjustBalance applies a signed delta to a user's balance. The result is
// clamped at zero and the applied delta is what gets recorded.
func (s *Session) AdminAdjustBalance(ctx context.Context, userID string, currency models.Currency, amount float64, reason string) (models.User, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return models.User{}, err
	}
	if !currency.Valid() {
		return models.User{}, models.ErrInvalidCurrency
	}

	u, err := s.store.mutateUser(userID, func(tx *userTx) error {
		before := tx.user.Balance(currency)
		tx.user.SetBalance(currency, before+amount)
		applied := tx.user.Balance(currency) - before

		desc := fmt.Sprintf("Admin adjustment: %s", reason)
		tx.record(models.TransactionTypeAdjustment, currency, applied, "", desc)
		details := fmt.Sprintf("%s %+.2f (requested %+.2f): %s", currency, applied, amount, reason)
		tx.onCommit = append(tx.onCommit, func() {
			s.store.addAuditLocked(admin.ID, "ADJUST_BALANCE", userID, details)
		})
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.store.logger.Info("balance adjusted",
		slog.String("admin_id", admin.ID),
		slog.String("user_id", userID),
		slog.String("currency", string(currency)),
		slog.Float64("amount", amount))
	return u, nil
}

func (s *Session) AdminUpdateGame(ctx context.Context, gameID string, update models.GameUpdate) (models.Game, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return models.Game{}, err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.games {
		if st.games[i].ID == gameID {
			update.Apply(&st.games[i])
			st.games[i].UpdatedAt = st.clock.Now()
			st.addAuditLocked(admin.ID, "UPDATE_GAME", gameID, st.games[i].Name)
			return st.games[i], nil
		}
	}
	return models.Game{}, models.ErrGameNotFound
}

func (s *Session) AdminAddGame(ctx context.Context, game models.Game) (models.Game, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return models.Game{}, err
	}
	if strings.TrimSpace(game.Name) == "" {
		return models.Game{}, fmt.Errorf("%w: game name is required", models.ErrInvalidInput)
	}
	if game.ID == "" {
		game.ID = models.NewID("game")
	}
	if game.Volatility == "" {
		game.Volatility = models.VolatilityMedium
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, g := range st.games {
		if g.ID == game.ID {
			return models.Game{}, models.ErrGameExists
		}
	}
	game.UpdatedAt = st.clock.Now()
	st.games = append(st.games, game)
	st.addAuditLocked(admin.ID, "ADD_GAME", game.ID, game.Name)
	return game, nil
}

// AdminUpsertGames replaces games whose id already exists and appends the
// rest. Applying the same records twice leaves one entry per id.
func (s *Session) AdminUpsertGames(ctx context.Context, games []models.Game) (added, updated int, err error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return 0, 0, err
	}
	added, updated = s.store.upsertGames(games)
	s.store.addAudit(admin.ID, "UPSERT_GAMES", "", fmt.Sprintf("%d added, %d updated", added, updated))
	return added, updated, nil
}

func (s *Store) upsertGames(games []models.Game) (added, updated int) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(s.games))
	for i, g := range s.games {
		index[g.ID] = i
	}
	for _, g := range games {
		if g.ID == "" {
			continue
		}
		g.UpdatedAt = now
		if i, ok := index[g.ID]; ok {
			s.games[i] = g
			updated++
			continue
		}
		index[g.ID] = len(s.games)
		s.games = append(s.games, g)
		added++
	}
	return added, updated
}

func (s *Session) AdminDeleteGame(ctx context.Context, gameID string) error {
	admin, err := s.requireAdmin()
	if err != nil {
		return err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, g := range st.games {
		if g.ID == gameID {
			st.games = append(st.games[:i], st.games[i+1:]...)
			st.addAuditLocked(admin.ID, "DELETE_GAME", gameID, g.Name)
			return nil
		}
	}
	return models.ErrGameNotFound
}

func (s *Session) AdminResolveAlert(ctx context.Context, alertID string) (models.SecurityAlert, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return models.SecurityAlert{}, err
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.alerts {
		if st.alerts[i].ID == alertID {
			st.alerts[i].Resolved = true
			st.addAuditLocked(admin.ID, "RESOLVE_ALERT", alertID, st.alerts[i].Type)
			return st.alerts[i], nil
		}
	}
	return models.SecurityAlert{}, models.ErrAlertNotFound
}

// AdminUpdateSettings merges patch into the settings, including jackpot pools
// and seeds.
func (s *Session) AdminUpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.AppSettings, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return models.AppSettings{}, err
	}

	st := s.store
	st.settingsMu.Lock()
	patch.Apply(&st.settings)
	updated := st.settings
	st.settingsMu.Unlock()

	st.addAudit(admin.ID, "UPDATE_SETTINGS", "", "")
	st.logger.Info("settings updated",
		slog.String("admin_id", admin.ID),
		slog.Bool("maintenance", updated.MaintenanceMode))
	return updated, nil
}

// AdminSendEmail records an email to one user (by id or email) or to every
// user when target is models.EmailTargetAll. Nothing is delivered.
func (s *Session) AdminSendEmail(ctx context.Context, target, subject, body string, typ models.EmailType) ([]models.EmailLog, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}
	if typ == "" {
		typ = models.EmailSystem
	}

	st := s.store
	now := st.clock.Now()
	st.mu.Lock()
	defer st.mu.Unlock()

	var recipients []models.User
	if target == models.EmailTargetAll {
		recipients = st.usersSortedLocked()
	} else {
		for _, u := range st.users {
			if u.ID == target || u.Email == target {
				recipients = append(recipients, *u)
				break
			}
		}
	}
	if len(recipients) == 0 {
		return nil, models.ErrUserNotFound
	}

	logs := make([]models.EmailLog, 0, len(recipients))
	for _, u := range recipients {
		logs = append(logs, models.EmailLog{
			ID:       models.NewID("email"),
			UserID:   u.ID,
			To:       u.Email,
			Subject:  subject,
			Body:     body,
			Type:     typ,
			SentAt:   now,
			SentByID: admin.ID,
		})
	}
	st.emails = append(st.emails, logs...)
	st.addAuditLocked(admin.ID, "SEND_EMAIL", target, fmt.Sprintf("%s (%d recipients)", subject, len(logs)))
	return logs, nil
}

// AdminUpdateUserStatus sets account lock state and KYC status together.
// Sessions of the target see the change on their next read.
func (s *Session) AdminUpdateUserStatus(ctx context.Context, userID string, status models.AccountStatus, kyc models.KYCStatus) (models.User, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return models.User{}, err
	}
	if !status.Valid() || !kyc.Valid() {
		return models.User{}, fmt.Errorf("%w: status %q kyc %q", models.ErrInvalidInput, status, kyc)
	}

	return s.store.mutateUser(userID, func(tx *userTx) error {
		tx.user.Status = status
		tx.user.KYCStatus = kyc
		details := fmt.Sprintf("status=%s kyc=%s", status, kyc)
		tx.onCommit = append(tx.onCommit, func() {
			s.store.addAuditLocked(admin.ID, "UPDATE_USER_STATUS", userID, details)
		})
		return nil
	})
}

// AdminProcessRedemption approves or rejects a pending redemption. Rejection
// returns the held sweep coins.
func (s *Session) AdminProcessRedemption(ctx context.Context, redemptionID string, approve bool) (models.RedemptionRequest, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return models.RedemptionRequest{}, err
	}

	st := s.store
	st.mu.RLock()
	var userID string
	for _, r := range st.redemptions {
		if r.ID == redemptionID {
			userID = r.UserID
			break
		}
	}
	st.mu.RUnlock()
	if userID == "" {
		return models.RedemptionRequest{}, models.ErrRedemptionNotFound
	}

	var processed models.RedemptionRequest
	_, err = st.mutateUser(userID, func(tx *userTx) error {
		st.mu.RLock()
		idx := -1
		for i, r := range st.redemptions {
			if r.ID == redemptionID {
				idx = i
				processed = r
				break
			}
		}
		st.mu.RUnlock()
		if idx < 0 {
			return models.ErrRedemptionNotFound
		}
		if processed.Status != models.RedemptionPending {
			return models.ErrRedemptionClosed
		}

		now := tx.now
		processed.ProcessedAt = &now
		processed.Status = models.RedemptionApproved
		action := "APPROVE_REDEMPTION"
		if !approve {
			processed.Status = models.RedemptionRejected
			action = "REJECT_REDEMPTION"
			tx.user.SweepCoins += processed.Amount
			tx.record(models.TransactionTypeRefund, models.CurrencySC, processed.Amount, "", "Redemption rejected "+processed.ID)
		}

		tx.onCommit = append(tx.onCommit, func() {
			st.redemptions[idx] = processed
			st.addAuditLocked(admin.ID, action, processed.ID, fmt.Sprintf("%.2f SC", processed.Amount))
		})
		return nil
	})
	if err != nil {
		return models.RedemptionRequest{}, err
	}
	return processed, nil
}

// Listing operations backing the admin console.

func (s *Session) AdminListUsers() ([]models.User, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return s.store.usersSortedLocked(), nil
}

func (s *Session) AdminListTransactions(userID string, currency models.Currency) ([]models.Transaction, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if userID != "" {
		return s.store.transactionsFor(userID, currency), nil
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	var out []models.Transaction
	for _, t := range s.store.transactions {
		if currency == "" || t.Currency == currency {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Session) AdminListRedemptions() ([]models.RedemptionRequest, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return append([]models.RedemptionRequest(nil), s.store.redemptions...), nil
}

func (s *Session) AdminListAlerts() ([]models.SecurityAlert, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return append([]models.SecurityAlert(nil), s.store.alerts...), nil
}

func (s *Session) AdminAuditLogs() ([]models.AuditLog, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return append([]models.AuditLog(nil), s.store.audit...), nil
}

func (s *Session) AdminEmailLogs() ([]models.EmailLog, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return append([]models.EmailLog(nil), s.store.emails...), nil
}

func (s *Session) AdminIngestionLogs() ([]models.IngestionLog, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return append([]models.IngestionLog(nil), s.store.ingestion...), nil
}

func (s *Session) IsAdmin() bool {
	_, err := s.requireAdmin()
	return err == nil
}
