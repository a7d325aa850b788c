package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"social-casino-backend/internal/models"
)

// Session is a caller's handle on the store. Session-scoped operations act on
// the session's current user and fail with models.ErrLoginRequired once the
// session has logged out.
type Session struct {
	store *Store
	id    string
}

func (s *Session) ID() string {
	return s.id
}

// Session returns the handle for an existing session id.
func (s *Store) Session(id string) (*Session, error) {
	s.mu.RLock()
	_, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return &Session{store: s, id: id}, nil
}

func (s *Store) openSession(userID string) *Session {
	rec := &models.SessionRecord{
		ID:        models.GenerateSessionID(),
		UserID:    userID,
		CreatedAt: s.clock.Now(),
	}
	s.mu.Lock()
	s.sessions[rec.ID] = rec
	s.mu.Unlock()
	return &Session{store: s, id: rec.ID}
}

// Login matches the email exactly and accepts any of the configured demo
// passwords. Unknown emails and wrong passwords are indistinguishable.
func (s *Store) Login(ctx context.Context, email, password string) (*Session, error) {
	userID := s.userIDByEmail(email)

	valid := false
	for _, h := range s.passwordHashes {
		if bcrypt.CompareHashAndPassword(h, []byte(password)) == nil {
			valid = true
			break
		}
	}
	if userID == "" || !valid {
		return nil, models.ErrInvalidCredentials
	}

	u, err := s.mutateUser(userID, func(tx *userTx) error {
		if tx.user.Status == models.AccountLocked {
			return models.ErrAccountLocked
		}
		tx.user.LastLoginAt = tx.now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("user_id", u.ID))
	return s.openSession(u.ID), nil
}

// Signup creates a player with the new-user grant and logs them in. The
// referral code is stored as given; it is not validated or rewarded.
func (s *Store) Signup(ctx context.Context, email, name, referralCode string) (*Session, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, models.ErrInvalidInput
	}

	settings := s.Settings()
	now := s.clock.Now()
	u := &models.User{
		ID:             models.NewID("user"),
		Email:          email,
		Name:           name,
		Role:           models.RolePlayer,
		GoldCoins:      settings.NewUserBonusGC,
		SweepCoins:     settings.NewUserBonusSC,
		Level:          1,
		KYCStatus:      models.KYCUnverified,
		Status:         models.AccountActive,
		LastLoginAt:    now,
		ReferralCode:   s.random.String(models.ReferralCodeLength, models.ReferralCodeAlphabet),
		ReferredBy:     strings.TrimSpace(referralCode),
		TotalDeposited: decimal.Zero,
		CreatedAt:      now,
	}

	tx := &userTx{user: u, now: now}
	tx.record(models.TransactionTypeBonus, models.CurrencyGC, u.GoldCoins, "", "Welcome bonus")
	tx.record(models.TransactionTypeBonus, models.CurrencySC, u.SweepCoins, "", "Welcome bonus")

	s.mu.Lock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, email) {
			s.mu.Unlock()
			return nil, models.ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	s.transactions = append(s.transactions, tx.records...)
	s.mu.Unlock()

	s.logger.Info("user signed up",
		slog.String("user_id", u.ID),
		slog.Bool("referred", u.ReferredBy != ""))
	return s.openSession(u.ID), nil
}

func (s *Store) userIDByEmail(email string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u.ID
		}
	}
	return ""
}

// Logout clears the session's current user. Cached collections are untouched.
func (s *Session) Logout() {
	s.store.mu.Lock()
	if rec, ok := s.store.sessions[s.id]; ok {
		rec.UserID = ""
	}
	s.store.mu.Unlock()
}

func (s *Session) userID() (string, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	rec, ok := s.store.sessions[s.id]
	if !ok || rec.UserID == "" {
		return "", models.ErrLoginRequired
	}
	return rec.UserID, nil
}

// CurrentUser returns a copy of the session's user record.
func (s *Session) CurrentUser() (models.User, error) {
	id, err := s.userID()
	if err != nil {
		return models.User{}, err
	}
	return s.store.user(id)
}

func (s *Session) requireAdmin() (models.User, error) {
	u, err := s.CurrentUser()
	if err != nil {
		return models.User{}, err
	}
	if !u.IsAdmin() {
		return models.User{}, models.ErrForbidden
	}
	return u, nil
}

// Transactions lists the current user's ledger, optionally for one currency.
func (s *Session) Transactions(currency models.Currency) ([]models.Transaction, error) {
	id, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.store.transactionsFor(id, currency), nil
}

func (s *Session) Redemptions() ([]models.RedemptionRequest, error) {
	id, err := s.userID()
	if err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	var out []models.RedemptionRequest
	for _, r := range s.store.redemptions {
		if r.UserID == id {
			out = append(out, r)
		}
	}
	return out, nil
}
