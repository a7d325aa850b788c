package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"social-casino-backend/internal/models"
)

// TickerSize is the number of recent wins kept for the ticker.
const TickerSize = 50

// Store owns every piece of mutable domain state. Balance changes for a user
// run under that user's lock as a single read-modify-write; the collection
// lock is only held to read or to commit.
type Store struct {
	snapshots   SnapshotStore
	clock       Clock
	random      Random
	broadcaster Broadcaster
	logger      *slog.Logger

	passwordHashes [][]byte
	syncDelay      time.Duration
	sessionTTL     time.Duration

	userLocks keyedMutex

	mu           sync.RWMutex
	users        map[string]*models.User
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
	sessions     map[string]*models.SessionRecord
	syncStatus   models.SyncStatus
	lastSyncAt   time.Time

	settingsMu sync.Mutex
	settings   models.AppSettings

	syncMu sync.Mutex
}

type StoreOptions struct {
	Clock       Clock
	Random      Random
	Broadcaster Broadcaster
	Logger      *slog.Logger

	// DemoPasswords is the fixed set of passwords login accepts.
	DemoPasswords []string
	// PasswordCost is the bcrypt cost used to hash DemoPasswords.
	PasswordCost int
	// SyncDelay simulates latency of the durable mirror.
	SyncDelay time.Duration
	// SessionTTL is how long a session record is kept after login. Zero keeps
	// sessions until logout.
	SessionTTL time.Duration
}

func NewStore(snapshots SnapshotStore, opts StoreOptions) (*Store, error) {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Random == nil {
		opts.Random = MathRandom{}
	}
	if opts.Broadcaster == nil {
		opts.Broadcaster = nopBroadcaster{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if opts.PasswordCost == 0 {
		opts.PasswordCost = bcrypt.DefaultCost
	}
	if len(opts.DemoPasswords) == 0 {
		return nil, errors.New("at least one demo password is required")
	}

	hashes := make([][]byte, 0, len(opts.DemoPasswords))
	for _, pw := range opts.DemoPasswords {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), opts.PasswordCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash demo password: %w", err)
		}
		hashes = append(hashes, h)
	}

	s := &Store{
		snapshots:      snapshots,
		clock:          opts.Clock,
		random:         opts.Random,
		broadcaster:    opts.Broadcaster,
		logger:         opts.Logger,
		passwordHashes: hashes,
		syncDelay:      opts.SyncDelay,
		sessionTTL:     opts.SessionTTL,
		users:          make(map[string]*models.User),
		sessions:       make(map[string]*models.SessionRecord),
		syncStatus:     models.SyncConnected,
	}
	s.seed()
	return s, nil
}

// SetBroadcaster replaces the push target. It must be called before the store
// starts serving requests.
func (s *Store) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = nopBroadcaster{}
	}
	s.broadcaster = b
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// userTx collects the effects of one user transition so they are committed
// together with the new user record. onCommit funcs run first, with s.mu held,
// and may still change the user and add records. They may take settingsMu but
// nothing else.
type userTx struct {
	user     *models.User
	now      time.Time
	records  []models.Transaction
	wins     []models.Win
	onCommit []func()
}

func (t *userTx) record(typ models.TransactionType, c models.Currency, amount float64, gameID, desc string) {
	t.records = append(t.records, models.Transaction{
		ID:           models.GenerateTransactionID(),
		UserID:       t.user.ID,
		Type:         typ,
		Currency:     c,
		Amount:       amount,
		BalanceAfter: t.user.Balance(c),
		GameID:       gameID,
		Description:  desc,
		CreatedAt:    t.now,
	})
}

func (t *userTx) win(game models.Game, amount, multiplier float64, c models.Currency, jackpot bool) {
	t.wins = append(t.wins, models.Win{
		ID:         models.NewID("win"),
		PlayerName: models.DisplayName(t.user.Name),
		GameID:     game.ID,
		GameName:   game.Name,
		Amount:     amount,
		Currency:   c,
		Multiplier: multiplier,
		Jackpot:    jackpot,
		CreatedAt:  t.now,
	})
}

// errSkipCommit lets a transition end early without writing anything and
// without reporting an error.
var errSkipCommit = errors.New("skip commit")

// mutateUser runs fn against a copy of the current user record while holding
// the user's lock, then commits the copy and its side effects atomically.
func (s *Store) mutateUser(userID string, fn func(tx *userTx) error) (models.User, error) {
	unlock := s.userLocks.Lock(userID)
	defer unlock()

	s.mu.RLock()
	current, ok := s.users[userID]
	var u models.User
	if ok {
		u = *current
	}
	s.mu.RUnlock()
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}

	before := u.Balances()
	tx := &userTx{user: &u, now: s.clock.Now()}
	if err := fn(tx); err != nil {
		if errors.Is(err, errSkipCommit) {
			return u, nil
		}
		return models.User{}, err
	}

	s.mu.Lock()
	for _, f := range tx.onCommit {
		f()
	}
	s.users[userID] = &u
	s.transactions = append(s.transactions, tx.records...)
	for _, w := range tx.wins {
		s.pushWinLocked(w)
	}
	s.mu.Unlock()

	if u.Balances() != before {
		s.broadcaster.BroadcastBalance(u.ID, u.Balances())
	}
	return u, nil
}

func (s *Store) pushWinLocked(w models.Win) {
	s.wins = append([]models.Win{w}, s.wins...)
	if len(s.wins) > TickerSize {
		s.wins = s.wins[:TickerSize]
	}
}

func (s *Store) user(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return *u, nil
}

func (s *Store) game(id string) (models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.games {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Game{}, models.ErrGameNotFound
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() models.AppSettings {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.settings
}

func (s *Store) Jackpots() models.Jackpots {
	st := s.Settings()
	return models.Jackpots{GC: st.JackpotGC, SC: st.JackpotSC}
}

func (s *Store) Games() []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Game(nil), s.games...)
}

func (s *Store) Game(id string) (models.Game, error) {
	return s.game(id)
}

func (s *Store) Packages() []models.Package {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Package(nil), s.packages...)
}

func (s *Store) Promotions() []models.Promotion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Promotion(nil), s.promotions...)
}

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

// Comments returns the comments left on gameID in posting order.
func (s *Store) Comments(gameID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Comment{}
	for _, c := range s.comments {
		if c.GameID == gameID {
			out = append(out, c)
		}
	}
	return out
}

// Ticker returns recent wins, newest first.
func (s *Store) Ticker() []models.Win {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Win(nil), s.wins...)
}

func (s *Store) usersSortedLocked() []models.User {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) transactionsFor(userID string, currency models.Currency) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transaction
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		if currency != "" && t.Currency != currency {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *Store) addAuditLocked(adminID, action, targetID, details string) {
	s.audit = append(s.audit, models.AuditLog{
		ID:        models.NewID("audit"),
		AdminID:   adminID,
		Action:    action,
		TargetID:  targetID,
		Details:   details,
		CreatedAt: s.clock.Now(),
	})
}

func (s *Store) addAudit(adminID, action, targetID, details string) {
	s.mu.Lock()
	s.addAuditLocked(adminID, action, targetID, details)
	s.mu.Unlock()
}
