package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"social-casino-backend/internal/models"
)

const (
	DailyRewardCooldown = 24 * time.Hour
	// StreakResetAfter is the gap after which the login streak starts over.
	StreakResetAfter = 48 * time.Hour
	MaxLoginStreak   = 7

	JackpotChance = 5e-6
	HitFrequency  = 0.25
	MegaChance    = 0.10
	MegaFactor    = 10

	// Base multipliers are drawn uniformly from [BaseMultiplierMin, BaseMultiplierMax).
	BaseMultiplierMin = 1.0
	BaseMultiplierMax = 5.0
)

// ClaimDailyReward grants dailyRewardGC * streak gold plus a flat sweep
// reward, at most once per 24 hours.
func (s *Session) ClaimDailyReward(ctx context.Context) (*models.DailyReward, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	settings := s.store.Settings()

	var reward models.DailyReward
	u, err := s.store.mutateUser(userID, func(tx *userTx) error {
		u := tx.user
		if u.Status == models.AccountLocked {
			return models.ErrAccountLocked
		}

		elapsed := tx.now.Sub(u.LastDailyClaim)
		if !u.LastDailyClaim.IsZero() && elapsed < DailyRewardCooldown {
			reward.NextClaim = u.LastDailyClaim.Add(DailyRewardCooldown)
			return fmt.Errorf("%w: next claim at %s", models.ErrCooldownActive, reward.NextClaim.Format(time.RFC3339))
		}

		streak := u.LoginStreak + 1
		if u.LastDailyClaim.IsZero() || elapsed > StreakResetAfter {
			streak = 1
		}
		if streak > MaxLoginStreak {
			streak = MaxLoginStreak
		}

		gc := settings.DailyRewardGC * float64(streak)
		sc := settings.DailyRewardSC

		u.LoginStreak = streak
		u.LastDailyClaim = tx.now
		u.GoldCoins += gc
		u.SweepCoins += sc

		desc := fmt.Sprintf("Daily reward (day %d)", streak)
		tx.record(models.TransactionTypeBonus, models.CurrencyGC, gc, "", desc)
		if sc > 0 {
			tx.record(models.TransactionTypeBonus, models.CurrencySC, sc, "", desc)
		}

		reward.Streak = streak
		reward.GoldCoins = gc
		reward.SweepCoins = sc
		reward.NextClaim = tx.now.Add(DailyRewardCooldown)
		return nil
	})
	if err != nil {
		return nil, err
	}

	reward.Balance = u.Balances()
	return &reward, nil
}

// PurchasePackage credits a shop package. Payment is not verified here;
// method and paymentData are handed over by the payment boundary.
func (s *Session) PurchasePackage(ctx context.Context, packageID, method string, paymentData map[string]string) (models.User, error) {
	userID, err := s.userID()
	if err != nil {
		return models.User{}, err
	}

	pkg, err := s.store.pkg(packageID)
	if err != nil {
		return models.User{}, err
	}

	u, err := s.store.mutateUser(userID, func(tx *userTx) error {
		u := tx.user
		if u.Status == models.AccountLocked {
			return models.ErrAccountLocked
		}

		u.GoldCoins += pkg.GoldCoins
		u.SweepCoins += pkg.SweepCoins
		u.TotalDeposited = u.TotalDeposited.Add(pkg.PriceUSD)

		desc := fmt.Sprintf("Purchased %s via %s ($%s)", pkg.Name, method, pkg.PriceUSD.StringFixed(2))
		tx.record(models.TransactionTypePurchase, models.CurrencyGC, pkg.GoldCoins, "", desc)
		if pkg.SweepCoins > 0 {
			tx.record(models.TransactionTypePurchase, models.CurrencySC, pkg.SweepCoins, "", desc)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.store.logger.Info("package purchased",
		slog.String("user_id", userID),
		slog.String("package_id", pkg.ID),
		slog.String("method", method),
		slog.String("price_usd", pkg.PriceUSD.String()))
	return u, nil
}

func (s *Store) pkg(id string) (models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.packages {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Package{}, models.ErrPackageNotFound
}

// RequestRedemption places a pending claim against the user's sweep coins.
// The coins are debited immediately.
func (s *Session) RequestRedemption(ctx context.Context, amount float64) (*models.RedemptionRequest, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	settings := s.store.Settings()
	if !settings.EnableRedemptions {
		return nil, models.ErrFeatureDisabled
	}

	var req models.RedemptionRequest
	_, err = s.store.mutateUser(userID, func(tx *userTx) error {
		u := tx.user
		if u.Status == models.AccountLocked {
			return models.ErrAccountLocked
		}
		if u.KYCStatus != models.KYCVerified {
			return models.ErrKYCRequired
		}
		if amount < settings.MinRedemption || amount <= 0 {
			return fmt.Errorf("%w of %.2f SC", models.ErrBelowMinimum, settings.MinRedemption)
		}
		if u.SweepCoins < amount {
			return models.ErrInsufficientFunds
		}

		u.SweepCoins -= amount
		req = models.RedemptionRequest{
			ID:        models.NewID("redeem"),
			UserID:    u.ID,
			Amount:    amount,
			Status:    models.RedemptionPending,
			CreatedAt: tx.now,
		}
		tx.record(models.TransactionTypeRedemption, models.CurrencySC, -amount, "", "Redemption request "+req.ID)
		tx.onCommit = append(tx.onCommit, func() {
			s.store.redemptions = append(s.store.redemptions, req)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ProcessGameSpin resolves one spin of an internally hosted game. A balance
// below the bet yields a result with Reason set instead of an error.
func (s *Session) ProcessGameSpin(ctx context.Context, gameID string, bet float64, currency models.Currency) (*models.SpinResult, error) {
	cur, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	settings := s.store.Settings()
	if settings.MaintenanceMode && !cur.IsAdmin() {
		return nil, models.ErrMaintenanceMode
	}
	if bet <= 0 {
		return nil, models.ErrInvalidAmount
	}
	if !currency.Valid() {
		return nil, models.ErrInvalidCurrency
	}
	game, err := s.store.game(gameID)
	if err != nil {
		return nil, err
	}

	result := &models.SpinResult{Bet: bet, Currency: currency}
	u, err := s.store.mutateUser(cur.ID, func(tx *userTx) error {
		u := tx.user
		if u.Status == models.AccountLocked {
			return models.ErrAccountLocked
		}
		if u.Balance(currency) < bet {
			result.Reason = models.ReasonInsufficientFunds
			return errSkipCommit
		}

		u.SetBalance(currency, u.Balance(currency)-bet)
		u.AddXP(xpForBet(bet))

		jackpotHit := s.store.random.Float64() < JackpotChance
		var payout, multiplier float64
		if !jackpotHit && s.store.random.Float64() < HitFrequency {
			base := BaseMultiplierMin + s.store.random.Float64()*(BaseMultiplierMax-BaseMultiplierMin)
			multiplier = base * game.Volatility.Factor()
			if s.store.random.Float64() < MegaChance {
				multiplier *= MegaFactor
			}
			payout = math.Floor(bet * multiplier)
		}

		settle := func() {
			u.SetBalance(currency, u.Balance(currency)+payout)
			result.Payout = payout
			result.Multiplier = multiplier
			// A hit paying back no more than the bet is a net loss.
			if payout <= bet {
				tx.record(models.TransactionTypeLoss, currency, payout-bet, game.ID, "Spin on "+game.Name)
				return
			}
			result.Won = true
			desc := fmt.Sprintf("Won %s on %s", models.FormatCoins(payout, currency), game.Name)
			if result.Jackpot {
				desc = fmt.Sprintf("Jackpot %s on %s", models.FormatCoins(payout, currency), game.Name)
			}
			tx.record(models.TransactionTypeWin, currency, payout-bet, game.ID, desc)
			tx.win(game, payout, multiplier, currency, result.Jackpot)
		}

		// The pool moves only when the debit commits.
		tx.onCommit = append(tx.onCommit, func() {
			pool := s.store.accrueJackpot(currency, bet, jackpotHit)
			if jackpotHit {
				payout = pool
				multiplier = pool / bet
				result.Jackpot = true
			}
			settle()
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Jackpot {
		s.store.logger.Info("jackpot hit",
			slog.String("user_id", u.ID),
			slog.String("game_id", game.ID),
			slog.String("currency", string(currency)),
			slog.Float64("payout", result.Payout))
	}
	result.Balance = u.Balances()
	return result, nil
}

// RecordBridgeTransaction applies a bet or win reported by an embedded game.
// Calls for the same user are serialised with every other balance change.
func (s *Session) RecordBridgeTransaction(ctx context.Context, gameID string, amount float64, currency models.Currency, typ models.BridgeTxType) (*models.BridgeResult, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	if !s.store.Settings().EnableBridge {
		return nil, models.ErrFeatureDisabled
	}
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	if !currency.Valid() {
		return nil, models.ErrInvalidCurrency
	}
	if typ != models.BridgeBet && typ != models.BridgeWin {
		return nil, fmt.Errorf("%w: bridge type %q", models.ErrInvalidInput, typ)
	}
	game, err := s.store.game(gameID)
	if err != nil {
		return nil, err
	}

	result := &models.BridgeResult{}
	u, err := s.store.mutateUser(userID, func(tx *userTx) error {
		u := tx.user
		if u.Status == models.AccountLocked {
			return models.ErrAccountLocked
		}

		switch typ {
		case models.BridgeBet:
			if u.Balance(currency) < amount {
				result.Error = models.ReasonInsufficientFunds
				return errSkipCommit
			}
			u.SetBalance(currency, u.Balance(currency)-amount)
			u.AddXP(xpForBet(amount))
			tx.onCommit = append(tx.onCommit, func() {
				s.store.accrueJackpot(currency, amount, false)
			})
			tx.record(models.TransactionTypeBet, currency, -amount, game.ID, "Bet on "+game.Name)
		case models.BridgeWin:
			u.SetBalance(currency, u.Balance(currency)+amount)
			tx.record(models.TransactionTypeWin, currency, amount, game.ID, fmt.Sprintf("Won %s on %s", models.FormatCoins(amount, currency), game.Name))
			tx.win(game, amount, 0, currency, false)
		}
		result.Success = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Balance = u.Balances()
	return result, nil
}

// accrueJackpot adds the bet's contribution to the pool for currency. When hit
// is set the pool is reset to its seed and the amount before reset returned.
// It runs at commit time, with s.mu held.
func (s *Store) accrueJackpot(c models.Currency, bet float64, hit bool) float64 {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	pool := s.settings.Jackpot(c) + bet*s.settings.JackpotContributionRate
	s.settings.SetJackpot(c, pool)
	if hit {
		s.settings.SetJackpot(c, s.settings.JackpotSeed(c))
	}
	return pool
}

// xpForBet grants one XP per whole coin wagered, at least one per wager.
func xpForBet(bet float64) int64 {
	return int64(math.Max(1, math.Floor(bet)))
}
