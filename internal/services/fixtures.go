package services

import (
	"time"

	"github.com/shopspring/decimal"

	"social-casino-backend/internal/models"
)

// Seeded admin account.
const (
	AdminUserID = "user_admin"
	AdminEmail  = "admin@socialcasino.dev"
)

var fixtureEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// seed fills an empty store with the static catalog. Hydrate overwrites any
// collection that has a stored snapshot.
func (s *Store) seed() {
	now := s.clock.Now()

	s.settings = models.DefaultSettings()

	s.users[AdminUserID] = &models.User{
		ID:             AdminUserID,
		Email:          AdminEmail,
		Name:           "Casino Admin",
		Role:           models.RoleAdmin,
		GoldCoins:      1_000_000,
		SweepCoins:     1_000,
		Level:          1,
		KYCStatus:      models.KYCVerified,
		Status:         models.AccountActive,
		ReferralCode:   "ADMIN001",
		TotalDeposited: decimal.Zero,
		CreatedAt:      fixtureEpoch,
	}

	s.categories = []models.Category{
		{ID: "slots", Name: "Slots", Order: 1},
		{ID: "table", Name: "Table Games", Order: 2},
		{ID: "instant", Name: "Instant Win", Order: 3},
		{ID: "live", Name: "Live Casino", Order: 4},
	}

	s.games = []models.Game{
		{ID: "game_gold_rush", Name: "Gold Rush Deluxe", Provider: "In-House", Category: "slots", RTP: 96.5, Volatility: models.VolatilityHigh, Thumbnail: "/assets/games/gold-rush.png"},
		{ID: "game_lucky_sevens", Name: "Lucky Sevens", Provider: "In-House", Category: "slots", RTP: 95.8, Volatility: models.VolatilityMedium, Thumbnail: "/assets/games/lucky-sevens.png"},
		{ID: "game_fruit_frenzy", Name: "Fruit Frenzy", Provider: "In-House", Category: "slots", RTP: 97.1, Volatility: models.VolatilityLow, Thumbnail: "/assets/games/fruit-frenzy.png"},
		{ID: "game_dragon_fortune", Name: "Dragon's Fortune", Provider: "In-House", Category: "slots", RTP: 96.0, Volatility: models.VolatilityHigh, Thumbnail: "/assets/games/dragon-fortune.png"},
		{ID: "game_blackjack", Name: "Classic Blackjack", Provider: "In-House", Category: "table", RTP: 99.2, Volatility: models.VolatilityLow, Thumbnail: "/assets/games/blackjack.png"},
		{ID: "game_scratch_gold", Name: "Scratch & Win Gold", Provider: "In-House", Category: "instant", RTP: 94.5, Volatility: models.VolatilityMedium, Thumbnail: "/assets/games/scratch-gold.png"},
		{ID: "game_neon_nights", Name: "Neon Nights", Provider: "Pixel Forge", Category: "slots", RTP: 96.2, Volatility: models.VolatilityMedium, IsExternal: true, Thumbnail: "/assets/games/neon-nights.png"},
	}
	for i := range s.games {
		s.games[i].UpdatedAt = fixtureEpoch
	}

	s.packages = []models.Package{
		{ID: "pkg_starter", Name: "Starter Pack", GoldCoins: 10_000, SweepCoins: 2, PriceUSD: decimal.RequireFromString("1.99")},
		{ID: "pkg_value", Name: "Value Pack", GoldCoins: 50_000, SweepCoins: 10, PriceUSD: decimal.RequireFromString("9.99")},
		{ID: "pkg_popular", Name: "Popular Pack", GoldCoins: 120_000, SweepCoins: 25, PriceUSD: decimal.RequireFromString("19.99"), Popular: true},
		{ID: "pkg_premium", Name: "Premium Pack", GoldCoins: 300_000, SweepCoins: 60, PriceUSD: decimal.RequireFromString("49.99")},
		{ID: "pkg_whale", Name: "High Roller", GoldCoins: 650_000, SweepCoins: 125, PriceUSD: decimal.RequireFromString("99.99")},
	}

	s.promotions = []models.Promotion{
		{
			ID:          "promo_welcome",
			Title:       "Welcome Bonus",
			Description: "New players start with 10,000 GC and 2 free SC.",
			Active:      true,
			EndsAt:      now.AddDate(1, 0, 0),
		},
		{
			ID:          "promo_weekend",
			Title:       "Weekend Reload",
			Description: "Double gold on every package purchased this weekend.",
			Code:        "RELOAD2X",
			Active:      true,
			EndsAt:      now.AddDate(0, 0, 7),
		},
	}

	s.alerts = []models.SecurityAlert{
		{ID: "alert_multi_account", Type: "MULTI_ACCOUNT", Severity: models.SeverityHigh, Message: "Several accounts share one device fingerprint", CreatedAt: fixtureEpoch},
		{ID: "alert_velocity", Type: "BET_VELOCITY", Severity: models.SeverityMedium, Message: "Unusual spin velocity detected", CreatedAt: fixtureEpoch},
		{ID: "alert_geo", Type: "GEO_MISMATCH", Severity: models.SeverityLow, Message: "Login from an unexpected region", CreatedAt: fixtureEpoch},
	}

	s.comments = []models.Comment{
		{ID: "comment_1", GameID: "game_gold_rush", UserID: AdminUserID, Body: "Hit the mega multiplier twice in one session!", CreatedAt: fixtureEpoch},
		{ID: "comment_2", GameID: "game_lucky_sevens", UserID: AdminUserID, Body: "Classic feel, steady wins.", CreatedAt: fixtureEpoch},
		{ID: "comment_3", GameID: "game_gold_rush", UserID: AdminUserID, Body: "High volatility, bring a big balance.", CreatedAt: fixtureEpoch},
	}
}
