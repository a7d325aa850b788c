package models

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RolePlayer Role = "PLAYER"
	RoleAdmin  Role = "ADMIN"
)

type KYCStatus string

const (
	KYCUnverified KYCStatus = "UNVERIFIED"
	KYCPending    KYCStatus = "PENDING"
	KYCVerified   KYCStatus = "VERIFIED"
)

func (k KYCStatus) Valid() bool {
	switch k {
	case KYCUnverified, KYCPending, KYCVerified:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
	AccountLocked AccountStatus = "LOCKED"
)

func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountLocked
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`

	GoldCoins  float64 `json:"goldCoins"`
	SweepCoins float64 `json:"sweepCoins"`

	XP    int64 `json:"xp"`
	Level int   `json:"level"`

	KYCStatus KYCStatus     `json:"kycStatus"`
	Status    AccountStatus `json:"status"`

	LoginStreak    int       `json:"loginStreak"`
	LastDailyClaim time.Time `json:"lastDailyClaim"`
	LastLoginAt    time.Time `json:"lastLoginAt"`

	ReferralCode string `json:"referralCode"`
	ReferredBy   string `json:"referredBy,omitempty"`

	TotalDeposited decimal.Decimal `json:"totalDeposited"`

	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Balance returns the balance held in the given currency.
func (u *User) Balance(c Currency) float64 {
	if c == CurrencySC {
		return u.SweepCoins
	}
	return u.GoldCoins
}

// SetBalance overwrites the balance for the given currency, never below zero.
func (u *User) SetBalance(c Currency, amount float64) {
	if amount < 0 {
		amount = 0
	}
	if c == CurrencySC {
		u.SweepCoins = amount
		return
	}
	u.GoldCoins = amount
}

// AddXP grants experience and recomputes the level.
func (u *User) AddXP(xp int64) {
	if xp <= 0 {
		return
	}
	u.XP += xp
	u.Level = LevelForXP(u.XP)
}

func (u *User) Balances() Balance {
	return Balance{GoldCoins: u.GoldCoins, SweepCoins: u.SweepCoins}
}

// LevelForXP is floor(sqrt(xp/100)) + 1.
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// DisplayName renders a name as first name plus last initial ("Alex J.").
func DisplayName(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "Player"
	case 1:
		return parts[0]
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + strings.ToUpper(string(last[0])) + "."
}
