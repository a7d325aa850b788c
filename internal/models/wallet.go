package models

type Currency string

const (
	CurrencyGC Currency = "GC"
	CurrencySC Currency = "SC"
)

func (c Currency) Valid() bool {
	return c == CurrencyGC || c == CurrencySC
}

type Balance struct {
	GoldCoins  float64 `json:"goldCoins"`
	SweepCoins float64 `json:"sweepCoins"`
}

type BalanceResponse struct {
	UserID  string  `json:"userId"`
	Balance Balance `json:"balance"`
	XP      int64   `json:"xp"`
	Level   int     `json:"level"`
}

type Jackpots struct {
	GC float64 `json:"jackpotGC"`
	SC float64 `json:"jackpotSC"`
}
