package models

import "time"

type Volatility string

const (
	VolatilityLow    Volatility = "LOW"
	VolatilityMedium Volatility = "MEDIUM"
	VolatilityHigh   Volatility = "HIGH"
)

// Factor scales the base win multiplier of an internally hosted spin.
func (v Volatility) Factor() float64 {
	switch v {
	case VolatilityHigh:
		return 2
	case VolatilityLow:
		return 0.5
	default:
		return 1
	}
}

type Game struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Provider    string     `json:"provider"`
	Category    string     `json:"category"`
	RTP         float64    `json:"rtp"`
	Volatility  Volatility `json:"volatility"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	IsExternal  bool       `json:"isExternal"`
	VersionHash string     `json:"versionHash,omitempty"`

	// Generated during ingestion.
	MathModel     map[string]any `json:"mathModel,omitempty"`
	AssetManifest map[string]any `json:"assetManifest,omitempty"`
	FeatureSet    []string       `json:"featureSet,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// GameUpdate is a partial update; nil fields are left unchanged.
type GameUpdate struct {
	Name       *string     `json:"name,omitempty"`
	Provider   *string     `json:"provider,omitempty"`
	Category   *string     `json:"category,omitempty"`
	RTP        *float64    `json:"rtp,omitempty"`
	Volatility *Volatility `json:"volatility,omitempty"`
	Thumbnail  *string     `json:"thumbnail,omitempty"`
	IsExternal *bool       `json:"isExternal,omitempty"`
}

func (u GameUpdate) Apply(g *Game) {
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.Provider != nil {
		g.Provider = *u.Provider
	}
	if u.Category != nil {
		g.Category = *u.Category
	}
	if u.RTP != nil {
		g.RTP = *u.RTP
	}
	if u.Volatility != nil {
		g.Volatility = *u.Volatility
	}
	if u.Thumbnail != nil {
		g.Thumbnail = *u.Thumbnail
	}
	if u.IsExternal != nil {
		g.IsExternal = *u.IsExternal
	}
}

const ReasonInsufficientFunds = "INSUFFICIENT_FUNDS"

type SpinResult struct {
	Won        bool     `json:"won"`
	Jackpot    bool     `json:"jackpot"`
	Bet        float64  `json:"bet"`
	Payout     float64  `json:"payout"`
	Multiplier float64  `json:"multiplier"`
	Currency   Currency `json:"currency"`
	Balance    Balance  `json:"balance"`
	Reason     string   `json:"reason,omitempty"`
}

type BridgeTxType string

const (
	BridgeBet BridgeTxType = "BET"
	BridgeWin BridgeTxType = "WIN"
)

type BridgeResult struct {
	Success bool    `json:"success"`
	Balance Balance `json:"balance"`
	Error   string  `json:"error,omitempty"`
}

// Win is an entry of the recent-wins ticker.
type Win struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"playerName"`
	GameID     string    `json:"gameId"`
	GameName   string    `json:"gameName"`
	Amount     float64   `json:"amount"`
	Currency   Currency  `json:"currency"`
	Multiplier float64   `json:"multiplier,omitempty"`
	Jackpot    bool      `json:"jackpot,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
