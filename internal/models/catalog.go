package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package is a fixed coin bundle sold in the shop.
type Package struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	GoldCoins  float64         `json:"goldCoins"`
	SweepCoins float64         `json:"sweepCoins"`
	PriceUSD   decimal.Decimal `json:"priceUsd"`
	Popular    bool            `json:"popular,omitempty"`
}

type Promotion struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code,omitempty"`
	Active      bool      `json:"active"`
	EndsAt      time.Time `json:"endsAt"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type Comment struct {
	ID        string    `json:"id"`
	GameID    string    `json:"gameId"`
	UserID    string    `json:"userId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
