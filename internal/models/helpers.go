package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ReferralCodeAlphabet avoids characters that are easy to misread.
const ReferralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const ReferralCodeLength = 8

func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String())
}

// GenerateTransactionID returns a ledger id carrying a full random UUID.
func GenerateTransactionID() string {
	return NewID("tx")
}

func GenerateSessionID() string {
	return uuid.New().String()
}

func FormatCoins(amount float64, c Currency) string {
	if c == CurrencySC {
		return fmt.Sprintf("%.2f SC", amount)
	}
	return fmt.Sprintf("%.0f GC", amount)
}

func (r *SpinRequest) Validate() error {
	if r.Bet <= 0 {
		return ErrInvalidAmount
	}
	if !r.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}

func (r *BridgeMessage) Validate() error {
	switch r.Type {
	case BridgePlaceBet, BridgeReportWin:
		if r.GameID == "" {
			return fmt.Errorf("%w: gameId is required", ErrInvalidInput)
		}
		if r.Amount <= 0 {
			return ErrInvalidAmount
		}
		if !r.Currency.Valid() {
			return ErrInvalidCurrency
		}
	case BridgeRequestBalance, BridgePing:
	default:
		return fmt.Errorf("%w: unknown message type %q", ErrInvalidInput, r.Type)
	}
	return nil
}
