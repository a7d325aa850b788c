package models

import "time"

type TransactionType string

const (
	TransactionTypePurchase   TransactionType = "PURCHASE"
	TransactionTypeBet        TransactionType = "GAME_BET"
	TransactionTypeWin        TransactionType = "GAME_WIN"
	TransactionTypeLoss       TransactionType = "GAME_LOSS"
	TransactionTypeRedemption TransactionType = "REDEMPTION"
	TransactionTypeBonus      TransactionType = "BONUS"
	TransactionTypeAdjustment TransactionType = "ADMIN_ADJUSTMENT"
	TransactionTypeRefund     TransactionType = "REFUND"
)

// Transaction is an immutable record of a balance-affecting event. Amount is
// the signed delta applied to the balance in Currency.
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Type         TransactionType `json:"type"`
	Currency     Currency        `json:"currency"`
	Amount       float64         `json:"amount"`
	BalanceAfter float64         `json:"balanceAfter"`
	GameID       string          `json:"gameId,omitempty"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type RedemptionStatus string

const (
	RedemptionPending  RedemptionStatus = "PENDING"
	RedemptionApproved RedemptionStatus = "APPROVED"
	RedemptionRejected RedemptionStatus = "REJECTED"
)

type RedemptionRequest struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Amount      float64          `json:"amount"`
	Status      RedemptionStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	ProcessedAt *time.Time       `json:"processedAt,omitempty"`
}
