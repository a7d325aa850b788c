package services

import "social-casino-backend/internal/models"

// Broadcaster receives committed balance changes for push delivery. Calls are
// made after the store has released its locks.
type Broadcaster interface {
	BroadcastBalance(userID string, balance models.Balance)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastBalance(string, models.Balance) {}
