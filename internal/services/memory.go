package services

import (
	"context"
	"sync"
	"time"

	"social-casino-backend/internal/models"
)

// MemoryService keeps snapshots and rate-limit counters in process memory.
type MemoryService struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	counters  map[string]*rateWindow
	clock     Clock
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

var (
	_ SnapshotStore = (*MemoryService)(nil)
	_ RateLimiter   = (*MemoryService)(nil)
)

func NewMemoryService() *MemoryService {
	return &MemoryService{
		snapshots: make(map[string][]byte),
		counters:  make(map[string]*rateWindow),
		clock:     RealClock{},
	}
}

func (s *MemoryService) SaveSnapshot(ctx context.Context, collections map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, data := range collections {
		buf := make([]byte, len(data))
		copy(buf, data)
		s.snapshots[name] = buf
	}
	return nil
}

func (s *MemoryService) LoadSnapshot(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[key]
	if !ok {
		return nil, models.ErrSnapshotNotFound
	}
	return data, nil
}

func (s *MemoryService) CheckRateLimit(ctx context.Context, userID, action string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	key := userID + ":" + action
	w, ok := s.counters[key]
	if !ok || !now.Before(w.resetAt) {
		w = &rateWindow{resetAt: now.Add(window)}
		s.counters[key] = w
	}
	w.count++
	return w.count <= limit, nil
}

func (s *MemoryService) Close() error {
	return nil
}
