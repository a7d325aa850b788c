package services

import "time"

const (
	KeySnapshot  = "casino:snapshot:%s"
	KeyRateLimit = "casino:ratelimit:%s:%s"

	DefaultRateLimitSpins  = 120 // spins per minute
	DefaultRateLimitBridge = 300 // bridge messages per minute
	DefaultRateLimitWindow = time.Minute
)
