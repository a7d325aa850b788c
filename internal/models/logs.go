package models

import "time"

type AuditLog struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"adminId"`
	Action    string    `json:"action"`
	TargetID  string    `json:"targetId,omitempty"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

type EmailType string

const (
	EmailMarketing     EmailType = "MARKETING"
	EmailTransactional EmailType = "TRANSACTIONAL"
	EmailSystem        EmailType = "SYSTEM"
)

// EmailTargetAll fans an admin email out to every user.
const EmailTargetAll = "ALL"

type EmailLog struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Type     EmailType `json:"type"`
	SentAt   time.Time `json:"sentAt"`
	SentByID string    `json:"sentById"`
}

type IngestionStatus string

const (
	IngestionSuccess IngestionStatus = "SUCCESS"
	IngestionPartial IngestionStatus = "PARTIAL"
	IngestionFailed  IngestionStatus = "FAILED"
)

type IngestionLog struct {
	ID        string          `json:"id"`
	Provider  string          `json:"provider"`
	Status    IngestionStatus `json:"status"`
	Fetched   int             `json:"fetched"`
	Updated   int             `json:"updated"`
	Skipped   int             `json:"skipped"`
	Fallbacks int             `json:"fallbacks"`
	Message   string          `json:"message,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "LOW"
	SeverityMedium AlertSeverity = "MEDIUM"
	SeverityHigh   AlertSeverity = "HIGH"
)

type SecurityAlert struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId,omitempty"`
	Type      string        `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Resolved  bool          `json:"resolved"`
	CreatedAt time.Time     `json:"createdAt"`
}
