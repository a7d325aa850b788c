package models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"required"`
	ReferralCode string `json:"referralCode"`
}

type SpinRequest struct {
	Bet      float64  `json:"bet" binding:"required"`
	Currency Currency `json:"currency" binding:"required"`
}

type PurchaseRequest struct {
	PackageID   string            `json:"packageId" binding:"required"`
	Method      string            `json:"method" binding:"required"`
	PaymentData map[string]string `json:"paymentData"`
}

type RedemptionBody struct {
	Amount float64 `json:"amount" binding:"required"`
}

type AdjustBalanceRequest struct {
	Currency Currency `json:"currency" binding:"required"`
	Amount   float64  `json:"amount" binding:"required"`
	Reason   string   `json:"reason" binding:"required"`
}

type UserStatusRequest struct {
	Status    AccountStatus `json:"status" binding:"required"`
	KYCStatus KYCStatus     `json:"kycStatus" binding:"required"`
}

type SendEmailRequest struct {
	Target  string    `json:"target" binding:"required"`
	Subject string    `json:"subject" binding:"required"`
	Body    string    `json:"body" binding:"required"`
	Type    EmailType `json:"type"`
}

type ProcessRedemptionRequest struct {
	Approve bool `json:"approve"`
}
