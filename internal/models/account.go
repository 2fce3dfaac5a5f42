package models

import "time"

// Account roles.
const (
	RoleFan     = "fan"
	RoleCreator = "creator"
)

// Account statuses.
const (
	StatusPending           = "pending"
	StatusActive            = "active"
	StatusWaitingList       = "waiting_list"
	StatusWithdrawRequested = "withdraw_requested"
)

// Account captures application-facing fields for a fan or creator identity.
type Account struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Crowns       int64     `json:"crowns"`
	Age          int       `json:"age,omitempty"`
	BankMask     string    `json:"bank_mask,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsActiveCreator reports whether the account may publish content and appear in browsing.
func (a Account) IsActiveCreator() bool {
	return a.Role == RoleCreator && a.Status == StatusActive
}

// PendingReview mirrors a creator account awaiting manual approval.
type PendingReview struct {
	AccountID   string    `json:"account_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Age         int       `json:"age"`
	BankMask    string    `json:"bank_mask"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

// ReviewFor builds the pending-review mirror of a creator account.
func ReviewFor(a Account) PendingReview {
	return PendingReview{
		AccountID:   a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Age:         a.Age,
		BankMask:    a.BankMask,
		Status:      a.Status,
		RequestedAt: a.CreatedAt,
	}
}

// Principal is the authenticated caller of a request.
type Principal struct {
	AccountID string
	Role      string
}

// Anonymous reports whether no account is attached.
func (p Principal) Anonymous() bool {
	return p.AccountID == ""
}
