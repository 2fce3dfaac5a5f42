package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger event kinds.
const (
	EventPurchase   = "purchase"
	EventWithdrawal = "withdrawal"
)

// Ledger event statuses.
const (
	EventCompleted = "completed"
	EventRequested = "requested"
)

// LedgerEvent is an immutable record of a crown-affecting event.
type LedgerEvent struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	CreatorID      string          `json:"creator_id"`
	FanID          *string         `json:"fan_id"`
	Crowns         int64           `json:"crowns"`
	PriceUSD       decimal.Decimal `json:"price_usd"`
	PlatformFeeUSD decimal.Decimal `json:"platform_fee_usd"`
	CreatorUSD     decimal.Decimal `json:"creator_usd"`
	OriginalCrowns int64           `json:"original_crowns,omitempty"`
	Penalty        int64           `json:"penalty"`
	FinalCrowns    int64           `json:"final_crowns,omitempty"`
	Status         string          `json:"status"`
	RequestID      string          `json:"request_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
