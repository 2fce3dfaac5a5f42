package dto

import "github.com/crownhub/crowns-be/internal/models"

type CheckoutRequest struct {
	CreatorID string `json:"creator_id"`
	Crowns    int64  `json:"crowns"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type WithdrawalResponse struct {
	Penalty     int64              `json:"penalty"`
	FinalCrowns int64              `json:"final_crowns"`
	Event       models.LedgerEvent `json:"event"`
}

// PaymentWebhook is the body a payment provider posts once a checkout session settles.
type PaymentWebhook struct {
	SessionID string  `json:"session_id"`
	CreatorID string  `json:"creator_id"`
	FanID     *string `json:"fan_id"`
	Crowns    int64   `json:"crowns"`
	Paid      bool    `json:"paid"`
}
