package dto

import "github.com/crownhub/crowns-be/internal/models"

// CreatorCard is one leaderboard row.
type CreatorCard struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Crowns      int64  `json:"crowns"`
	Progress    int    `json:"progress"`
}

type CreatorProfile struct {
	ID          string               `json:"id"`
	DisplayName string               `json:"display_name"`
	Status      string               `json:"status"`
	Crowns      int64                `json:"crowns"`
	Progress    int                  `json:"progress"`
	Content     []models.ContentItem `json:"content"`
}
