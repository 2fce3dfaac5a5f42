package models

import "time"

// ContentItem is a media upload owned by a creator.
type ContentItem struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	MediaURL  string    `json:"media_url"`
	MediaType string    `json:"media_type"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}
