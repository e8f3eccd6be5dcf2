package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID          uuid.UUID      `json:"id"`
	CampaignID  uuid.UUID      `json:"campaign_id"`
	UserID      uuid.UUID      `json:"user_id"`
	Username    string         `json:"username,omitempty"`
	CharacterID *uuid.UUID     `json:"character_id"`
	Content     string         `json:"content"`
	IsIC        bool           `json:"is_ic"`
	ExtraData   map[string]any `json:"extra_data"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateMessageRequest struct {
	Content     string         `json:"content" validate:"required"`
	CharacterID *uuid.UUID     `json:"character_id"`
	IsIC        *bool          `json:"is_ic"`
	ExtraData   map[string]any `json:"extra_data"`
}

type UpdateMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
