package models

import (
	"time"

	"github.com/google/uuid"
)

type Character struct {
	ID         uuid.UUID      `json:"id"`
	CampaignID uuid.UUID      `json:"campaign_id"`
	PlayerID   uuid.UUID      `json:"player_id"`
	Name       string         `json:"name"`
	AvatarURL  string         `json:"avatar_url"`
	SheetData  map[string]any `json:"sheet_data"`
	Notes      string         `json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type CreateCharacterRequest struct {
	CampaignID uuid.UUID      `json:"campaign_id" validate:"required"`
	Name       string         `json:"name" validate:"required,max=255"`
	AvatarURL  string         `json:"avatar_url" validate:"omitempty,url,max=500"`
	SheetData  map[string]any `json:"sheet_data"`
	Notes      string         `json:"notes"`
}

type UpdateCharacterRequest struct {
	Name      *string        `json:"name" validate:"omitempty,min=1,max=255"`
	AvatarURL *string        `json:"avatar_url" validate:"omitempty,url,max=500"`
	SheetData map[string]any `json:"sheet_data"`
	Notes     *string        `json:"notes"`
}
