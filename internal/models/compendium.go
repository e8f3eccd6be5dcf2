package models

import (
	"time"

	"github.com/google/uuid"
)

// CompendiumItem is one entry of rules content (race, class, spell, item,
// feature...). Entries form a hierarchy through ParentID, e.g. subclasses
// under a class. Data holds the type-specific structure.
type CompendiumItem struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	System     string         `json:"system"`
	Data       map[string]any `json:"data"`
	Tags       []string       `json:"tags"`
	IsOfficial bool           `json:"is_official"`
	ParentID   *uuid.UUID     `json:"parent_id"`
	CreatedBy  *uuid.UUID     `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type CreateCompendiumItemRequest struct {
	Type       string         `json:"type" validate:"required,max=50"`
	Name       string         `json:"name" validate:"required,max=255"`
	System     string         `json:"system" validate:"required,max=100"`
	Data       map[string]any `json:"data" validate:"required"`
	Tags       []string       `json:"tags"`
	IsOfficial bool           `json:"is_official"`
	ParentID   *uuid.UUID     `json:"parent_id"`
}

type UpdateCompendiumItemRequest struct {
	Name     *string        `json:"name" validate:"omitempty,min=1,max=255"`
	Data     map[string]any `json:"data"`
	Tags     []string       `json:"tags"`
	ParentID *uuid.UUID     `json:"parent_id"`
}

type CompendiumListParams struct {
	Type       string
	System     string
	Query      string
	IsOfficial *bool
	Page       int
	PageSize   int
}

type CompendiumItemList struct {
	Items    []*CompendiumItem `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
