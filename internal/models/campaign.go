package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleDM       Role = "dm"
	RolePlayer   Role = "player"
	RoleObserver Role = "observer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDM, RolePlayer, RoleObserver:
		return true
	}
	return false
}

type Campaign struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Settings    map[string]any   `json:"settings"`
	CreatedBy   uuid.UUID        `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Members     []CampaignMember `json:"members,omitempty"`
}

type CampaignMember struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	JoinedAt   time.Time `json:"joined_at"`
}

type CreateCampaignRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Description string         `json:"description"`
	Settings    map[string]any `json:"settings"`
}

type UpdateCampaignRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string        `json:"description"`
	Settings    map[string]any `json:"settings"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   Role      `json:"role" validate:"required,oneof=dm player observer"`
}

type UpdateMemberRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=dm player observer"`
}
