package database

import (
	"context"
	"errors"

	"campaign-app/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a row does not exist. Handlers map it to 404.
var ErrNotFound = errors.New("not found")

type UserRepository interface {
	CreateUser(ctx context.Context, req *models.RegisterRequest, passwordHash string, isAdmin bool) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, req *models.CreateCampaignRequest, creatorID uuid.UUID) (*models.Campaign, error)
	GetCampaignByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	ListUserCampaigns(ctx context.Context, userID uuid.UUID) ([]*models.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign *models.Campaign) error
	DeleteCampaign(ctx context.Context, id uuid.UUID) error
}

type MembershipRepository interface {
	AddMember(ctx context.Context, campaignID, userID uuid.UUID, role models.Role) (*models.CampaignMember, error)
	RemoveMember(ctx context.Context, campaignID, userID uuid.UUID) error
	UpdateMemberRole(ctx context.Context, campaignID, userID uuid.UUID, role models.Role) (*models.CampaignMember, error)
	GetMember(ctx context.Context, campaignID, userID uuid.UUID) (*models.CampaignMember, error)
	IsMember(ctx context.Context, campaignID, userID uuid.UUID) (bool, error)
	CountDMs(ctx context.Context, campaignID uuid.UUID) (int, error)
}

type CharacterRepository interface {
	CreateCharacter(ctx context.Context, req *models.CreateCharacterRequest, playerID uuid.UUID) (*models.Character, error)
	GetCharacterByID(ctx context.Context, id uuid.UUID) (*models.Character, error)
	ListCharacters(ctx context.Context, playerID uuid.UUID, campaignID *uuid.UUID) ([]*models.Character, error)
	UpdateCharacter(ctx context.Context, character *models.Character) error
	DeleteCharacter(ctx context.Context, id uuid.UUID) error
	OwnsCharacter(ctx context.Context, characterID, campaignID, userID uuid.UUID) (bool, error)
}

type MessageRepository interface {
	InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*models.Message, error)
	GetMessageByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) (*models.Message, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type CompendiumRepository interface {
	CreateCompendiumItem(ctx context.Context, req *models.CreateCompendiumItemRequest, createdBy uuid.UUID) (*models.CompendiumItem, error)
	GetCompendiumItem(ctx context.Context, id uuid.UUID) (*models.CompendiumItem, error)
	ListCompendiumItems(ctx context.Context, params *models.CompendiumListParams) (*models.CompendiumItemList, error)
	ListCompendiumChildren(ctx context.Context, parentID uuid.UUID) ([]*models.CompendiumItem, error)
	UpdateCompendiumItem(ctx context.Context, item *models.CompendiumItem) error
	DeleteCompendiumItem(ctx context.Context, id uuid.UUID) error
}

type Database interface {
	UserRepository
	CampaignRepository
	MembershipRepository
	CharacterRepository
	MessageRepository
	CompendiumRepository
	Close() error
}
