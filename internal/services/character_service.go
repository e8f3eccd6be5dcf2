package services

import (
	"context"
	"errors"
	"fmt"

	"campaign-app/internal/database"
	"campaign-app/internal/models"

	"github.com/google/uuid"
)

type CharacterService struct {
	db database.Database
}

func NewCharacterService(db database.Database) *CharacterService {
	return &CharacterService{db: db}
}

func (s *CharacterService) CreateCharacter(ctx context.Context, req *models.CreateCharacterRequest, playerID uuid.UUID) (*models.Character, error) {
	isMember, err := s.db.IsMember(ctx, req.CampaignID, playerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("campaign not found or you are not a member: %w", database.ErrNotFound)
	}

	return s.db.CreateCharacter(ctx, req, playerID)
}

func (s *CharacterService) ListCharacters(ctx context.Context, playerID uuid.UUID, campaignID *uuid.UUID) ([]*models.Character, error) {
	if campaignID != nil {
		isMember, err := s.db.IsMember(ctx, *campaignID, playerID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, fmt.Errorf("not a member of this campaign: %w", ErrForbidden)
		}
	}

	return s.db.ListCharacters(ctx, playerID, campaignID)
}

func (s *CharacterService) GetCharacter(ctx context.Context, characterID, userID uuid.UUID) (*models.Character, error) {
	character, err := s.db.GetCharacterByID(ctx, characterID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.db.IsMember(ctx, character.CampaignID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("not a member of this campaign: %w", ErrForbidden)
	}

	return character, nil
}

func (s *CharacterService) UpdateCharacter(ctx context.Context, characterID, userID uuid.UUID, req *models.UpdateCharacterRequest) (*models.Character, error) {
	character, err := s.db.GetCharacterByID(ctx, characterID)
	if err != nil {
		return nil, err
	}

	canModify, err := s.canModify(ctx, character, userID)
	if err != nil {
		return nil, err
	}
	if !canModify {
		return nil, fmt.Errorf("not authorized to modify this character: %w", ErrForbidden)
	}

	if req.Name != nil {
		character.Name = *req.Name
	}
	if req.AvatarURL != nil {
		character.AvatarURL = *req.AvatarURL
	}
	if req.SheetData != nil {
		character.SheetData = req.SheetData
	}
	if req.Notes != nil {
		character.Notes = *req.Notes
	}

	if err := s.db.UpdateCharacter(ctx, character); err != nil {
		return nil, err
	}

	return s.db.GetCharacterByID(ctx, characterID)
}

func (s *CharacterService) DeleteCharacter(ctx context.Context, characterID, userID uuid.UUID) error {
	character, err := s.db.GetCharacterByID(ctx, characterID)
	if err != nil {
		return err
	}

	canModify, err := s.canModify(ctx, character, userID)
	if err != nil {
		return err
	}
	if !canModify {
		return fmt.Errorf("not authorized to delete this character: %w", ErrForbidden)
	}

	return s.db.DeleteCharacter(ctx, characterID)
}

// canModify reports whether the user is the character's player or a DM of
// its campaign.
func (s *CharacterService) canModify(ctx context.Context, character *models.Character, userID uuid.UUID) (bool, error) {
	if character.PlayerID == userID {
		return true, nil
	}

	member, err := s.db.GetMember(ctx, character.CampaignID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.Role == models.RoleDM, nil
}
