package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campaign-app/internal/database"
	"campaign-app/internal/models"

	"github.com/google/uuid"
)

// Messages stay editable for a short window after posting.
const editTimeLimit = 15 * time.Minute

type MessageService struct {
	db database.Database
}

func NewMessageService(db database.Database) *MessageService {
	return &MessageService{db: db}
}

// CreateMessage persists a message posted over REST. Unlike the chat path it
// does not broadcast to the room.
func (s *MessageService) CreateMessage(ctx context.Context, campaignID uuid.UUID, user *models.User, req *models.CreateMessageRequest) (*models.Message, error) {
	isMember, err := s.db.IsMember(ctx, campaignID, user.ID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("not a member of this campaign: %w", ErrForbidden)
	}

	if req.CharacterID != nil {
		owns, err := s.db.OwnsCharacter(ctx, *req.CharacterID, campaignID, user.ID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, fmt.Errorf("character not found or not owned by you: %w", ErrForbidden)
		}
	}

	isIC := true
	if req.IsIC != nil {
		isIC = *req.IsIC
	}

	return s.db.InsertMessage(ctx, &models.Message{
		CampaignID:  campaignID,
		UserID:      user.ID,
		Username:    user.Username,
		CharacterID: req.CharacterID,
		Content:     req.Content,
		IsIC:        isIC,
		ExtraData:   req.ExtraData,
	})
}

func (s *MessageService) ListMessages(ctx context.Context, campaignID, userID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	isMember, err := s.db.IsMember(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("not a member of this campaign: %w", ErrForbidden)
	}

	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.db.ListMessages(ctx, campaignID, limit, offset)
}

func (s *MessageService) UpdateMessage(ctx context.Context, messageID, userID uuid.UUID, content string) (*models.Message, error) {
	msg, err := s.db.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if msg.UserID != userID {
		return nil, fmt.Errorf("not authorized to edit this message: %w", ErrForbidden)
	}

	if time.Since(msg.CreatedAt) > editTimeLimit {
		return nil, fmt.Errorf("edit time limit exceeded: %w", ErrForbidden)
	}

	return s.db.UpdateMessageContent(ctx, messageID, content)
}

func (s *MessageService) DeleteMessage(ctx context.Context, messageID, userID uuid.UUID) error {
	msg, err := s.db.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}

	if msg.UserID != userID {
		member, err := s.db.GetMember(ctx, msg.CampaignID, userID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Errorf("not authorized to delete this message: %w", ErrForbidden)
			}
			return err
		}
		if member.Role != models.RoleDM {
			return fmt.Errorf("not authorized to delete this message: %w", ErrForbidden)
		}
	}

	return s.db.DeleteMessage(ctx, messageID)
}
