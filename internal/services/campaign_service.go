package services

import (
	"context"
	"errors"
	"fmt"

	"campaign-app/internal/database"
	"campaign-app/internal/models"

	"github.com/google/uuid"
)

// ErrForbidden marks authorization failures. Handlers map it to 403.
var ErrForbidden = errors.New("forbidden")

type CampaignService struct {
	db database.Database
}

func NewCampaignService(db database.Database) *CampaignService {
	return &CampaignService{db: db}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, req *models.CreateCampaignRequest, creatorID uuid.UUID) (*models.Campaign, error) {
	return s.db.CreateCampaign(ctx, req, creatorID)
}

func (s *CampaignService) ListCampaigns(ctx context.Context, userID uuid.UUID) ([]*models.Campaign, error) {
	return s.db.ListUserCampaigns(ctx, userID)
}

func (s *CampaignService) GetCampaign(ctx context.Context, campaignID, userID uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.db.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if !memberOf(campaign, userID) {
		return nil, fmt.Errorf("not a member of this campaign: %w", ErrForbidden)
	}

	return campaign, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, campaignID, userID uuid.UUID, req *models.UpdateCampaignRequest) (*models.Campaign, error) {
	campaign, err := s.db.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if !dmOf(campaign, userID) {
		return nil, fmt.Errorf("only a DM can update the campaign: %w", ErrForbidden)
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.Settings != nil {
		campaign.Settings = req.Settings
	}

	if err := s.db.UpdateCampaign(ctx, campaign); err != nil {
		return nil, err
	}

	return s.db.GetCampaignByID(ctx, campaignID)
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, campaignID, userID uuid.UUID) error {
	campaign, err := s.db.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return err
	}

	if !dmOf(campaign, userID) {
		return fmt.Errorf("only a DM can delete the campaign: %w", ErrForbidden)
	}

	return s.db.DeleteCampaign(ctx, campaignID)
}

func (s *CampaignService) AddMember(ctx context.Context, campaignID, userID uuid.UUID, req *models.AddMemberRequest) (*models.CampaignMember, error) {
	campaign, err := s.db.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if !dmOf(campaign, userID) {
		return nil, fmt.Errorf("only a DM can add members: %w", ErrForbidden)
	}

	if _, err := s.db.GetUserByID(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}

	if memberOf(campaign, req.UserID) {
		return nil, fmt.Errorf("user is already a member")
	}

	return s.db.AddMember(ctx, campaignID, req.UserID, req.Role)
}

func (s *CampaignService) RemoveMember(ctx context.Context, campaignID, actorID, memberID uuid.UUID) error {
	campaign, err := s.db.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return err
	}

	if !dmOf(campaign, actorID) {
		return fmt.Errorf("only a DM can remove members: %w", ErrForbidden)
	}

	// A campaign must keep at least one DM.
	if memberID == actorID && countDMs(campaign) == 1 {
		return fmt.Errorf("cannot remove the only DM")
	}

	return s.db.RemoveMember(ctx, campaignID, memberID)
}

func (s *CampaignService) UpdateMemberRole(ctx context.Context, campaignID, actorID, memberID uuid.UUID, role models.Role) (*models.CampaignMember, error) {
	campaign, err := s.db.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if !dmOf(campaign, actorID) {
		return nil, fmt.Errorf("only a DM can update member roles: %w", ErrForbidden)
	}

	if memberID == actorID && role != models.RoleDM && countDMs(campaign) == 1 {
		return nil, fmt.Errorf("cannot demote the only DM")
	}

	return s.db.UpdateMemberRole(ctx, campaignID, memberID, role)
}

func (s *CampaignService) IsDM(ctx context.Context, campaignID, userID uuid.UUID) (bool, error) {
	member, err := s.db.GetMember(ctx, campaignID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.Role == models.RoleDM, nil
}

func memberOf(campaign *models.Campaign, userID uuid.UUID) bool {
	for _, m := range campaign.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func dmOf(campaign *models.Campaign, userID uuid.UUID) bool {
	for _, m := range campaign.Members {
		if m.UserID == userID && m.Role == models.RoleDM {
			return true
		}
	}
	return false
}

func countDMs(campaign *models.Campaign) int {
	count := 0
	for _, m := range campaign.Members {
		if m.Role == models.RoleDM {
			count++
		}
	}
	return count
}
