package services

import (
	"context"
	"fmt"

	"campaign-app/internal/database"
	"campaign-app/internal/models"

	"github.com/google/uuid"
)

type CompendiumService struct {
	db database.Database
}

func NewCompendiumService(db database.Database) *CompendiumService {
	return &CompendiumService{db: db}
}

func (s *CompendiumService) ListItems(ctx context.Context, params *models.CompendiumListParams) (*models.CompendiumItemList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 50
	}

	return s.db.ListCompendiumItems(ctx, params)
}

func (s *CompendiumService) GetItem(ctx context.Context, id uuid.UUID) (*models.CompendiumItem, error) {
	return s.db.GetCompendiumItem(ctx, id)
}

func (s *CompendiumService) GetChildren(ctx context.Context, parentID uuid.UUID) ([]*models.CompendiumItem, error) {
	if _, err := s.db.GetCompendiumItem(ctx, parentID); err != nil {
		return nil, err
	}
	return s.db.ListCompendiumChildren(ctx, parentID)
}

func (s *CompendiumService) CreateItem(ctx context.Context, req *models.CreateCompendiumItemRequest, user *models.User) (*models.CompendiumItem, error) {
	// Only admins publish official content; everything else is homebrew.
	if req.IsOfficial && !user.IsAdmin {
		return nil, fmt.Errorf("only admins can create official content: %w", ErrForbidden)
	}

	if req.ParentID != nil {
		if _, err := s.db.GetCompendiumItem(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("parent item: %w", err)
		}
	}

	return s.db.CreateCompendiumItem(ctx, req, user.ID)
}

func (s *CompendiumService) UpdateItem(ctx context.Context, id uuid.UUID, req *models.UpdateCompendiumItemRequest, user *models.User) (*models.CompendiumItem, error) {
	item, err := s.db.GetCompendiumItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canModify(item, user) {
		return nil, fmt.Errorf("not authorized to modify this item: %w", ErrForbidden)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Data != nil {
		item.Data = req.Data
	}
	if req.Tags != nil {
		item.Tags = req.Tags
	}
	if req.ParentID != nil {
		if *req.ParentID == item.ID {
			return nil, fmt.Errorf("item cannot be its own parent")
		}
		if _, err := s.db.GetCompendiumItem(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("parent item: %w", err)
		}
		item.ParentID = req.ParentID
	}

	if err := s.db.UpdateCompendiumItem(ctx, item); err != nil {
		return nil, err
	}

	return s.db.GetCompendiumItem(ctx, id)
}

func (s *CompendiumService) DeleteItem(ctx context.Context, id uuid.UUID, user *models.User) error {
	item, err := s.db.GetCompendiumItem(ctx, id)
	if err != nil {
		return err
	}

	if !s.canModify(item, user) {
		return fmt.Errorf("not authorized to delete this item: %w", ErrForbidden)
	}

	return s.db.DeleteCompendiumItem(ctx, id)
}

func (s *CompendiumService) canModify(item *models.CompendiumItem, user *models.User) bool {
	if user.IsAdmin {
		return true
	}
	return item.CreatedBy != nil && *item.CreatedBy == user.ID
}
