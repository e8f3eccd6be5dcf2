package services

import (
	"context"
	"testing"

	"campaign-app/internal/database"
	"campaign-app/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCampaignDB struct {
	database.Database
	campaigns map[uuid.UUID]*models.Campaign
	users     map[uuid.UUID]*models.User

	removedMembers []uuid.UUID
	deleted        []uuid.UUID
	updatedRoles   map[uuid.UUID]models.Role
}

func newFakeCampaignDB() *fakeCampaignDB {
	return &fakeCampaignDB{
		campaigns:    map[uuid.UUID]*models.Campaign{},
		users:        map[uuid.UUID]*models.User{},
		updatedRoles: map[uuid.UUID]models.Role{},
	}
}

func (f *fakeCampaignDB) GetCampaignByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign, ok := f.campaigns[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return campaign, nil
}

func (f *fakeCampaignDB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (f *fakeCampaignDB) UpdateCampaign(ctx context.Context, campaign *models.Campaign) error {
	f.campaigns[campaign.ID] = campaign
	return nil
}

func (f *fakeCampaignDB) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.campaigns, id)
	return nil
}

func (f *fakeCampaignDB) AddMember(ctx context.Context, campaignID, userID uuid.UUID, role models.Role) (*models.CampaignMember, error) {
	member := &models.CampaignMember{CampaignID: campaignID, UserID: userID, Role: role}
	f.campaigns[campaignID].Members = append(f.campaigns[campaignID].Members, *member)
	return member, nil
}

func (f *fakeCampaignDB) RemoveMember(ctx context.Context, campaignID, userID uuid.UUID) error {
	f.removedMembers = append(f.removedMembers, userID)
	return nil
}

func (f *fakeCampaignDB) UpdateMemberRole(ctx context.Context, campaignID, userID uuid.UUID, role models.Role) (*models.CampaignMember, error) {
	f.updatedRoles[userID] = role
	return &models.CampaignMember{CampaignID: campaignID, UserID: userID, Role: role}, nil
}

func (f *fakeCampaignDB) GetMember(ctx context.Context, campaignID, userID uuid.UUID) (*models.CampaignMember, error) {
	campaign, ok := f.campaigns[campaignID]
	if !ok {
		return nil, database.ErrNotFound
	}
	for _, m := range campaign.Members {
		if m.UserID == userID {
			member := m
			return &member, nil
		}
	}
	return nil, database.ErrNotFound
}

// seedCampaign creates a campaign with one DM and one player.
func seedCampaign(f *fakeCampaignDB) (campaignID, dmID, playerID uuid.UUID) {
	campaignID = uuid.New()
	dmID = uuid.New()
	playerID = uuid.New()
	f.users[dmID] = &models.User{ID: dmID, Username: "dm"}
	f.users[playerID] = &models.User{ID: playerID, Username: "player"}
	f.campaigns[campaignID] = &models.Campaign{
		ID:        campaignID,
		Name:      "Curse of the Crag",
		CreatedBy: dmID,
		Members: []models.CampaignMember{
			{CampaignID: campaignID, UserID: dmID, Username: "dm", Role: models.RoleDM},
			{CampaignID: campaignID, UserID: playerID, Username: "player", Role: models.RolePlayer},
		},
	}
	return campaignID, dmID, playerID
}

func TestGetCampaign_RequiresMembership(t *testing.T) {
	db := newFakeCampaignDB()
	service := NewCampaignService(db)
	campaignID, dmID, _ := seedCampaign(db)
	ctx := context.Background()

	campaign, err := service.GetCampaign(ctx, campaignID, dmID)
	require.NoError(t, err)
	assert.Equal(t, "Curse of the Crag", campaign.Name)

	_, err = service.GetCampaign(ctx, campaignID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.GetCampaign(ctx, uuid.New(), dmID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdateCampaign_DMOnly(t *testing.T) {
	db := newFakeCampaignDB()
	service := NewCampaignService(db)
	campaignID, dmID, playerID := seedCampaign(db)
	ctx := context.Background()

	name := "Renamed"
	_, err := service.UpdateCampaign(ctx, campaignID, playerID, &models.UpdateCampaignRequest{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := service.UpdateCampaign(ctx, campaignID, dmID, &models.UpdateCampaignRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestDeleteCampaign_DMOnly(t *testing.T) {
	db := newFakeCampaignDB()
	service := NewCampaignService(db)
	campaignID, dmID, playerID := seedCampaign(db)
	ctx := context.Background()

	err := service.DeleteCampaign(ctx, campaignID, playerID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, db.deleted)

	require.NoError(t, service.DeleteCampaign(ctx, campaignID, dmID))
	assert.Equal(t, []uuid.UUID{campaignID}, db.deleted)
}

func TestAddMember(t *testing.T) {
	db := newFakeCampaignDB()
	service := NewCampaignService(db)
	campaignID, dmID, playerID := seedCampaign(db)
	ctx := context.Background()

	newUser := &models.User{ID: uuid.New(), Username: "carol"}
	db.users[newUser.ID] = newUser

	_, err := service.AddMember(ctx, campaignID, playerID, &models.AddMemberRequest{UserID: newUser.ID, Role: models.RolePlayer})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.AddMember(ctx, campaignID, dmID, &models.AddMemberRequest{UserID: uuid.New(), Role: models.RolePlayer})
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = service.AddMember(ctx, campaignID, dmID, &models.AddMemberRequest{UserID: playerID, Role: models.RoleObserver})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already a member")

	member, err := service.AddMember(ctx, campaignID, dmID, &models.AddMemberRequest{UserID: newUser.ID, Role: models.RolePlayer})
	require.NoError(t, err)
	assert.Equal(t, models.RolePlayer, member.Role)
}

func TestRemoveMember_KeepsLastDM(t *testing.T) {
	db := newFakeCampaignDB()
	service := NewCampaignService(db)
	campaignID, dmID, playerID := seedCampaign(db)
	ctx := context.Background()

	err := service.RemoveMember(ctx, campaignID, playerID, playerID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The only DM cannot remove themselves.
	err = service.RemoveMember(ctx, campaignID, dmID, dmID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only DM")
	assert.Empty(t, db.removedMembers)

	require.NoError(t, service.RemoveMember(ctx, campaignID, dmID, playerID))
	assert.Equal(t, []uuid.UUID{playerID}, db.removedMembers)
}

func TestUpdateMemberRole_KeepsLastDM(t *testing.T) {
	db := newFakeCampaignDB()
	service := NewCampaignService(db)
	campaignID, dmID, playerID := seedCampaign(db)
	ctx := context.Background()

	_, err := service.UpdateMemberRole(ctx, campaignID, playerID, playerID, models.RoleDM)
	assert.ErrorIs(t, err, ErrForbidden)

	// The only DM cannot demote themselves.
	_, err = service.UpdateMemberRole(ctx, campaignID, dmID, dmID, models.RolePlayer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only DM")

	member, err := service.UpdateMemberRole(ctx, campaignID, dmID, playerID, models.RoleDM)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDM, member.Role)
}

func TestIsDM(t *testing.T) {
	db := newFakeCampaignDB()
	service := NewCampaignService(db)
	campaignID, dmID, playerID := seedCampaign(db)
	ctx := context.Background()

	isDM, err := service.IsDM(ctx, campaignID, dmID)
	require.NoError(t, err)
	assert.True(t, isDM)

	isDM, err = service.IsDM(ctx, campaignID, playerID)
	require.NoError(t, err)
	assert.False(t, isDM)

	isDM, err = service.IsDM(ctx, campaignID, uuid.New())
	require.NoError(t, err)
	assert.False(t, isDM)
}
