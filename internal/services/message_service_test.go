package services

import (
	"context"
	"testing"
	"time"

	"campaign-app/internal/database"
	"campaign-app/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageDB struct {
	database.Database
	members    map[uuid.UUID]models.Role // userID -> role in the one campaign under test
	owned      map[uuid.UUID]bool
	messages   map[uuid.UUID]*models.Message
	deletedIDs []uuid.UUID

	listLimit  int
	listOffset int
}

func newFakeMessageDB() *fakeMessageDB {
	return &fakeMessageDB{
		members:  map[uuid.UUID]models.Role{},
		owned:    map[uuid.UUID]bool{},
		messages: map[uuid.UUID]*models.Message{},
	}
}

func (f *fakeMessageDB) IsMember(ctx context.Context, campaignID, userID uuid.UUID) (bool, error) {
	_, ok := f.members[userID]
	return ok, nil
}

func (f *fakeMessageDB) GetMember(ctx context.Context, campaignID, userID uuid.UUID) (*models.CampaignMember, error) {
	role, ok := f.members[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &models.CampaignMember{CampaignID: campaignID, UserID: userID, Role: role}, nil
}

func (f *fakeMessageDB) OwnsCharacter(ctx context.Context, characterID, campaignID, userID uuid.UUID) (bool, error) {
	return f.owned[characterID], nil
}

func (f *fakeMessageDB) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	saved := *msg
	saved.ID = uuid.New()
	saved.CreatedAt = time.Now()
	f.messages[saved.ID] = &saved
	return &saved, nil
}

func (f *fakeMessageDB) ListMessages(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	f.listLimit = limit
	f.listOffset = offset
	return nil, nil
}

func (f *fakeMessageDB) GetMessageByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return msg, nil
}

func (f *fakeMessageDB) UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) (*models.Message, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	msg.Content = content
	msg.UpdatedAt = time.Now()
	return msg, nil
}

func (f *fakeMessageDB) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, id)
	delete(f.messages, id)
	return nil
}

func TestCreateMessage(t *testing.T) {
	db := newFakeMessageDB()
	service := NewMessageService(db)
	campaignID := uuid.New()
	alice := &models.User{ID: uuid.New(), Username: "alice"}
	db.members[alice.ID] = models.RolePlayer
	ctx := context.Background()

	msg, err := service.CreateMessage(ctx, campaignID, alice, &models.CreateMessageRequest{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Content)
	assert.True(t, msg.IsIC, "in-character by default")

	ooc := false
	msg, err = service.CreateMessage(ctx, campaignID, alice, &models.CreateMessageRequest{Content: "ooc", IsIC: &ooc})
	require.NoError(t, err)
	assert.False(t, msg.IsIC)

	outsider := &models.User{ID: uuid.New(), Username: "mallory"}
	_, err = service.CreateMessage(ctx, campaignID, outsider, &models.CreateMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateMessage_CharacterOwnership(t *testing.T) {
	db := newFakeMessageDB()
	service := NewMessageService(db)
	campaignID := uuid.New()
	alice := &models.User{ID: uuid.New(), Username: "alice"}
	db.members[alice.ID] = models.RolePlayer
	ctx := context.Background()

	characterID := uuid.New()
	_, err := service.CreateMessage(ctx, campaignID, alice, &models.CreateMessageRequest{
		Content: "hi", CharacterID: &characterID,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	db.owned[characterID] = true
	msg, err := service.CreateMessage(ctx, campaignID, alice, &models.CreateMessageRequest{
		Content: "hi", CharacterID: &characterID,
	})
	require.NoError(t, err)
	require.NotNil(t, msg.CharacterID)
	assert.Equal(t, characterID, *msg.CharacterID)
}

func TestListMessages_ClampsPaging(t *testing.T) {
	db := newFakeMessageDB()
	service := NewMessageService(db)
	campaignID := uuid.New()
	userID := uuid.New()
	db.members[userID] = models.RolePlayer
	ctx := context.Background()

	_, err := service.ListMessages(ctx, campaignID, userID, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 50, db.listLimit)
	assert.Equal(t, 0, db.listOffset)

	_, err = service.ListMessages(ctx, campaignID, userID, 500, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, db.listLimit)
	assert.Equal(t, 10, db.listOffset)

	_, err = service.ListMessages(ctx, campaignID, userID, 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, db.listLimit)

	_, err = service.ListMessages(ctx, campaignID, uuid.New(), 25, 0)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateMessage(t *testing.T) {
	db := newFakeMessageDB()
	service := NewMessageService(db)
	campaignID := uuid.New()
	alice := &models.User{ID: uuid.New(), Username: "alice"}
	db.members[alice.ID] = models.RolePlayer
	ctx := context.Background()

	msg, err := service.CreateMessage(ctx, campaignID, alice, &models.CreateMessageRequest{Content: "tpyo"})
	require.NoError(t, err)

	updated, err := service.UpdateMessage(ctx, msg.ID, alice.ID, "typo")
	require.NoError(t, err)
	assert.Equal(t, "typo", updated.Content)

	// Only the author may edit.
	_, err = service.UpdateMessage(ctx, msg.ID, uuid.New(), "hijacked")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateMessage_EditWindowExpires(t *testing.T) {
	db := newFakeMessageDB()
	service := NewMessageService(db)
	alice := &models.User{ID: uuid.New(), Username: "alice"}
	ctx := context.Background()

	stale := &models.Message{
		ID:        uuid.New(),
		UserID:    alice.ID,
		Content:   "old",
		CreatedAt: time.Now().Add(-16 * time.Minute),
	}
	db.messages[stale.ID] = stale

	_, err := service.UpdateMessage(ctx, stale.ID, alice.ID, "too late")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteMessage(t *testing.T) {
	db := newFakeMessageDB()
	service := NewMessageService(db)
	campaignID := uuid.New()
	alice := &models.User{ID: uuid.New(), Username: "alice"}
	dmID := uuid.New()
	playerID := uuid.New()
	db.members[alice.ID] = models.RolePlayer
	db.members[dmID] = models.RoleDM
	db.members[playerID] = models.RolePlayer
	ctx := context.Background()

	msg, err := service.CreateMessage(ctx, campaignID, alice, &models.CreateMessageRequest{Content: "hi"})
	require.NoError(t, err)

	// Another player cannot delete it.
	err = service.DeleteMessage(ctx, msg.ID, playerID)
	assert.ErrorIs(t, err, ErrForbidden)

	// A non-member cannot either.
	err = service.DeleteMessage(ctx, msg.ID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	// The DM can.
	require.NoError(t, service.DeleteMessage(ctx, msg.ID, dmID))
	assert.Equal(t, []uuid.UUID{msg.ID}, db.deletedIDs)

	// The author can delete their own.
	msg2, err := service.CreateMessage(ctx, campaignID, alice, &models.CreateMessageRequest{Content: "again"})
	require.NoError(t, err)
	require.NoError(t, service.DeleteMessage(ctx, msg2.ID, alice.ID))
}
