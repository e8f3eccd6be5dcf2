package database

import (
	"context"
	"errors"
	"fmt"

	"campaign-app/internal/models"
	"campaign-app/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// User Repository Implementation
func (db *PostgresDB) CreateUser(ctx context.Context, req *models.RegisterRequest, passwordHash string, isAdmin bool) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, username, email, is_admin, created_at`

	user := &models.User{PasswordHash: passwordHash}
	err := db.pool.QueryRow(ctx, query, uuid.New(), req.Username, req.Email, passwordHash, isAdmin).Scan(
		&user.ID, &user.Username, &user.Email, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (db *PostgresDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE username = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return user, nil
}

func (db *PostgresDB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return user, nil
}

func (db *PostgresDB) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// Campaign Repository Implementation
func (db *PostgresDB) CreateCampaign(ctx context.Context, req *models.CreateCampaignRequest, creatorID uuid.UUID) (*models.Campaign, error) {
	settings := req.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO campaigns (id, name, description, settings, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, name, description, settings, created_by, created_at, updated_at`

	campaign := &models.Campaign{}
	err = tx.QueryRow(ctx, query, uuid.New(), req.Name, req.Description, settings, creatorID).Scan(
		&campaign.ID, &campaign.Name, &campaign.Description, &campaign.Settings,
		&campaign.CreatedBy, &campaign.CreatedAt, &campaign.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	// Creator automatically becomes DM
	memberQuery := `INSERT INTO campaign_members (campaign_id, user_id, role, joined_at) VALUES ($1, $2, $3, NOW())`
	if _, err := tx.Exec(ctx, memberQuery, campaign.ID, creatorID, models.RoleDM); err != nil {
		return nil, fmt.Errorf("failed to add creator as DM: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	members, err := db.getCampaignMembers(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	campaign.Members = members

	return campaign, nil
}

func (db *PostgresDB) GetCampaignByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	query := `SELECT id, name, description, settings, created_by, created_at, updated_at FROM campaigns WHERE id = $1`

	campaign := &models.Campaign{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&campaign.ID, &campaign.Name, &campaign.Description, &campaign.Settings,
		&campaign.CreatedBy, &campaign.CreatedAt, &campaign.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	members, err := db.getCampaignMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	campaign.Members = members

	return campaign, nil
}

func (db *PostgresDB) ListUserCampaigns(ctx context.Context, userID uuid.UUID) ([]*models.Campaign, error) {
	query := `
		SELECT c.id, c.name, c.description, c.settings, c.created_by, c.created_at, c.updated_at
		FROM campaigns c
		JOIN campaign_members m ON c.id = m.campaign_id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC`

	rows, err := db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		campaign := &models.Campaign{}
		if err := rows.Scan(
			&campaign.ID, &campaign.Name, &campaign.Description, &campaign.Settings,
			&campaign.CreatedBy, &campaign.CreatedAt, &campaign.UpdatedAt,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, campaign := range campaigns {
		members, err := db.getCampaignMembers(ctx, campaign.ID)
		if err != nil {
			return nil, err
		}
		campaign.Members = members
	}

	return campaigns, nil
}

func (db *PostgresDB) UpdateCampaign(ctx context.Context, campaign *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $2, description = $3, settings = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := db.pool.Exec(ctx, query, campaign.ID, campaign.Name, campaign.Description, campaign.Settings)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	// Memberships, characters and messages cascade via FK constraints.
	tag, err := db.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) getCampaignMembers(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignMember, error) {
	query := `
		SELECT m.campaign_id, m.user_id, u.username, m.role, m.joined_at
		FROM campaign_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.campaign_id = $1
		ORDER BY m.joined_at`

	rows, err := db.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.CampaignMember
	for rows.Next() {
		var member models.CampaignMember
		if err := rows.Scan(&member.CampaignID, &member.UserID, &member.Username, &member.Role, &member.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// Membership Repository Implementation
func (db *PostgresDB) AddMember(ctx context.Context, campaignID, userID uuid.UUID, role models.Role) (*models.CampaignMember, error) {
	query := `INSERT INTO campaign_members (campaign_id, user_id, role, joined_at) VALUES ($1, $2, $3, NOW())`
	if _, err := db.pool.Exec(ctx, query, campaignID, userID, role); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return db.GetMember(ctx, campaignID, userID)
}

func (db *PostgresDB) RemoveMember(ctx context.Context, campaignID, userID uuid.UUID) error {
	query := `DELETE FROM campaign_members WHERE campaign_id = $1 AND user_id = $2`
	tag, err := db.pool.Exec(ctx, query, campaignID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) UpdateMemberRole(ctx context.Context, campaignID, userID uuid.UUID, role models.Role) (*models.CampaignMember, error) {
	query := `UPDATE campaign_members SET role = $3 WHERE campaign_id = $1 AND user_id = $2`
	tag, err := db.pool.Exec(ctx, query, campaignID, userID, role)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return db.GetMember(ctx, campaignID, userID)
}

func (db *PostgresDB) GetMember(ctx context.Context, campaignID, userID uuid.UUID) (*models.CampaignMember, error) {
	query := `
		SELECT m.campaign_id, m.user_id, u.username, m.role, m.joined_at
		FROM campaign_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.campaign_id = $1 AND m.user_id = $2`

	member := &models.CampaignMember{}
	err := db.pool.QueryRow(ctx, query, campaignID, userID).Scan(
		&member.CampaignID, &member.UserID, &member.Username, &member.Role, &member.JoinedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return member, nil
}

func (db *PostgresDB) IsMember(ctx context.Context, campaignID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM campaign_members WHERE campaign_id = $1 AND user_id = $2)`

	var exists bool
	err := db.pool.QueryRow(ctx, query, campaignID, userID).Scan(&exists)
	return exists, err
}

func (db *PostgresDB) CountDMs(ctx context.Context, campaignID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM campaign_members WHERE campaign_id = $1 AND role = $2`

	var count int
	err := db.pool.QueryRow(ctx, query, campaignID, models.RoleDM).Scan(&count)
	return count, err
}

// Character Repository Implementation
func (db *PostgresDB) CreateCharacter(ctx context.Context, req *models.CreateCharacterRequest, playerID uuid.UUID) (*models.Character, error) {
	sheetData := req.SheetData
	if sheetData == nil {
		sheetData = map[string]any{}
	}

	query := `
		INSERT INTO characters (id, campaign_id, player_id, name, avatar_url, sheet_data, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, campaign_id, player_id, name, avatar_url, sheet_data, notes, created_at, updated_at`

	character := &models.Character{}
	err := db.pool.QueryRow(ctx, query,
		uuid.New(), req.CampaignID, playerID, req.Name, req.AvatarURL, sheetData, req.Notes,
	).Scan(
		&character.ID, &character.CampaignID, &character.PlayerID, &character.Name,
		&character.AvatarURL, &character.SheetData, &character.Notes,
		&character.CreatedAt, &character.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}

	return character, nil
}

func (db *PostgresDB) GetCharacterByID(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	query := `
		SELECT id, campaign_id, player_id, name, avatar_url, sheet_data, notes, created_at, updated_at
		FROM characters WHERE id = $1`

	character := &models.Character{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&character.ID, &character.CampaignID, &character.PlayerID, &character.Name,
		&character.AvatarURL, &character.SheetData, &character.Notes,
		&character.CreatedAt, &character.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return character, nil
}

func (db *PostgresDB) ListCharacters(ctx context.Context, playerID uuid.UUID, campaignID *uuid.UUID) ([]*models.Character, error) {
	query := `
		SELECT id, campaign_id, player_id, name, avatar_url, sheet_data, notes, created_at, updated_at
		FROM characters
		WHERE player_id = $1 AND ($2::uuid IS NULL OR campaign_id = $2)
		ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, playerID, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var characters []*models.Character
	for rows.Next() {
		character := &models.Character{}
		if err := rows.Scan(
			&character.ID, &character.CampaignID, &character.PlayerID, &character.Name,
			&character.AvatarURL, &character.SheetData, &character.Notes,
			&character.CreatedAt, &character.UpdatedAt,
		); err != nil {
			return nil, err
		}
		characters = append(characters, character)
	}

	return characters, rows.Err()
}

func (db *PostgresDB) UpdateCharacter(ctx context.Context, character *models.Character) error {
	query := `
		UPDATE characters
		SET name = $2, avatar_url = $3, sheet_data = $4, notes = $5, updated_at = NOW()
		WHERE id = $1`

	tag, err := db.pool.Exec(ctx, query,
		character.ID, character.Name, character.AvatarURL, character.SheetData, character.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) DeleteCharacter(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) OwnsCharacter(ctx context.Context, characterID, campaignID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM characters
			WHERE id = $1 AND campaign_id = $2 AND player_id = $3
		)`

	var exists bool
	err := db.pool.QueryRow(ctx, query, characterID, campaignID, userID).Scan(&exists)
	return exists, err
}

// Message Repository Implementation
func (db *PostgresDB) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	extraData := msg.ExtraData
	if extraData == nil {
		extraData = map[string]any{}
	}

	query := `
		INSERT INTO messages (id, campaign_id, user_id, character_id, content, is_ic, extra_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	saved := &models.Message{
		CampaignID:  msg.CampaignID,
		UserID:      msg.UserID,
		Username:    msg.Username,
		CharacterID: msg.CharacterID,
		Content:     msg.Content,
		IsIC:        msg.IsIC,
		ExtraData:   extraData,
	}
	err := db.pool.QueryRow(ctx, query,
		uuid.New(), msg.CampaignID, msg.UserID, msg.CharacterID, msg.Content, msg.IsIC, extraData,
	).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	return saved, nil
}

func (db *PostgresDB) ListMessages(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.campaign_id, m.user_id, u.username, m.character_id, m.content, m.is_ic, m.extra_data, m.created_at, m.updated_at
		FROM messages m
		JOIN users u ON m.user_id = u.id
		WHERE m.campaign_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := db.pool.Query(ctx, query, campaignID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(
			&msg.ID, &msg.CampaignID, &msg.UserID, &msg.Username, &msg.CharacterID,
			&msg.Content, &msg.IsIC, &msg.ExtraData, &msg.CreatedAt, &msg.UpdatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (db *PostgresDB) GetMessageByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	query := `
		SELECT m.id, m.campaign_id, m.user_id, u.username, m.character_id, m.content, m.is_ic, m.extra_data, m.created_at, m.updated_at
		FROM messages m
		JOIN users u ON m.user_id = u.id
		WHERE m.id = $1`

	msg := &models.Message{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.CampaignID, &msg.UserID, &msg.Username, &msg.CharacterID,
		&msg.Content, &msg.IsIC, &msg.ExtraData, &msg.CreatedAt, &msg.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return msg, nil
}

func (db *PostgresDB) UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) (*models.Message, error) {
	query := `UPDATE messages SET content = $2, updated_at = NOW() WHERE id = $1`
	tag, err := db.pool.Exec(ctx, query, id, content)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return db.GetMessageByID(ctx, id)
}

func (db *PostgresDB) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Compendium Repository Implementation
func (db *PostgresDB) CreateCompendiumItem(ctx context.Context, req *models.CreateCompendiumItemRequest, createdBy uuid.UUID) (*models.CompendiumItem, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO compendium_items (id, type, name, system, data, tags, is_official, parent_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, type, name, system, data, tags, is_official, parent_id, created_by, created_at, updated_at`

	item := &models.CompendiumItem{}
	err := db.pool.QueryRow(ctx, query,
		uuid.New(), req.Type, req.Name, req.System, req.Data, tags, req.IsOfficial, req.ParentID, createdBy,
	).Scan(
		&item.ID, &item.Type, &item.Name, &item.System, &item.Data, &item.Tags,
		&item.IsOfficial, &item.ParentID, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create compendium item: %w", err)
	}

	return item, nil
}

func (db *PostgresDB) GetCompendiumItem(ctx context.Context, id uuid.UUID) (*models.CompendiumItem, error) {
	query := `
		SELECT id, type, name, system, data, tags, is_official, parent_id, created_by, created_at, updated_at
		FROM compendium_items WHERE id = $1`

	item := &models.CompendiumItem{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Type, &item.Name, &item.System, &item.Data, &item.Tags,
		&item.IsOfficial, &item.ParentID, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	return item, nil
}

func (db *PostgresDB) ListCompendiumItems(ctx context.Context, params *models.CompendiumListParams) (*models.CompendiumItemList, error) {
	filter := `
		WHERE ($1 = '' OR type = $1)
		  AND ($2 = '' OR system = $2)
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%')
		  AND ($4::boolean IS NULL OR is_official = $4)`

	var total int
	countQuery := `SELECT COUNT(*) FROM compendium_items ` + filter
	err := db.pool.QueryRow(ctx, countQuery, params.Type, params.System, params.Query, params.IsOfficial).Scan(&total)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, type, name, system, data, tags, is_official, parent_id, created_by, created_at, updated_at
		FROM compendium_items ` + filter + `
		ORDER BY name
		LIMIT $5 OFFSET $6`

	offset := (params.Page - 1) * params.PageSize
	rows, err := db.pool.Query(ctx, query,
		params.Type, params.System, params.Query, params.IsOfficial, params.PageSize, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.CompendiumItem{}
	for rows.Next() {
		item := &models.CompendiumItem{}
		if err := rows.Scan(
			&item.ID, &item.Type, &item.Name, &item.System, &item.Data, &item.Tags,
			&item.IsOfficial, &item.ParentID, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.CompendiumItemList{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (db *PostgresDB) ListCompendiumChildren(ctx context.Context, parentID uuid.UUID) ([]*models.CompendiumItem, error) {
	query := `
		SELECT id, type, name, system, data, tags, is_official, parent_id, created_by, created_at, updated_at
		FROM compendium_items
		WHERE parent_id = $1
		ORDER BY name`

	rows, err := db.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CompendiumItem
	for rows.Next() {
		item := &models.CompendiumItem{}
		if err := rows.Scan(
			&item.ID, &item.Type, &item.Name, &item.System, &item.Data, &item.Tags,
			&item.IsOfficial, &item.ParentID, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (db *PostgresDB) UpdateCompendiumItem(ctx context.Context, item *models.CompendiumItem) error {
	query := `
		UPDATE compendium_items
		SET name = $2, data = $3, tags = $4, parent_id = $5, updated_at = NOW()
		WHERE id = $1`

	tag, err := db.pool.Exec(ctx, query, item.ID, item.Name, item.Data, item.Tags, item.ParentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) DeleteCompendiumItem(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM compendium_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
