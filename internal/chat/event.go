package chat

import (
	"time"

	"campaign-app/internal/models"

	"github.com/google/uuid"
)

type EventType string

const (
	EventMessage    EventType = "message"
	EventUserJoined EventType = "user_joined"
	EventUserLeft   EventType = "user_left"
	EventError      EventType = "error"
)

// ClientEvent is the inbound wire shape. It is decoded exactly once at the
// protocol boundary; Type selects the variant.
type ClientEvent struct {
	Type           EventType  `json:"type"`
	Content        string     `json:"content"`
	CharacterID    *uuid.UUID `json:"character_id"`
	IsIC           *bool      `json:"is_ic"`
	DiceExpression string     `json:"dice_expression"`
}

// ServerEvent is the outbound wire shape. A broadcast serializes the event
// once and every recipient gets the identical bytes.
type ServerEvent struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

type PresencePayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

type MessagePayload struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Username    string         `json:"username"`
	CharacterID *uuid.UUID     `json:"character_id"`
	Content     string         `json:"content"`
	IsIC        bool           `json:"is_ic"`
	ExtraData   map[string]any `json:"extra_data"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func UserJoinedEvent(userID uuid.UUID, username string) ServerEvent {
	return ServerEvent{Type: EventUserJoined, Data: PresencePayload{UserID: userID, Username: username}}
}

func UserLeftEvent(userID uuid.UUID, username string) ServerEvent {
	return ServerEvent{Type: EventUserLeft, Data: PresencePayload{UserID: userID, Username: username}}
}

func ErrorEvent(message string) ServerEvent {
	return ServerEvent{Type: EventError, Data: ErrorPayload{Message: message}}
}

func MessageEvent(msg *models.Message) ServerEvent {
	return ServerEvent{Type: EventMessage, Data: MessagePayload{
		ID:          msg.ID,
		UserID:      msg.UserID,
		Username:    msg.Username,
		CharacterID: msg.CharacterID,
		Content:     msg.Content,
		IsIC:        msg.IsIC,
		ExtraData:   msg.ExtraData,
		CreatedAt:   msg.CreatedAt,
	}}
}
