package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"campaign-app/internal/dice"
	"campaign-app/internal/models"
	"campaign-app/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Store is the slice of the persistence layer the chat loop needs.
// database.Database satisfies it.
type Store interface {
	IsMember(ctx context.Context, campaignID, userID uuid.UUID) (bool, error)
	OwnsCharacter(ctx context.Context, characterID, campaignID, userID uuid.UUID) (bool, error)
	InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
}

// Session is the per-connection protocol loop for one admitted user. The
// caller has already authenticated the user and verified campaign membership.
type Session struct {
	registry   *Registry
	hub        *Hub
	store      Store
	campaignID uuid.UUID
	user       *models.User
	sock       *websocket.Conn
	conn       Conn
}

func NewSession(registry *Registry, hub *Hub, store Store, campaignID uuid.UUID, user *models.User, sock *websocket.Conn) *Session {
	return &Session{
		registry:   registry,
		hub:        hub,
		store:      store,
		campaignID: campaignID,
		user:       user,
		sock:       sock,
		conn:       NewWSConn(sock, user),
	}
}

// Run drives the session to completion: join the room, announce presence,
// process inbound events in arrival order, and on any read failure tear down
// and announce the departure. Blocks until the connection is gone.
func (s *Session) Run(ctx context.Context) {
	s.registry.Add(s.campaignID, s.conn)
	defer s.teardown()

	// Announced only after the connection is present in the registry, so the
	// joining user sees their own arrival and nobody can observe a departure
	// without the matching arrival.
	s.hub.Broadcast(s.campaignID, UserJoinedEvent(s.user.ID, s.user.Username))
	logger.Info("User %s joined campaign %s chat", s.user.Username, s.campaignID)

	for {
		_, data, err := s.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error for user %s: %v", s.user.Username, err)
			}
			return
		}

		var event ClientEvent
		if err := json.Unmarshal(data, &event); err != nil {
			s.sendError("malformed event")
			continue
		}

		switch event.Type {
		case EventMessage:
			s.handleMessage(ctx, &event)
		case EventUserJoined, EventUserLeft, EventError:
			// Server-originated kinds are not accepted from clients.
			s.sendError(fmt.Sprintf("event type not accepted: %s", event.Type))
		default:
			s.sendError(fmt.Sprintf("unknown event type: %s", event.Type))
		}
	}
}

// handleMessage validates, persists and broadcasts one chat message. Every
// failure here is terminal to this event only: the sender gets a private
// error and the loop continues. A message is broadcast only after it has
// been durably stored.
func (s *Session) handleMessage(ctx context.Context, event *ClientEvent) {
	extraData := map[string]any{}

	if event.DiceExpression != "" {
		result, err := dice.Roll(event.DiceExpression)
		if err != nil {
			s.sendError(fmt.Sprintf("Invalid dice expression: %s", event.DiceExpression))
			return
		}
		extraData["dice_roll"] = result
	}

	if event.CharacterID != nil {
		owns, err := s.store.OwnsCharacter(ctx, *event.CharacterID, s.campaignID, s.user.ID)
		if err != nil {
			logger.Error("Error checking character ownership: %v", err)
			s.sendError("failed to verify character")
			return
		}
		if !owns {
			s.sendError("Character not found or not owned by you")
			return
		}
	}

	isIC := true
	if event.IsIC != nil {
		isIC = *event.IsIC
	}

	saved, err := s.store.InsertMessage(ctx, &models.Message{
		CampaignID:  s.campaignID,
		UserID:      s.user.ID,
		Username:    s.user.Username,
		CharacterID: event.CharacterID,
		Content:     event.Content,
		IsIC:        isIC,
		ExtraData:   extraData,
	})
	if err != nil {
		logger.Error("Error saving message from user %s: %v", s.user.Username, err)
		s.sendError("failed to save message")
		return
	}

	s.hub.Broadcast(s.campaignID, MessageEvent(saved))
}

func (s *Session) teardown() {
	s.registry.Remove(s.campaignID, s.conn)
	s.hub.Broadcast(s.campaignID, UserLeftEvent(s.user.ID, s.user.Username))
	s.conn.Close()
	logger.Info("User %s left campaign %s chat", s.user.Username, s.campaignID)
}

// sendError delivers an error event to this connection only. Other room
// members never see another sender's recoverable failures.
func (s *Session) sendError(message string) {
	data, err := json.Marshal(ErrorEvent(message))
	if err != nil {
		return
	}
	if err := s.conn.Send(data); err != nil {
		logger.Error("Error sending error event to user %s: %v", s.user.Username, err)
	}
}
