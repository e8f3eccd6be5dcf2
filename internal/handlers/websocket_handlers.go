package handlers

import (
	"context"
	"net/http"
	"time"

	"campaign-app/internal/chat"
	"campaign-app/internal/models"
	"campaign-app/pkg/logger"

	"github.com/gorilla/websocket"
)

// UserResolver turns a bearer credential into the user it was issued for.
// auth.Service satisfies it.
type UserResolver interface {
	GetUserFromToken(ctx context.Context, token string) (*models.User, error)
}

type WebSocketHandlers struct {
	auth     UserResolver
	store    chat.Store
	registry *chat.Registry
	hub      *chat.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(auth UserResolver, store chat.Store, registry *chat.Registry, hub *chat.Hub) *WebSocketHandlers {
	return &WebSocketHandlers{
		auth:     auth,
		store:    store,
		registry: registry,
		hub:      hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

// HandleCampaignChat upgrades the connection, then fails closed with a
// policy violation close code on any authentication or membership failure,
// before touching any room state. Admitted connections run the session loop
// to completion on this goroutine.
func (h *WebSocketHandlers) HandleCampaignChat(w http.ResponseWriter, r *http.Request) {
	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		closeWithCode(conn, websocket.ClosePolicyViolation, "missing token")
		return
	}

	user, err := h.auth.GetUserFromToken(r.Context(), token)
	if err != nil {
		closeWithCode(conn, websocket.ClosePolicyViolation, "invalid token")
		return
	}

	isMember, err := h.store.IsMember(r.Context(), campaignID, user.ID)
	if err != nil {
		logger.Error("Error checking campaign membership: %v", err)
		closeWithCode(conn, websocket.CloseInternalServerErr, "internal error")
		return
	}
	if !isMember {
		closeWithCode(conn, websocket.ClosePolicyViolation, "not a member of this campaign")
		return
	}

	session := chat.NewSession(h.registry, h.hub, h.store, campaignID, user, conn)
	session.Run(r.Context())
}

func closeWithCode(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}
