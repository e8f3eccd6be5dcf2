package chat

import (
	"encoding/json"

	"campaign-app/pkg/logger"

	"github.com/google/uuid"
)

// Hub fans events out to every live connection in a campaign room. Delivery
// is best effort: a connection that fails mid-send is removed from the room
// and closed, and delivery to the remaining connections continues. A slow or
// dead peer must never stall the room.
type Hub struct {
	registry *Registry
}

func NewHub(registry *Registry) *Hub {
	return &Hub{registry: registry}
}

func (h *Hub) Broadcast(campaignID uuid.UUID, event ServerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Error marshaling %s event for campaign %s: %v", event.Type, campaignID, err)
		return
	}

	for _, conn := range h.registry.Snapshot(campaignID) {
		if err := conn.Send(data); err != nil {
			logger.Error("Dropping connection for user %s in campaign %s: %v", conn.Username(), campaignID, err)
			h.registry.Remove(campaignID, conn)
			conn.Close()
		}
	}
}
