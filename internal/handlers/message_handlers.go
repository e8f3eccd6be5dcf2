package handlers

import (
	"net/http"
	"strconv"

	"campaign-app/internal/models"
	"campaign-app/internal/services"
)

type MessageHandlers struct {
	messageService *services.MessageService
}

func NewMessageHandlers(messageService *services.MessageService) *MessageHandlers {
	return &MessageHandlers{
		messageService: messageService,
	}
}

func (h *MessageHandlers) CreateMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	var req models.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.CreateMessage(r.Context(), campaignID, user, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, err := h.messageService.ListMessages(r.Context(), campaignID, user.ID, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandlers) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	messageID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid message ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.UpdateMessage(r.Context(), messageID, user.ID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

func (h *MessageHandlers) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	messageID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid message ID", http.StatusBadRequest)
		return
	}

	if err := h.messageService.DeleteMessage(r.Context(), messageID, user.ID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
