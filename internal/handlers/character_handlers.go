package handlers

import (
	"net/http"

	"campaign-app/internal/models"
	"campaign-app/internal/services"

	"github.com/google/uuid"
)

type CharacterHandlers struct {
	characterService *services.CharacterService
}

func NewCharacterHandlers(characterService *services.CharacterService) *CharacterHandlers {
	return &CharacterHandlers{
		characterService: characterService,
	}
}

func (h *CharacterHandlers) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCharacterRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	character, err := h.characterService.CreateCharacter(r.Context(), &req, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, character)
}

func (h *CharacterHandlers) ListCharacters(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var campaignID *uuid.UUID
	if raw := r.URL.Query().Get("campaign_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid campaign ID", http.StatusBadRequest)
			return
		}
		campaignID = &id
	}

	characters, err := h.characterService.ListCharacters(r.Context(), user.ID, campaignID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, characters)
}

func (h *CharacterHandlers) GetCharacter(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	characterID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid character ID", http.StatusBadRequest)
		return
	}

	character, err := h.characterService.GetCharacter(r.Context(), characterID, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, character)
}

func (h *CharacterHandlers) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	characterID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid character ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateCharacterRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	character, err := h.characterService.UpdateCharacter(r.Context(), characterID, user.ID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, character)
}

func (h *CharacterHandlers) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	characterID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid character ID", http.StatusBadRequest)
		return
	}

	if err := h.characterService.DeleteCharacter(r.Context(), characterID, user.ID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
