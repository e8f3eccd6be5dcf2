package handlers

import (
	"net/http"
	"strconv"

	"campaign-app/internal/models"
	"campaign-app/internal/services"
)

type CompendiumHandlers struct {
	compendiumService *services.CompendiumService
}

func NewCompendiumHandlers(compendiumService *services.CompendiumService) *CompendiumHandlers {
	return &CompendiumHandlers{
		compendiumService: compendiumService,
	}
}

func (h *CompendiumHandlers) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := &models.CompendiumListParams{
		Type:   q.Get("type"),
		System: q.Get("system"),
		Query:  q.Get("query"),
	}
	if raw := q.Get("is_official"); raw != "" {
		official, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid is_official value", http.StatusBadRequest)
			return
		}
		params.IsOfficial = &official
	}
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	list, err := h.compendiumService.ListItems(r.Context(), params)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *CompendiumHandlers) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := h.compendiumService.GetItem(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *CompendiumHandlers) GetChildren(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	children, err := h.compendiumService.GetChildren(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, children)
}

func (h *CompendiumHandlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCompendiumItemRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.compendiumService.CreateItem(r.Context(), &req, user)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *CompendiumHandlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateCompendiumItemRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.compendiumService.UpdateItem(r.Context(), id, &req, user)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *CompendiumHandlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	if err := h.compendiumService.DeleteItem(r.Context(), id, user); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
