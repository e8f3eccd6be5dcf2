package handlers

import (
	"net/http"

	"campaign-app/internal/models"
	"campaign-app/internal/services"

	"github.com/google/uuid"
)

type CampaignHandlers struct {
	campaignService *services.CampaignService
}

func NewCampaignHandlers(campaignService *services.CampaignService) *CampaignHandlers {
	return &CampaignHandlers{
		campaignService: campaignService,
	}
}

func (h *CampaignHandlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	campaign, err := h.campaignService.CreateCampaign(r.Context(), &req, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

func (h *CampaignHandlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaigns, err := h.campaignService.ListCampaigns(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, campaigns)
}

func (h *CampaignHandlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	campaign, err := h.campaignService.GetCampaign(r.Context(), campaignID, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandlers) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateCampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(r.Context(), campaignID, user.ID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandlers) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	if err := h.campaignService.DeleteCampaign(r.Context(), campaignID, user.ID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandlers) AddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	var req models.AddMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.campaignService.AddMember(r.Context(), campaignID, user.ID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *CampaignHandlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	memberID, err := pathUUID(r, "userID")
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.campaignService.RemoveMember(r.Context(), campaignID, user.ID, memberID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandlers) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	campaignID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}

	memberID, err := pathUUID(r, "userID")
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateMemberRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.campaignService.UpdateMemberRole(r.Context(), campaignID, user.ID, memberID, req.Role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}
