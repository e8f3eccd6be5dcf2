package handlers

import (
	"net/http"

	"campaign-app/internal/dice"
)

type DiceHandlers struct{}

func NewDiceHandlers() *DiceHandlers {
	return &DiceHandlers{}
}

type rollRequest struct {
	Expression string `json:"expression" validate:"required"`
}

type multiRollRequest struct {
	Expressions []string `json:"expressions" validate:"required,min=1"`
}

func (h *DiceHandlers) Roll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := dice.Roll(req.Expression)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *DiceHandlers) RollMultiple(w http.ResponseWriter, r *http.Request) {
	var req multiRollRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := dice.RollMultiple(req.Expressions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, results)
}
