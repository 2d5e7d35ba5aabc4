package handler

import (
	"encoding/json"
	"net/http"

	"mindscreen/internal/model"
	"mindscreen/internal/service"
)

type dialogueRequest struct {
	Query               string              `json:"query"`
	ConversationHistory []model.ChatMessage `json:"conversation_history"`
	AssessmentType      string              `json:"assessment_type"`
}

// DialogueHandler handles screening dialogue turns
type DialogueHandler struct {
	composer *service.ReportComposer
}

// NewDialogueHandler creates a new dialogue handler
func NewDialogueHandler(composer *service.ReportComposer) *DialogueHandler {
	return &DialogueHandler{composer: composer}
}

// Turn handles POST /v1/dialogue/turn
func (h *DialogueHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var req dialogueRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp, err := h.composer.ComposeDialogueTurn(r.Context(), model.DialogueInput{
		Query:          req.Query,
		History:        req.ConversationHistory,
		AssessmentType: req.AssessmentType,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
