package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mindscreen/internal/model"
	"mindscreen/internal/service"
)

// analysisKeys maps request fields onto modalities
var analysisKeys = map[string]model.Modality{
	"text_analysis":  model.ModalityText,
	"image_analysis": model.ModalityImage,
	"voice_analysis": model.ModalityVoice,
	"video_analysis": model.ModalityVideo,
}

type analysisRequest struct {
	EmotionScore *float64 `json:"emotion_score"`
}

// FusionHandler handles multimodal fusion rounds
type FusionHandler struct {
	composer *service.ReportComposer
}

// NewFusionHandler creates a new fusion handler
func NewFusionHandler(composer *service.ReportComposer) *FusionHandler {
	return &FusionHandler{composer: composer}
}

// Fuse handles POST /v1/fusion
func (h *FusionHandler) Fuse(w http.ResponseWriter, r *http.Request) {
	in, err := parseFusionRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.composer.ComposeFusion(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseFusionRequest rejects unknown top-level fields. An analysis that is
// missing, null or has no emotion_score leaves its modality inactive.
func parseFusionRequest(body io.Reader) (model.FusionInput, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return model.FusionInput{}, fmt.Errorf("%w: invalid request body", service.ErrInvalidRequest)
	}

	in := model.FusionInput{Scores: model.ScoreSet{}}
	for key, value := range raw {
		switch key {
		case "user_id":
			if err := json.Unmarshal(value, &in.UserID); err != nil {
				return in, fmt.Errorf("%w: user_id must be a string", service.ErrInvalidRequest)
			}
			continue
		case "assessment_id":
			if err := json.Unmarshal(value, &in.AssessmentID); err != nil {
				return in, fmt.Errorf("%w: assessment_id must be a string", service.ErrInvalidRequest)
			}
			continue
		}

		m, ok := analysisKeys[key]
		if !ok {
			return in, fmt.Errorf("%w: unknown field %q", service.ErrInvalidRequest, key)
		}
		var a *analysisRequest
		if err := json.Unmarshal(value, &a); err != nil {
			return in, fmt.Errorf("%w: %s must be an object with a numeric emotion_score", service.ErrInvalidRequest, key)
		}
		if a == nil || a.EmotionScore == nil {
			continue
		}
		score, err := model.ValidateScore(*a.EmotionScore)
		if err != nil {
			return in, fmt.Errorf("%s: %w", key, err)
		}
		in.Scores[m] = score
	}
	return in, nil
}
