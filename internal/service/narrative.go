package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mindscreen/internal/config"
	"mindscreen/internal/model"
)

// NarrativePurpose selects the model and failure policy of a generation call
type NarrativePurpose string

const (
	PurposeReport   NarrativePurpose = "report"
	PurposeDialogue NarrativePurpose = "dialogue"
)

// NarrativeRequest is a structured prompt for the text generator
type NarrativeRequest struct {
	Purpose  NarrativePurpose
	System   string
	Messages []model.ChatMessage
}

// Narrative is the generator's reply
type Narrative struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// NarrativeGenerator turns a prompt into human-readable text. Implementations do not retry.
type NarrativeGenerator interface {
	Generate(ctx context.Context, req NarrativeRequest) (*Narrative, error)
}

// NewNarrativeGenerator picks the implementation named by cfg.Provider
func NewNarrativeGenerator(cfg *config.AIConfig) NarrativeGenerator {
	if cfg.IsMock() {
		return &MockGenerator{}
	}
	return NewGeminiGenerator(cfg)
}

// GeminiGenerator calls the Gemini generateContent API
type GeminiGenerator struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiGenerator creates a Gemini-backed generator
func NewGeminiGenerator(cfg *config.AIConfig) *GeminiGenerator {
	return &GeminiGenerator{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

func (g *GeminiGenerator) modelFor(purpose NarrativePurpose) string {
	if purpose == PurposeDialogue {
		return g.config.Models.Dialogue
	}
	return g.config.Models.Report
}

// Generate fails fast with ErrGeneratorNotConfigured when no API key is set
func (g *GeminiGenerator) Generate(ctx context.Context, req NarrativeRequest) (*Narrative, error) {
	if !g.config.IsEnabled() {
		return nil, ErrGeneratorNotConfigured
	}
	modelName := g.modelFor(req.Purpose)

	contents := make([]map[string]interface{}, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, map[string]interface{}{
			"role":  role,
			"parts": []map[string]string{{"text": m.Content}},
		})
	}
	reqBody := map[string]interface{}{
		"contents": contents,
	}
	if req.System != "" {
		reqBody["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]string{{"text": req.System}},
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", g.config.ModelEndpoint(modelName), g.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, string(body))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		var sb strings.Builder
		for _, p := range geminiResp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return &Narrative{Text: text, Model: modelName}, nil
		}
	}

	return nil, fmt.Errorf("empty response from Gemini")
}

// MockGenerator is the offline generator used when ai.provider is "mock"
type MockGenerator struct{}

func (MockGenerator) Generate(ctx context.Context, req NarrativeRequest) (*Narrative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	last := ""
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	if req.Purpose == PurposeDialogue {
		return &Narrative{
			Text:  "Thank you for sharing that. Could you tell me a little more about how this has affected your days recently?",
			Model: "mock",
		}, nil
	}
	firstLine, _, _ := strings.Cut(last, "\n")
	return &Narrative{
		Text:  "Mock report - enable Gemini for a written summary. " + firstLine,
		Model: "mock",
	}, nil
}
