package service

import (
	"fmt"
	"strings"

	"mindscreen/internal/engine"
	"mindscreen/internal/knowledge"
	"mindscreen/internal/model"
)

const reportSystemPrompt = `You are a mental-health screening assistant writing a short report for a clinician.
Summarize the multimodal screening result in plain language in at most two paragraphs.
Do not diagnose. Do not invent numbers that are not given. Mention which channels contributed.
If the risk level is 8 or higher, open with a clear recommendation to seek professional help today.`

const dialogueSystemPrompt = `You are a warm, careful screening interviewer running a %s assessment.
Ask at most one question per reply and keep replies under 80 words.
Never diagnose. If the user mentions self-harm, encourage them to contact local emergency services.
Current stage: %s. %s`

// buildReportPrompt renders the fusion outcome as the single user message of the report request
func buildReportPrompt(res model.FusionResult, scores model.ScoreSet, recs []string, tier model.Tier) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Composite risk score: %.2f / 10 (risk level %d, %s)\n", res.CompositeScore, res.RiskLevel, tier)
	fmt.Fprintf(&sb, "Channels with signal: %d of %d\n", res.ModalitiesUsed, len(model.Modalities))
	for _, m := range model.Modalities {
		if v, ok := scores.Get(m); ok {
			fmt.Fprintf(&sb, "- %s: %.1f (weight %.2f)\n", m, v, res.Weights[m])
		}
	}
	sb.WriteString("Symptom profile:\n")
	for _, d := range engine.SymptomDimensions() {
		fmt.Fprintf(&sb, "- %s: %.1f\n", d, res.Symptoms[d])
	}
	sb.WriteString("Guidance already given to the user:\n")
	for _, r := range recs {
		fmt.Fprintf(&sb, "- %s\n", r)
	}
	return sb.String()
}

// buildDialogueSystem grounds the interviewer in the current stage and the matched reference snippets
func buildDialogueSystem(assessmentType string, state model.ConversationState, snippets []knowledge.Snippet) string {
	prompt := fmt.Sprintf(dialogueSystemPrompt, assessmentType, state.Stage, state.Directive)
	if len(snippets) == 0 {
		return prompt
	}
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nReference material:\n")
	for _, s := range snippets {
		fmt.Fprintf(&sb, "- %s\n", strings.TrimSpace(s.Text))
	}
	return sb.String()
}
