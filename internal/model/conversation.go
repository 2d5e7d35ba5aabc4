package model

// Stage is the phase of a progressive screening dialogue
type Stage string

const (
	StageOpening     Stage = "opening"
	StageExploration Stage = "exploration"
	StageDeepDive    Stage = "deep_dive"
	StageSummary     Stage = "summary"
)

// ChatMessage is one turn of the accumulated dialogue history
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ConversationState is derived from the history on every turn, never stored
type ConversationState struct {
	MessageCount int    `json:"messageCount"`
	Stage        Stage  `json:"stage"`
	Directive    string `json:"directive"`
}
