package engine

import "mindscreen/internal/model"

var stageDirectives = map[model.Stage]string{
	model.StageOpening:     "Introduce the purpose of this check-in and ask about the person's general state over the past two weeks.",
	model.StageExploration: "Pick one or two core dimensions suggested by the previous answer (mood, interest, sleep, energy, self-worth, concentration) and probe them.",
	model.StageDeepDive:    "Focus on whatever difficulty the person raised; explore its concrete manifestations and its impact on daily life.",
	model.StageSummary:     "Synthesize what has been shared so far, offer a preliminary reflection, and ask whether anything important is missing.",
}

// Directive returns the instruction handed to the narrative generator for a stage
func Directive(s model.Stage) string {
	return stageDirectives[s]
}

// StageFor classifies a dialogue by how many messages it holds.
// The stage only moves forward as the history grows.
func StageFor(messageCount int, p Params) model.ConversationState {
	if messageCount < 0 {
		messageCount = 0
	}
	var stage model.Stage
	switch {
	case messageCount == 0:
		stage = model.StageOpening
	case messageCount < p.Stages.DeepDiveAt:
		stage = model.StageExploration
	case messageCount < p.Stages.SummaryAt:
		stage = model.StageDeepDive
	default:
		stage = model.StageSummary
	}
	return model.ConversationState{
		MessageCount: messageCount,
		Stage:        stage,
		Directive:    Directive(stage),
	}
}
