package engine

import "mindscreen/internal/model"

var guidance = map[model.Tier][]string{
	model.TierUrgent: {
		"Seek help from a mental health professional as soon as possible",
		"Discuss combining medication with counseling with a psychiatrist",
		"Set up a 24-hour contact channel with someone you trust",
	},
	model.TierModerate: {
		"Schedule regular sessions with a counselor",
		"Practice cognitive behavioral techniques for negative thoughts",
		"Keep a steady daily routine and exercise regularly",
	},
	model.TierMild: {
		"Use self-regulation and relaxation exercises when stress builds up",
		"Reach out to friends and family for support",
		"Try a short daily mindfulness practice",
	},
	model.TierMinimal: {
		"Keep up your healthy sleep, diet and activity habits",
		"Check in on your mood periodically with a self-assessment",
		"Make time for hobbies you enjoy",
	},
}

// TierFor picks the guidance tier for a risk level
func TierFor(riskLevel int, p Params) model.Tier {
	switch {
	case riskLevel >= p.Tiers.Urgent:
		return model.TierUrgent
	case riskLevel >= p.Tiers.Moderate:
		return model.TierModerate
	case riskLevel >= p.Tiers.Mild:
		return model.TierMild
	default:
		return model.TierMinimal
	}
}

// Recommend returns the three guidance items for a risk level, in order
func Recommend(riskLevel int, p Params) []string {
	items := guidance[TierFor(riskLevel, p)]
	out := make([]string, len(items))
	copy(out, items)
	return out
}
