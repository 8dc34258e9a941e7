package ai

import "github.com/soundfloor/crowdmix/backend/internal/model/session"

// cannedPhrases backs the suggestion endpoint when no model is configured or
// the call fails. One fixed phrase per category keeps the fallback
// deterministic.
var cannedPhrases = map[session.Category]string{
	session.CategoryTempo:           "Try 128 BPM for a danceable groove",
	session.CategoryMood:            "Energetic and uplifting",
	session.CategoryLyrics:          "Rise up and feel the beat",
	session.CategoryInstrumentation: "Add a synth pad for depth",
	session.CategoryOther:           "Build tension with a riser",
}

// Fallback returns the canned phrase for the category, defaulting to the
// catch-all category for anything unknown.
func Fallback(category session.Category) string {
	if phrase, ok := cannedPhrases[category]; ok {
		return phrase
	}
	return cannedPhrases[session.CategoryOther]
}
