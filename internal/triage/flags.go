package triage

import (
	"strings"

	"github.com/andessalud/triaje/internal/normalize"
)

// ExtractFlags scans the patient's symptom and history text for each
// flag's phrase list. Both inputs are folded to lowercase ASCII first,
// and history participates in every scan; the rule table decides which
// flags matter for which segment. Recomputed fresh per request.
func ExtractFlags(symptoms, history string) SymptomFlags {
	text := normalize.Fold(symptoms)
	if h := normalize.Fold(history); h != "" {
		text += " " + h
	}
	return SymptomFlags{
		PostOperative:       containsAny(text, postOperativeKeywords),
		SignificantBleeding: containsAny(text, significantBleedingKeywords),
		HighFever:           containsAny(text, highFeverKeywords),
		BreathingDifficulty: containsAny(text, breathingDifficultyKeywords),
		SeverePain:          containsAny(text, severePainKeywords),
		WoundInfectionSigns: containsAny(text, woundInfectionKeywords),
		FeedingProblems:     containsAny(text, feedingProblemsKeywords),
		SpeechProblems:      containsAny(text, speechProblemsKeywords),
		EarSigns:            containsAny(text, earSignsKeywords),
		EmotionalImpact:     containsAny(text, emotionalImpactKeywords),
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
