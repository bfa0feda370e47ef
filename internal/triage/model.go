package triage

import "time"

// AgeSegment is the life-stage bucket the rule table branches on.
type AgeSegment string

const (
	// SegmentInfant covers ages 0 and 1.
	SegmentInfant AgeSegment = "infant"

	// SegmentEarlyChildhood covers ages 2 through 5.
	SegmentEarlyChildhood AgeSegment = "early_childhood"

	// SegmentSchoolAge covers ages 6 through 12.
	SegmentSchoolAge AgeSegment = "school_age"

	// SegmentAdolescent covers ages 13 through 17.
	SegmentAdolescent AgeSegment = "adolescent"

	// SegmentAdult covers ages 18 and up.
	SegmentAdult AgeSegment = "adult"
)

// PatientInput is one consultation's input. Built per request, never stored.
type PatientInput struct {
	Age      int
	Symptoms string
	History  string
}

// SymptomFlags is the fixed set of booleans derived from keyword scans
// over the patient's folded symptom and history text.
type SymptomFlags struct {
	PostOperative       bool
	SignificantBleeding bool
	HighFever           bool
	BreathingDifficulty bool
	SeverePain          bool
	WoundInfectionSigns bool
	FeedingProblems     bool
	SpeechProblems      bool
	EarSigns            bool
	EmotionalImpact     bool
}

// Active returns the names of the set flags in declaration order.
func (f SymptomFlags) Active() []string {
	var names []string
	for _, e := range []struct {
		name string
		set  bool
	}{
		{"post_operative", f.PostOperative},
		{"significant_bleeding", f.SignificantBleeding},
		{"high_fever", f.HighFever},
		{"breathing_difficulty", f.BreathingDifficulty},
		{"severe_pain", f.SeverePain},
		{"wound_infection_signs", f.WoundInfectionSigns},
		{"feeding_problems", f.FeedingProblems},
		{"speech_problems", f.SpeechProblems},
		{"ear_signs", f.EarSigns},
		{"emotional_impact", f.EmotionalImpact},
	} {
		if e.set {
			names = append(names, e.name)
		}
	}
	return names
}

// Any reports whether at least one flag is set.
func (f SymptomFlags) Any() bool {
	return f != SymptomFlags{}
}

// Recommendation is the rule engine's verdict for one evaluation.
type Recommendation struct {
	RuleID    string
	Priority  int
	Text      string
	Emergency bool
}

// Correction is the collaborator's cleanup of the symptom text. When the
// collaborator fails, the original text is echoed and Fallback records why.
type Correction struct {
	Corrected      string
	Suggestion     string
	Explanation    string
	Fallback       bool
	FallbackReason string
}

// Result is the outcome of one full evaluation.
type Result struct {
	ID             string
	Input          PatientInput
	Segment        AgeSegment
	Flags          SymptomFlags
	Recommendation Recommendation
	Correction     Correction
	Rephrased      bool
	Elapsed        time.Duration
}
