package triage

// Rule identifiers, stable across deployments. They label log lines,
// metrics and notifications; the prose shown to callers lives in Texts.
const (
	RulePostOpEmergency = "emergencia_posoperatoria"
	RuleInfantFeeding   = "alimentacion_lactante"
	RuleSpeechHearing   = "habla_audicion"
	RulePsychosocial    = "apoyo_psicosocial"
	RuleRoutine         = "control_rutina"
)

// Texts carries the recommendation prose for each rule. Wording is
// deployment-configurable; rule order and conditions are not.
type Texts struct {
	Emergency    string
	Feeding      string
	Speech       string
	Psychosocial string
	Routine      string
}

// DefaultTexts returns the stock Spanish recommendations.
func DefaultTexts() Texts {
	return Texts{
		Emergency:    "Acudir de inmediato al servicio de urgencias: los signos descritos después de la cirugía requieren valoración presencial urgente por el equipo quirúrgico.",
		Feeding:      "Agendar valoración prioritaria presencial con nutrición y fonoaudiología para evaluar la alimentación del lactante.",
		Speech:       "Derivar a evaluación interdisciplinaria de habla y audición (fonoaudiología y otorrinolaringología) dentro del programa de seguimiento.",
		Psychosocial: "Derivar a valoración por psicología y trabajo social para acompañamiento emocional dentro del equipo interdisciplinario.",
		Routine:      "Continuar con los controles programados del equipo interdisciplinario y consultar ante cualquier cambio o síntoma nuevo.",
	}
}

// withDefaults fills empty fields from DefaultTexts so the engine can
// never emit an empty recommendation.
func (t Texts) withDefaults() Texts {
	d := DefaultTexts()
	if t.Emergency == "" {
		t.Emergency = d.Emergency
	}
	if t.Feeding == "" {
		t.Feeding = d.Feeding
	}
	if t.Speech == "" {
		t.Speech = d.Speech
	}
	if t.Psychosocial == "" {
		t.Psychosocial = d.Psychosocial
	}
	if t.Routine == "" {
		t.Routine = d.Routine
	}
	return t
}

// rule is one row of the decision table.
type rule struct {
	id        string
	priority  int
	emergency bool
	matches   func(seg AgeSegment, f SymptomFlags) bool
	text      func(t Texts) string
}

// ruleTable is evaluated top to bottom; the first match wins and the
// routine rule at the bottom has no condition, so evaluation is total.
var ruleTable = []rule{
	{
		id:        RulePostOpEmergency,
		priority:  1,
		emergency: true,
		matches: func(_ AgeSegment, f SymptomFlags) bool {
			return f.PostOperative &&
				(f.SignificantBleeding || f.HighFever || f.BreathingDifficulty || f.SeverePain || f.WoundInfectionSigns)
		},
		text: func(t Texts) string { return t.Emergency },
	},
	{
		id:       RuleInfantFeeding,
		priority: 2,
		matches: func(seg AgeSegment, f SymptomFlags) bool {
			return seg == SegmentInfant && f.FeedingProblems
		},
		text: func(t Texts) string { return t.Feeding },
	},
	{
		id:       RuleSpeechHearing,
		priority: 3,
		matches: func(seg AgeSegment, f SymptomFlags) bool {
			switch seg {
			case SegmentEarlyChildhood, SegmentSchoolAge, SegmentAdolescent:
				return f.SpeechProblems || f.EarSigns
			default:
				return false
			}
		},
		text: func(t Texts) string { return t.Speech },
	},
	{
		id:       RulePsychosocial,
		priority: 4,
		matches: func(seg AgeSegment, f SymptomFlags) bool {
			return (seg == SegmentAdolescent || seg == SegmentAdult) && f.EmotionalImpact
		},
		text: func(t Texts) string { return t.Psychosocial },
	},
	{
		id:       RuleRoutine,
		priority: 5,
		matches:  func(AgeSegment, SymptomFlags) bool { return true },
		text:     func(t Texts) string { return t.Routine },
	},
}

// Evaluate walks the rule table in priority order and returns the first
// matching recommendation. Pure and total: identical inputs yield
// identical output, and exactly one of the five rules always fires.
func Evaluate(seg AgeSegment, flags SymptomFlags, texts Texts) Recommendation {
	texts = texts.withDefaults()
	for _, r := range ruleTable {
		if r.matches(seg, flags) {
			return Recommendation{
				RuleID:    r.id,
				Priority:  r.priority,
				Text:      r.text(texts),
				Emergency: r.emergency,
			}
		}
	}
	// The routine rule above has no condition; reaching this line means
	// the table itself was broken by an edit.
	panic("triage: rule table exhausted without a match")
}
