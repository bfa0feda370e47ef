package triage

import (
	"reflect"
	"testing"
)

func TestExtractFlags_PerFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		symptoms string
		want     SymptomFlags
	}{
		{
			name:     "post operative accented",
			symptoms: "Tuvo una Cirugía hace una semana",
			want:     SymptomFlags{PostOperative: true},
		},
		{
			name:     "post operative participle",
			symptoms: "fue operada el mes pasado",
			want:     SymptomFlags{PostOperative: true},
		},
		{
			name:     "significant bleeding uppercase",
			symptoms: "presenta HEMORRAGIA en la zona",
			want:     SymptomFlags{SignificantBleeding: true},
		},
		{
			name:     "high fever with degrees",
			symptoms: "tiene fiebre de 39 grados desde ayer",
			want:     SymptomFlags{HighFever: true},
		},
		{
			name:     "breathing difficulty",
			symptoms: "le cuesta respirar cuando duerme",
			want:     SymptomFlags{BreathingDifficulty: true},
		},
		{
			name:     "severe pain",
			symptoms: "se queja de dolor fuerte de cabeza",
			want:     SymptomFlags{SeverePain: true},
		},
		{
			name:     "wound infection",
			symptoms: "sale pus de la herida",
			want:     SymptomFlags{WoundInfectionSigns: true},
		},
		{
			name:     "feeding problems",
			symptoms: "no quiere comer y no gana peso",
			want:     SymptomFlags{FeedingProblems: true},
		},
		{
			name:     "speech problems",
			symptoms: "tiene habla nasal y no se le entiende",
			want:     SymptomFlags{SpeechProblems: true},
		},
		{
			name:     "ear signs accented",
			symptoms: "Dolor de Oído desde anoche",
			want:     SymptomFlags{EarSigns: true},
		},
		{
			name:     "emotional impact diaeresis",
			symptoms: "siente vergüenza de su voz",
			want:     SymptomFlags{EmotionalImpact: true},
		},
		{
			name:     "emotional impact only",
			symptoms: "se siente triste por las burlas en el colegio",
			want:     SymptomFlags{EmotionalImpact: true},
		},
		{
			name:     "routine check trips nothing",
			symptoms: "viene a control de rutina, sin molestias",
			want:     SymptomFlags{},
		},
		{
			name:     "empty input",
			symptoms: "",
			want:     SymptomFlags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractFlags(tt.symptoms, "")
			if got != tt.want {
				t.Errorf("ExtractFlags(%q) = %+v, want %+v", tt.symptoms, got, tt.want)
			}
		})
	}
}

func TestExtractFlags_CombinesSymptomsAndHistory(t *testing.T) {
	t.Parallel()

	got := ExtractFlags("dolor leve en la mejilla", "operado de paladar hace tres días")
	if !got.PostOperative {
		t.Error("expected history text to set PostOperative")
	}
	if got.SeverePain {
		t.Error("mild pain should not set SeverePain")
	}
}

func TestExtractFlags_SubstringInsideWord(t *testing.T) {
	t.Parallel()

	// Matching is plain containment, so a phrase inside a longer word counts.
	got := ExtractFlags("está preocupado por la operación pendiente", "")
	if !got.PostOperative {
		t.Error("expected substring match inside longer sentence to set PostOperative")
	}
}

func TestExtractFlags_MultipleFlags(t *testing.T) {
	t.Parallel()

	got := ExtractFlags("fue operado hace 5 días y tiene fiebre alta con dolor intenso", "")
	want := SymptomFlags{PostOperative: true, HighFever: true, SeverePain: true}
	if got != want {
		t.Errorf("flags = %+v, want %+v", got, want)
	}
	if !got.Any() {
		t.Error("Any() = false with three flags set")
	}
}

func TestSymptomFlags_Active(t *testing.T) {
	t.Parallel()

	f := SymptomFlags{PostOperative: true, HighFever: true, EmotionalImpact: true}
	want := []string{"post_operative", "high_fever", "emotional_impact"}
	if got := f.Active(); !reflect.DeepEqual(got, want) {
		t.Errorf("Active() = %v, want %v", got, want)
	}

	if got := (SymptomFlags{}).Active(); len(got) != 0 {
		t.Errorf("Active() on zero value = %v, want empty", got)
	}
	if (SymptomFlags{}).Any() {
		t.Error("Any() = true on zero value")
	}
}
