package triage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/prometheus/client_golang/prometheus"
)

// recordingRefiner captures what the service asks of the collaborator.
type recordingRefiner struct {
	mu         sync.Mutex
	corrected  []string
	rephrased  []Recommendation
	rephraseTo string
}

func (r *recordingRefiner) Correct(_ context.Context, text string) Correction {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corrected = append(r.corrected, text)
	return Correction{Corrected: text, Suggestion: text, Explanation: "Sin cambios."}
}

func (r *recordingRefiner) Rephrase(_ context.Context, rec Recommendation, _ PatientInput, _ AgeSegment) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rephrased = append(r.rephrased, rec)
	if r.rephraseTo != "" {
		return r.rephraseTo
	}
	return rec.Text
}

func (r *recordingRefiner) counts() (corrects, rephrases int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.corrected), len(r.rephrased)
}

// chanNotifier hands each sent result to a channel so tests can wait for
// the async delivery.
type chanNotifier struct {
	ch  chan *Result
	err error
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan *Result, 1)}
}

func (n *chanNotifier) Send(_ context.Context, r *Result) error {
	n.ch <- r
	return n.err
}

func boolPtr(b bool) *bool { return &b }

func TestRecommend_RoutineWithEchoRefiner(t *testing.T) {
	t.Parallel()

	svc := NewService(EchoRefiner{}, nil, log.Nop(), Hooks{}, Texts{}, false)

	in := PatientInput{Age: 30, Symptoms: "viene a control, sin molestias"}
	res := svc.Recommend(context.Background(), in, nil)

	if res.ID == "" {
		t.Error("expected non-empty consultation ID")
	}
	if res.Segment != SegmentAdult {
		t.Errorf("segment = %q, want %q", res.Segment, SegmentAdult)
	}
	if res.Recommendation.RuleID != RuleRoutine {
		t.Errorf("rule = %q, want %q", res.Recommendation.RuleID, RuleRoutine)
	}
	if res.Correction.Corrected != in.Symptoms {
		t.Errorf("corrected = %q, want echoed input", res.Correction.Corrected)
	}
	if res.Correction.Fallback {
		t.Error("echo refiner output must not be marked as a fallback")
	}
	if res.Rephrased {
		t.Error("expected Rephrased = false without IA")
	}
	if res.Elapsed <= 0 {
		t.Error("expected positive elapsed time")
	}
}

func TestRecommend_CorrectRunsEvenWithoutIA(t *testing.T) {
	t.Parallel()

	ref := &recordingRefiner{}
	svc := NewService(ref, nil, log.Nop(), Hooks{}, Texts{}, false)

	svc.Recommend(context.Background(), PatientInput{Age: 9, Symptoms: "dolor de oído"}, nil)

	corrects, rephrases := ref.counts()
	if corrects != 1 {
		t.Errorf("Correct calls = %d, want 1", corrects)
	}
	if rephrases != 0 {
		t.Errorf("Rephrase calls = %d, want 0", rephrases)
	}
}

func TestRecommend_UseIAOverridesDefault(t *testing.T) {
	t.Parallel()

	// Default off, request opts in.
	ref := &recordingRefiner{rephraseTo: "versión reescrita para el cuidador"}
	svc := NewService(ref, nil, log.Nop(), Hooks{}, Texts{}, false)

	res := svc.Recommend(context.Background(), PatientInput{Age: 30, Symptoms: "control"}, boolPtr(true))

	if _, rephrases := ref.counts(); rephrases != 1 {
		t.Fatalf("Rephrase calls = %d, want 1", rephrases)
	}
	if res.Recommendation.Text != "versión reescrita para el cuidador" {
		t.Errorf("text = %q, want rephrased text", res.Recommendation.Text)
	}
	if !res.Rephrased {
		t.Error("expected Rephrased = true")
	}

	// Default on, request opts out.
	ref = &recordingRefiner{rephraseTo: "no debería verse"}
	svc = NewService(ref, nil, log.Nop(), Hooks{}, Texts{}, true)

	res = svc.Recommend(context.Background(), PatientInput{Age: 30, Symptoms: "control"}, boolPtr(false))

	if _, rephrases := ref.counts(); rephrases != 0 {
		t.Errorf("Rephrase calls = %d, want 0", rephrases)
	}
	if res.Rephrased {
		t.Error("expected Rephrased = false")
	}
}

func TestRecommend_DefaultIAApplied(t *testing.T) {
	t.Parallel()

	ref := &recordingRefiner{rephraseTo: "texto reescrito"}
	svc := NewService(ref, nil, log.Nop(), Hooks{}, Texts{}, true)

	res := svc.Recommend(context.Background(), PatientInput{Age: 30, Symptoms: "control"}, nil)

	if _, rephrases := ref.counts(); rephrases != 1 {
		t.Errorf("Rephrase calls = %d, want 1", rephrases)
	}
	if !res.Rephrased {
		t.Error("expected Rephrased = true under defaultIA")
	}
}

func TestRecommend_UnchangedRephraseNotMarked(t *testing.T) {
	t.Parallel()

	// A rephrase that returns the rule text verbatim (the refiner fallback
	// path) must not claim the text was rewritten.
	svc := NewService(EchoRefiner{}, nil, log.Nop(), Hooks{}, Texts{}, true)

	res := svc.Recommend(context.Background(), PatientInput{Age: 30, Symptoms: "control"}, nil)

	if res.Rephrased {
		t.Error("expected Rephrased = false when output equals rule text")
	}
	if res.Recommendation.Text != DefaultTexts().Routine {
		t.Errorf("text = %q, want default routine text", res.Recommendation.Text)
	}
}

func TestRecommend_EmergencyNotifies(t *testing.T) {
	t.Parallel()

	notifier := newChanNotifier()
	svc := NewService(EchoRefiner{}, notifier, log.Nop(), Hooks{}, Texts{}, false)

	in := PatientInput{Age: 8, Symptoms: "fue operado hace 5 días y tiene fiebre alta"}
	res := svc.Recommend(context.Background(), in, nil)

	if !res.Recommendation.Emergency {
		t.Fatal("expected emergency recommendation")
	}

	select {
	case got := <-notifier.ch:
		if got.ID != res.ID {
			t.Errorf("notified ID = %q, want %q", got.ID, res.ID)
		}
		if got.Recommendation.RuleID != RulePostOpEmergency {
			t.Errorf("notified rule = %q, want %q", got.Recommendation.RuleID, RulePostOpEmergency)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called within deadline")
	}
}

func TestRecommend_NoNotifyWithoutEmergency(t *testing.T) {
	t.Parallel()

	notifier := newChanNotifier()
	svc := NewService(EchoRefiner{}, notifier, log.Nop(), Hooks{}, Texts{}, false)

	svc.Recommend(context.Background(), PatientInput{Age: 30, Symptoms: "control"}, nil)

	select {
	case <-notifier.ch:
		t.Fatal("notifier called for a non-emergency recommendation")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRecommend_NotifierErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	notifier := newChanNotifier()
	notifier.err = errors.New("webhook down")
	svc := NewService(EchoRefiner{}, notifier, log.Nop(), Hooks{}, Texts{}, false)

	res := svc.Recommend(context.Background(), PatientInput{Age: 8, Symptoms: "operado y sangrado abundante"}, nil)

	if !res.Recommendation.Emergency {
		t.Fatal("expected emergency recommendation")
	}

	// Delivery failure is logged, never surfaced to the caller.
	select {
	case <-notifier.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called within deadline")
	}
}

func TestRecommend_CompleteHook(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		events []*CompleteEvent
	)
	hooks := Hooks{OnComplete: func(e *CompleteEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}}

	svc := NewService(EchoRefiner{}, nil, log.Nop(), hooks, Texts{}, false)
	svc.Recommend(context.Background(), PatientInput{Age: 1, Symptoms: "no quiere comer"}, nil)

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("complete events = %d, want 1", len(events))
	}
	e := events[0]
	if e.RuleID != RuleInfantFeeding {
		t.Errorf("event rule = %q, want %q", e.RuleID, RuleInfantFeeding)
	}
	if e.Segment != SegmentInfant {
		t.Errorf("event segment = %q, want %q", e.Segment, SegmentInfant)
	}
	if e.Emergency {
		t.Error("event emergency = true, want false")
	}
	if e.Duration <= 0 {
		t.Error("expected positive event duration")
	}
}

func TestRecommend_NilRefinerFallsBackToEcho(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, nil, nil, Hooks{}, Texts{}, false)

	res := svc.Recommend(context.Background(), PatientInput{Age: 30, Symptoms: "control"}, nil)

	if res.Correction.Corrected != "control" {
		t.Errorf("corrected = %q, want echoed input", res.Correction.Corrected)
	}
}

func TestMetricsHooks(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()

	hooks.OnLLMCall(opCorrect, "success", 120, 40, 0.8)
	hooks.OnLLMCall(opRephrase, "error", 0, 0, 5.0)
	hooks.OnFallback(opRephrase, reasonLLMError)
	hooks.OnComplete(&CompleteEvent{
		RuleID:    RulePostOpEmergency,
		Segment:   SegmentSchoolAge,
		Emergency: true,
		Duration:  1.2,
	})

	fams, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	got := make(map[string]bool, len(fams))
	for _, mf := range fams {
		got[mf.GetName()] = true
	}

	for _, name := range []string{
		"triaje_recommendations_total",
		"triaje_emergencies_total",
		"triaje_evaluation_duration_seconds",
		"triaje_llm_calls_total",
		"triaje_llm_call_duration_seconds",
		"triaje_llm_tokens_input_total",
		"triaje_llm_tokens_output_total",
		"triaje_llm_fallbacks_total",
	} {
		if !got[name] {
			t.Errorf("metric family %q not gathered", name)
		}
	}
}
