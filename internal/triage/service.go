package triage

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/andessalud/triaje/internal/triage")

// Hooks observe the evaluation pipeline. Nil fields are skipped; the zero
// value is a valid no-op set.
type Hooks struct {
	// OnLLMCall fires once per provider call with outcome "success" or
	// "error". Tokens are zero on error.
	OnLLMCall func(op, outcome string, tokensIn, tokensOut int, duration float64)

	// OnFallback fires when a refinement operation degrades to its echo
	// behavior.
	OnFallback func(op, reason string)

	// OnComplete fires once per finished evaluation.
	OnComplete func(e *CompleteEvent)
}

// CompleteEvent summarizes one finished evaluation.
type CompleteEvent struct {
	RuleID    string
	Segment   AgeSegment
	Emergency bool
	Rephrased bool
	Duration  float64
}

// Notifier delivers emergency alerts out of band. Implementations must not
// include patient-supplied text in what they send.
type Notifier interface {
	Send(ctx context.Context, r *Result) error
}

// Service is the business boundary for consultations: it segments, scans,
// evaluates, refines and notifies for one patient input at a time.
type Service struct {
	refiner   Refiner
	notifier  Notifier
	logger    log.Logger
	hooks     Hooks
	texts     Texts
	defaultIA bool
}

// NewService creates a consultation service. A nil refiner falls back to
// EchoRefiner and a nil notifier disables emergency notifications.
// defaultIA is the rephrase behavior when a request does not choose.
func NewService(refiner Refiner, notifier Notifier, logger log.Logger, hooks Hooks, texts Texts, defaultIA bool) *Service {
	if refiner == nil {
		refiner = EchoRefiner{}
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		refiner:   refiner,
		notifier:  notifier,
		logger:    logger,
		hooks:     hooks,
		texts:     texts.withDefaults(),
		defaultIA: defaultIA,
	}
}

// Recommend evaluates one consultation. useIA overrides the configured
// rephrase default when non-nil. The returned Result is always complete:
// collaborator failures degrade the correction block, never the verdict.
func (s *Service) Recommend(ctx context.Context, in PatientInput, useIA *bool) *Result {
	start := time.Now()
	id := ulid.Make().String()

	ctx, span := tracer.Start(ctx, "triage.recommend", trace.WithAttributes(
		attribute.String("triaje.consulta.id", id),
	))
	defer span.End()

	L := s.logger.With("consulta_id", id)

	seg := Segment(in.Age)
	flags := ExtractFlags(in.Symptoms, in.History)
	rec := Evaluate(seg, flags, s.texts)

	span.SetAttributes(
		attribute.String("triaje.segmento", string(seg)),
		attribute.String("triaje.regla", rec.RuleID),
		attribute.Bool("triaje.emergencia", rec.Emergency),
	)

	ia := s.defaultIA
	if useIA != nil {
		ia = *useIA
	}

	correction := s.refiner.Correct(ctx, in.Symptoms)

	rephrased := false
	if ia {
		if out := s.refiner.Rephrase(ctx, rec, in, seg); out != rec.Text {
			rec.Text = out
			rephrased = true
		}
	}

	res := &Result{
		ID:             id,
		Input:          in,
		Segment:        seg,
		Flags:          flags,
		Recommendation: rec,
		Correction:     correction,
		Rephrased:      rephrased,
		Elapsed:        time.Since(start),
	}

	L.Info(ctx, "consultation evaluated",
		"rule", rec.RuleID,
		"segment", string(seg),
		"emergency", rec.Emergency,
		"rephrased", rephrased,
		"correction_fallback", correction.Fallback,
		"duration", res.Elapsed,
	)

	if rec.Emergency {
		L.Warn(ctx, "emergency pathway recommended", "rule", rec.RuleID, "segment", string(seg))
		s.notifyEmergency(ctx, L, res)
	}

	if s.hooks.OnComplete != nil {
		s.hooks.OnComplete(&CompleteEvent{
			RuleID:    rec.RuleID,
			Segment:   seg,
			Emergency: rec.Emergency,
			Rephrased: rephrased,
			Duration:  res.Elapsed.Seconds(),
		})
	}

	return res
}

// notifyEmergency sends the alert off the request path. The send gets its own
// deadline so a hung webhook is not tied to the caller's request lifetime.
func (s *Service) notifyEmergency(ctx context.Context, L log.Logger, res *Result) {
	if s.notifier == nil {
		return
	}
	nctx := context.WithoutCancel(ctx)
	go func() {
		sctx, cancel := context.WithTimeout(nctx, 10*time.Second)
		defer cancel()
		if err := s.notifier.Send(sctx, res); err != nil {
			L.Error(sctx, err, "emergency notification failed")
		}
	}()
}
