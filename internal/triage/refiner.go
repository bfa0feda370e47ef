package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Refinement operations, used as metric and hook labels.
const (
	opCorrect  = "correct"
	opRephrase = "rephrase"
)

// Fallback reasons reported through Hooks.OnFallback and recorded on the
// Correction when the collaborator degrades.
const (
	reasonLLMError   = "llm_error"
	reasonParseError = "parse_failed"
	reasonEmptyReply = "empty_reply"
)

// User-facing notes for the degraded paths. The rest of the response stays
// useful even when these fire, so they explain rather than apologize.
const (
	noteUnavailable = "No fue posible obtener la corrección automática; se devuelve el texto original."
	noteUnparsable  = "La respuesta del asistente de texto no pudo interpretarse; se devuelve el texto original."
	noteNoChanges   = "Sin cambios."
	noteEchoed      = "Corrección automática no disponible; se devuelve el texto original."
)

const correctSystemPrompt = `Eres un asistente de redacción para una aplicación de orientación de salud en español. Recibirás el texto libre que escribió un cuidador al describir síntomas. Corrige únicamente la ortografía y la gramática, sin cambiar el significado y sin agregar información clínica. Responde solo con un objeto JSON con las claves "correccion" (el texto corregido), "sugerencia" (una redacción más clara del mismo contenido) y "explicacion" (una frase breve sobre los cambios; usa "Sin cambios." si no hubo). No incluyas nada fuera del JSON ni bloques de código.`

const rephraseSystemPrompt = `Eres un asistente de redacción para una aplicación de orientación de salud en español. Reescribe la recomendación que se te entrega en un tono cercano y claro para el cuidador, conservando exactamente el sentido clínico y el nivel de urgencia. Responde solo con el texto reescrito, en un único párrafo, sin listas, sin JSON y sin bloques de código.`

// Refiner is the text refinement collaborator seam. Both methods are total:
// implementations degrade to the input text instead of returning errors, so
// a broken or absent collaborator never blocks a recommendation.
type Refiner interface {
	// Correct cleans up the caregiver's symptom text and explains the edits.
	Correct(ctx context.Context, text string) Correction

	// Rephrase rewrites the recommendation prose for the caregiver. On any
	// failure it returns rec.Text unchanged.
	Rephrase(ctx context.Context, rec Recommendation, in PatientInput, seg AgeSegment) string
}

// LLMRefiner implements Refiner against a chat-completion Provider. Every
// provider call is bounded by a single timeout; there are no retries.
type LLMRefiner struct {
	provider  Provider
	timeout   time.Duration
	maxTokens int
	logger    log.Logger
	hooks     Hooks
}

// NewLLMRefiner creates a refiner over the given provider. Non-positive
// timeout and maxTokens fall back to 5s and 1024; a nil logger is replaced
// with a no-op logger.
func NewLLMRefiner(provider Provider, timeout time.Duration, maxTokens int, logger log.Logger, hooks Hooks) *LLMRefiner {
	if provider == nil {
		panic(xerrors.New("llm provider is required"))
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &LLMRefiner{
		provider:  provider,
		timeout:   timeout,
		maxTokens: maxTokens,
		logger:    logger,
		hooks:     hooks,
	}
}

// correctionPayload is the JSON shape the correct prompt demands.
type correctionPayload struct {
	Correccion  string `json:"correccion"`
	Sugerencia  string `json:"sugerencia"`
	Explicacion string `json:"explicacion"`
}

func (r *LLMRefiner) Correct(ctx context.Context, text string) Correction {
	resp, err := r.complete(ctx, opCorrect, correctSystemPrompt, text)
	if err != nil {
		r.logger.Warn(ctx, "correction unavailable, echoing original text", "error", err)
		r.fallback(opCorrect, reasonLLMError)
		return echoCorrection(text, noteUnavailable, reasonLLMError)
	}

	var payload correctionPayload
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &payload); err != nil {
		r.logger.Warn(ctx, "correction reply unparsable, echoing original text", "error", err)
		r.fallback(opCorrect, reasonParseError)
		return echoCorrection(text, noteUnparsable, reasonParseError)
	}

	c := Correction{
		Corrected:   strings.TrimSpace(payload.Correccion),
		Suggestion:  strings.TrimSpace(payload.Sugerencia),
		Explanation: strings.TrimSpace(payload.Explicacion),
	}
	// A syntactically valid reply may still leave fields blank; backfill so
	// the response contract never ships empty strings.
	if c.Corrected == "" {
		c.Corrected = text
	}
	if c.Suggestion == "" {
		c.Suggestion = c.Corrected
	}
	if c.Explanation == "" {
		c.Explanation = noteNoChanges
	}
	return c
}

func (r *LLMRefiner) Rephrase(ctx context.Context, rec Recommendation, in PatientInput, seg AgeSegment) string {
	resp, err := r.complete(ctx, opRephrase, rephraseSystemPrompt, rephraseUserMessage(rec, in, seg))
	if err != nil {
		r.logger.Warn(ctx, "rephrase unavailable, keeping rule text", "error", err, "rule", rec.RuleID)
		r.fallback(opRephrase, reasonLLMError)
		return rec.Text
	}

	out := strings.TrimSpace(stripFences(resp.Text))
	if out == "" {
		r.logger.Warn(ctx, "rephrase reply empty, keeping rule text", "rule", rec.RuleID)
		r.fallback(opRephrase, reasonEmptyReply)
		return rec.Text
	}
	return out
}

// complete performs one bounded provider call under an llm.call span and
// reports it through OnLLMCall.
func (r *LLMRefiner) complete(ctx context.Context, op, system, user string) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "llm.call", trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "llm.call"),
		attribute.String("triaje.refine.op", op),
	))
	defer span.End()

	span.AddEvent("llm.request", trace.WithAttributes(
		attribute.Int("triaje.llm.user_chars", len(user)),
	))

	start := time.Now()
	resp, err := r.provider.Complete(ctx, &ChatRequest{
		System:    system,
		User:      user,
		MaxTokens: r.maxTokens,
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if r.hooks.OnLLMCall != nil {
			r.hooks.OnLLMCall(op, "error", 0, 0, elapsed)
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("gen_ai.response.model", resp.Model),
		attribute.Int("gen_ai.usage.input_tokens", resp.TokensIn),
		attribute.Int("gen_ai.usage.output_tokens", resp.TokensOut),
	)
	span.AddEvent("llm.response", trace.WithAttributes(
		attribute.Int("triaje.llm.text_chars", len(resp.Text)),
	))

	if r.hooks.OnLLMCall != nil {
		r.hooks.OnLLMCall(op, "success", resp.TokensIn, resp.TokensOut, elapsed)
	}
	return resp, nil
}

func (r *LLMRefiner) fallback(op, reason string) {
	if r.hooks.OnFallback != nil {
		r.hooks.OnFallback(op, reason)
	}
}

func rephraseUserMessage(rec Recommendation, in PatientInput, seg AgeSegment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Edad del paciente: %d años (%s).\n", in.Age, spanishSegment(seg))
	if s := strings.TrimSpace(in.Symptoms); s != "" {
		fmt.Fprintf(&b, "Síntomas descritos: %s\n", s)
	}
	fmt.Fprintf(&b, "Recomendación a reescribir: %s", rec.Text)
	return b.String()
}

func spanishSegment(seg AgeSegment) string {
	switch seg {
	case SegmentInfant:
		return "lactante"
	case SegmentEarlyChildhood:
		return "primera infancia"
	case SegmentSchoolAge:
		return "edad escolar"
	case SegmentAdolescent:
		return "adolescente"
	default:
		return "adulto"
	}
}

// stripFences removes a Markdown code fence wrapping, which some models add
// despite instructions to return bare output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func echoCorrection(text, note, reason string) Correction {
	return Correction{
		Corrected:      text,
		Suggestion:     text,
		Explanation:    note,
		Fallback:       true,
		FallbackReason: reason,
	}
}

// EchoRefiner is a deterministic Refiner for tests and for running without a
// configured provider. Correct echoes its input and Rephrase keeps the rule
// text, so responses stay well-formed with no collaborator at all.
type EchoRefiner struct{}

func (EchoRefiner) Correct(_ context.Context, text string) Correction {
	return Correction{
		Corrected:   text,
		Suggestion:  text,
		Explanation: noteEchoed,
	}
}

func (EchoRefiner) Rephrase(_ context.Context, rec Recommendation, _ PatientInput, _ AgeSegment) string {
	return rec.Text
}
