package recapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/andessalud/triaje/internal/triage"
)

// consultaRequest is the wire shape of one consultation. Pointer fields
// distinguish an absent field from its zero value.
type consultaRequest struct {
	Edad         *int    `json:"edad"`
	Sintomas     *string `json:"sintomas"`
	Antecedentes *string `json:"antecedentes"`
	UsarIA       *bool   `json:"usar_ia_en_recomendacion"`
}

// consultaResponse is the wire shape of the reply. Every syntactically
// valid consultation gets all four fields, collaborator failures included.
type consultaResponse struct {
	Recomendacion string `json:"recomendacion"`
	Correccion    string `json:"correccion"`
	Sugerencia    string `json:"sugerencia"`
	Explicacion   string `json:"explicacion"`
}

func (a *API) handleRecomendar(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req consultaRequest
	if err := dec.Decode(&req); err != nil {
		a.countRequest("bad_request")
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if req.Edad == nil {
		a.countRequest("bad_request")
		http.Error(w, `{"error":"edad is required"}`, http.StatusBadRequest)
		return
	}
	if *req.Edad < 0 {
		a.countRequest("bad_request")
		http.Error(w, `{"error":"edad must not be negative"}`, http.StatusBadRequest)
		return
	}
	if req.Sintomas == nil {
		a.countRequest("bad_request")
		http.Error(w, `{"error":"sintomas is required"}`, http.StatusBadRequest)
		return
	}

	in := triage.PatientInput{
		Age:      *req.Edad,
		Symptoms: strings.TrimSpace(*req.Sintomas),
	}
	if req.Antecedentes != nil {
		in.History = strings.TrimSpace(*req.Antecedentes)
	}

	result := a.svc.Recommend(r.Context(), in, req.UsarIA)

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("triaje.consulta.id", result.ID),
		attribute.String("triaje.regla", result.Recommendation.RuleID),
	)

	a.countRequest("ok")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(consultaResponse{
		Recomendacion: result.Recommendation.Text,
		Correccion:    result.Correction.Corrected,
		Sugerencia:    result.Correction.Suggestion,
		Explicacion:   result.Correction.Explanation,
	})
}
