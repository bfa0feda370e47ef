package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the consultation subsystem.
type Metrics struct {
	RecommendationsTotal *prometheus.CounterVec
	EmergenciesTotal     prometheus.Counter
	EvaluationDuration   *prometheus.HistogramVec
	LLMCallsTotal        *prometheus.CounterVec
	LLMDuration          *prometheus.HistogramVec
	LLMTokensIn          prometheus.Counter
	LLMTokensOut         prometheus.Counter
	LLMFallbacksTotal    *prometheus.CounterVec
	RequestsTotal        *prometheus.CounterVec
}

// NewMetrics registers and returns consultation metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecommendationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triaje_recommendations_total",
			Help: "Total recommendations issued by rule and age segment.",
		}, []string{"rule", "segment"}),
		EmergenciesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triaje_emergencies_total",
			Help: "Total evaluations that recommended the emergency pathway.",
		}),
		EvaluationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triaje_evaluation_duration_seconds",
			Help:    "Duration of full consultation evaluations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms .. ~10s
		}, []string{"rule"}),
		LLMCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triaje_llm_calls_total",
			Help: "Total collaborator calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		LLMDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triaje_llm_call_duration_seconds",
			Help:    "Duration of individual collaborator calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s .. ~51s
		}, []string{"op"}),
		LLMTokensIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triaje_llm_tokens_input_total",
			Help: "Total collaborator input tokens consumed.",
		}),
		LLMTokensOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triaje_llm_tokens_output_total",
			Help: "Total collaborator output tokens consumed.",
		}),
		LLMFallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triaje_llm_fallbacks_total",
			Help: "Total refinement operations that degraded to echo behavior.",
		}, []string{"op", "reason"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triaje_requests_total",
			Help: "Total recommendation requests by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.RecommendationsTotal,
		m.EmergenciesTotal,
		m.EvaluationDuration,
		m.LLMCallsTotal,
		m.LLMDuration,
		m.LLMTokensIn,
		m.LLMTokensOut,
		m.LLMFallbacksTotal,
		m.RequestsTotal,
	)

	return m
}

// Hooks returns a Hooks set that increments the corresponding metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnLLMCall: func(op, outcome string, tokensIn, tokensOut int, duration float64) {
			m.LLMCallsTotal.WithLabelValues(op, outcome).Inc()
			m.LLMDuration.WithLabelValues(op).Observe(duration)
			m.LLMTokensIn.Add(float64(tokensIn))
			m.LLMTokensOut.Add(float64(tokensOut))
		},
		OnFallback: func(op, reason string) {
			m.LLMFallbacksTotal.WithLabelValues(op, reason).Inc()
		},
		OnComplete: func(e *CompleteEvent) {
			m.RecommendationsTotal.WithLabelValues(e.RuleID, string(e.Segment)).Inc()
			m.EvaluationDuration.WithLabelValues(e.RuleID).Observe(e.Duration)
			if e.Emergency {
				m.EmergenciesTotal.Inc()
			}
		},
	}
}
