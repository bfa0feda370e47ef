package cfg

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// Config adds app-specific configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	LLMProvider           string
	LLMAPIKey             string
	LLMModel              string
	LLMBaseURL            string
	LLMTimeoutSeconds     int
	LLMMaxTokens          int
	IARecomendacion       bool
	SlackWebhookURL       string
	MaxBodyBytes          int
	TextEmergency         string
	TextFeeding           string
	TextSpeech            string
	TextPsychosocial      string
	TextRoutine           string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 5, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 10, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.LLMProvider, "llm-provider", "claude", "text refinement provider: claude, openai or none")
	fs.StringVar(&c.LLMAPIKey, "llm-api-key", "", "API key for the text refinement provider (required unless provider is none)")
	fs.StringVar(&c.LLMModel, "llm-model", "", "model for the text refinement provider (empty = per-provider default)")
	fs.StringVar(&c.LLMBaseURL, "llm-base-url", "", "base URL override for the text refinement provider (empty = provider default)")
	fs.IntVar(&c.LLMTimeoutSeconds, "llm-timeout-seconds", 5, "per-call timeout for the text refinement provider (1..120)")
	fs.IntVar(&c.LLMMaxTokens, "llm-max-tokens", 1024, "max completion tokens per refinement call (1..8192)")
	fs.BoolVar(&c.IARecomendacion, "ia-recomendacion", false, "default for rewriting the recommendation with the LLM when the request does not say")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for emergency notifications (empty = disabled)")
	fs.IntVar(&c.MaxBodyBytes, "max-body-bytes", 1<<20, "maximum request body size in bytes (1024..16777216)")
	fs.StringVar(&c.TextEmergency, "text-emergency", "", "override for the post-operative emergency recommendation text")
	fs.StringVar(&c.TextFeeding, "text-feeding", "", "override for the infant feeding recommendation text")
	fs.StringVar(&c.TextSpeech, "text-speech", "", "override for the speech/hearing recommendation text")
	fs.StringVar(&c.TextPsychosocial, "text-psychosocial", "", "override for the psychosocial recommendation text")
	fs.StringVar(&c.TextRoutine, "text-routine", "", "override for the routine recommendation text")
}

// networkProvider reports whether the configured provider makes network
// calls and therefore needs a credential.
func (c *Config) networkProvider() bool {
	switch strings.ToLower(c.LLMProvider) {
	case "claude", "anthropic", "openai":
		return true
	default:
		return false
	}
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// Provider must be a known name; the service refuses to guess
	switch strings.ToLower(c.LLMProvider) {
	case "claude", "anthropic", "openai", "none", "":
	default:
		errs = append(errs, fmt.Errorf("invalid LLM_PROVIDER %q (must be claude, openai or none)", c.LLMProvider))
	}

	// Network providers fail fast without a credential
	if c.networkProvider() && c.LLMAPIKey == "" {
		errs = append(errs, errors.New("LLM_API_KEY is required when LLM_PROVIDER is claude or openai"))
	}

	if c.LLMTimeoutSeconds <= 0 || c.LLMTimeoutSeconds > 120 {
		errs = append(errs, fmt.Errorf("invalid LLM_TIMEOUT_SECONDS %d (must be 1..120)", c.LLMTimeoutSeconds))
	}
	if c.LLMMaxTokens <= 0 || c.LLMMaxTokens > 8192 {
		errs = append(errs, fmt.Errorf("invalid LLM_MAX_TOKENS %d (must be 1..8192)", c.LLMMaxTokens))
	}

	if c.MaxBodyBytes < 1024 || c.MaxBodyBytes > 16*1024*1024 {
		errs = append(errs, fmt.Errorf("invalid MAX_BODY_BYTES %d (must be 1024..16777216)", c.MaxBodyBytes))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
