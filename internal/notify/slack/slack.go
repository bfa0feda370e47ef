// Package slack sends emergency consultation alerts to Slack via incoming
// webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/andessalud/triaje/internal/triage"
)

const httpTimeout = 10 * time.Second

// Notifier posts consultation results to a Slack webhook. Payloads carry
// only derived fields (rule, segment, signal names), never the text the
// caregiver typed.
type Notifier struct {
	webhookURL string
	client     *http.Client
	logger     log.Logger
}

// New creates a Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string, logger log.Logger) *Notifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
		logger:     logger,
	}
}

// Send posts one consultation result to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Send(ctx context.Context, result *triage.Result) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(result)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	n.logger.Info(ctx, "emergency notification delivered", "consulta_id", result.ID)
	return nil
}

func buildMessage(r *triage.Result) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(r),
			{"type": "divider"},
			fieldsBlock(r),
			{"type": "divider"},
			signalsBlock(r),
			{"type": "divider"},
			contextBlock(r),
		},
	}
}

func headerBlock(r *triage.Result) map[string]any {
	text := fmt.Sprintf("%s Alerta de triaje: %s",
		urgencyEmoji(r.Recommendation.Emergency), ruleLabel(r.Recommendation.RuleID))

	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": text,
		},
	}
}

func fieldsBlock(r *triage.Result) map[string]any {
	urgency := "control"
	if r.Recommendation.Emergency {
		urgency = "emergencia"
	}

	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Segmento:* %s", r.Segment),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Regla:* %s", r.Recommendation.RuleID),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Urgencia:* %s", urgency),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Señales:* %d", len(r.Flags.Active())),
		},
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func signalsBlock(r *triage.Result) map[string]any {
	var b strings.Builder
	for _, name := range r.Flags.Active() {
		fmt.Fprintf(&b, "• %s\n", name)
	}
	text := strings.TrimRight(b.String(), "\n")
	if text == "" {
		text = "_Sin señales marcadas._"
	}

	return map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Señales detectadas*\n\n%s", text),
		},
	}
}

func contextBlock(r *triage.Result) map[string]any {
	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("triaje • consulta %s • %.1fs", r.ID, r.Elapsed.Seconds()),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func urgencyEmoji(emergency bool) string {
	if emergency {
		return "\U0001f534" // red circle
	}
	return "\U0001f7e2" // green circle
}

// ruleLabel turns a rule identifier into a readable header fragment.
func ruleLabel(id string) string {
	if id == "" {
		return "consulta evaluada"
	}
	return strings.ReplaceAll(id, "_", " ")
}
