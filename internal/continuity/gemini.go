package continuity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"scenevalidator/internal/logging"
	"scenevalidator/internal/rules"
	"scenevalidator/internal/scene"
)

// GeminiConfig configures the Gemini-backed analyzer.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration

	// Rules gates which aspects are compared and supplies the fallback
	// parser's keyword tables.
	Rules rules.ContinuityRules
}

// DefaultGeminiConfig returns sensible defaults for the given API key.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:  apiKey,
		Model:   "gemini-2.5-flash",
		Timeout: 60 * time.Second,
		Rules:   rules.Defaults().Continuity,
	}
}

// GeminiAnalyzer implements Analyzer over the Gemini API.
type GeminiAnalyzer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	rules   rules.ContinuityRules
	parser  *Parser
}

// NewGeminiAnalyzer creates an analyzer. The API key is required; everything
// else falls back to defaults.
func NewGeminiAnalyzer(ctx context.Context, cfg GeminiConfig) (*GeminiAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		rules:   cfg.Rules,
		parser:  NewParser(cfg.Rules.ErrorKeywords, cfg.Rules.WarningKeywords),
	}, nil
}

// Analyze sends the continuity prompt and parses the response into issues.
// One retry on transient failure; context cancellation is not retried.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, current *scene.Scene, previous []*scene.Scene) ([]Issue, error) {
	if len(previous) == 0 {
		return nil, nil
	}

	// Apply the analyzer timeout if the caller did not set a deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	prompt, err := BuildPrompt(current, previous, a.rules)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	logging.ContinuityDebug("[Gemini] Analyze: model=%s previous=%d prompt_len=%d", a.model, len(previous), len(prompt))

	var lastErr error
	for attempt := 0; attempt <= 1; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
		}

		resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr(float32(0.2)),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("continuity analysis timed out: %w", err)
			}
			lastErr = fmt.Errorf("Gemini request failed: %w", err)
			logging.ContinuityError("[Gemini] Analyze attempt %d failed: %v", attempt+1, err)
			continue
		}

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			lastErr = fmt.Errorf("empty continuity response")
			continue
		}

		issues := a.parser.Parse(text)
		logging.Continuity("[Gemini] Analyze: completed in %v issues=%d", time.Since(startTime), len(issues))
		return issues, nil
	}

	logging.ContinuityError("[Gemini] Analyze: retries exhausted after %v: %v", time.Since(startTime), lastErr)
	return nil, lastErr
}

// Close releases the underlying client. The genai client holds no resources
// that require explicit release.
func (a *GeminiAnalyzer) Close() error {
	return nil
}

// BuildPrompt renders the continuity analysis prompt. Scenes are projected to
// their continuity-relevant fields before serialization.
func BuildPrompt(current *scene.Scene, previous []*scene.Scene, r rules.ContinuityRules) (string, error) {
	currentJSON, err := json.MarshalIndent(current.Continuity(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize current scene: %w", err)
	}

	views := make([]scene.ContinuityView, 0, len(previous))
	for _, p := range previous {
		views = append(views, p.Continuity())
	}
	previousJSON, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize previous scenes: %w", err)
	}

	aspects := r.Aspects()
	if len(aspects) == 0 {
		aspects = []string{"props", "wardrobe", "lighting", "time of day"}
	}

	var b strings.Builder
	b.WriteString("Analyze continuity between this scene and the previous scenes.\n\n")
	fmt.Fprintf(&b, "Current scene:\n%s\n\n", currentJSON)
	fmt.Fprintf(&b, "Previous scenes (in story order):\n%s\n\n", previousJSON)
	fmt.Fprintf(&b, "Check for continuity errors in %s.\n", strings.Join(aspects, ", "))
	b.WriteString(`Return only a JSON object with these fields:
- "continuityErrors": array of strings, one per definite continuity error found
- "continuityWarnings": array of strings, one per potential issue that should be reviewed
`)
	return b.String(), nil
}
