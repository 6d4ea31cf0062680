// Package ai provides the summarization collaborator: one blocking round
// trip to an OpenAI-compatible Responses endpoint, plus an offline analysis
// that needs no network at all.
package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/starford/centrallog/internal/analytics"
)

// Failure reasons a caller can render inline instead of crashing.
var (
	ErrMissingAPIKey = errors.New("ai: missing API key (set OPENAI_API_KEY or configure one)")
	ErrEmptyResponse = errors.New("ai: response did not include readable text")
)

const (
	// DefaultModel matches the desktop client's default.
	DefaultModel = "gpt-4.1-mini"

	defaultTimeout = 45 * time.Second
)

// Analyzer performs remote summarization over the OpenAI Responses API.
type Analyzer struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(a *Analyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithBaseURL points the analyzer at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(a *Analyzer) {
		if baseURL != "" {
			a.baseURL = baseURL
		}
	}
}

// WithTimeout bounds the blocking round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Analyzer) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// New creates an Analyzer. An empty apiKey falls back to the OPENAI_API_KEY
// environment variable; the key is only required once Summarize is called.
func New(apiKey string, opts ...Option) *Analyzer {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	a := &Analyzer{
		apiKey:  apiKey,
		model:   DefaultModel,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summarize sends prompt to the text-generation endpoint and returns the
// extracted output text. Errors are typed: ErrMissingAPIKey before any
// network traffic, ErrEmptyResponse for a well-formed reply without text,
// and wrapped transport/API errors otherwise. No retries are performed.
func (a *Analyzer) Summarize(ctx context.Context, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	// One failed call is surfaced as-is; the SDK's default retries are off.
	clientOpts := []option.RequestOption{
		option.WithAPIKey(a.apiKey),
		option.WithRequestTimeout(a.timeout),
		option.WithMaxRetries(0),
	}
	if a.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(a.baseURL))
	}
	client := openai.NewClient(clientOpts...)

	resp, err := client.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", fmt.Errorf("ai: request rejected (HTTP %d): %w", apierr.StatusCode, err)
		}
		return "", fmt.Errorf("ai: request failed: %w", err)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Analyze wraps the user's request and the context digest into the central
// log analysis prompt and summarizes it.
func (a *Analyzer) Analyze(ctx context.Context, userPrompt, digest string) (string, error) {
	if strings.TrimSpace(userPrompt) == "" {
		userPrompt = "(none)"
	}
	prompt := "You are analyzing a personal central log. " +
		"Output concise sections: Summary, Patterns, Risks, Next 7 Days Action Plan.\n\n" +
		"User request:\n" + userPrompt + "\n\n" +
		"Context:\n" + digest
	return a.Summarize(ctx, prompt)
}

// LocalAnalysis renders an offline Markdown report over dashboard stats.
// It never fails and needs no credentials.
func LocalAnalysis(stats *analytics.DashboardStats, userPrompt string) string {
	var b strings.Builder

	b.WriteString("# Local Analysis\n\n")
	fmt.Fprintf(&b, "- Total records: %d\n", stats.TotalRecords)
	fmt.Fprintf(&b, "- Total logs: %d\n", stats.TotalLogs)
	fmt.Fprintf(&b, "- Pending sync: %d\n", stats.PendingSyncCount)
	fmt.Fprintf(&b, "- Dominant record type: %s\n", dominantType(stats.TypeCounts))

	b.WriteString("\n## Top Tags\n")
	if len(stats.TopTags) == 0 {
		b.WriteString("- (no tags yet)\n")
	}
	for i, tag := range stats.TopTags {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "- %s: %d\n", tag.Tag, tag.Count)
	}

	b.WriteString("\n## Recent 7 Days Activity\n")
	for _, day := range stats.RecentDailyCounts {
		fmt.Fprintf(&b, "- %s: %d\n", day.Date, day.Count)
	}

	b.WriteString("\n## Suggested Actions\n")
	b.WriteString("- Consolidate related backlog items into a weekly execution list.\n")
	b.WriteString("- Convert repeated worklog themes into reusable playbooks.\n")
	b.WriteString("- Review pending Notion sync records and retry them.\n")

	b.WriteString("\n## Prompt Focus\n")
	focus := strings.TrimSpace(userPrompt)
	if focus == "" {
		focus = "(none)"
	}
	b.WriteString(focus + "\n")

	return b.String()
}

// dominantType picks the most frequent record type; ties break
// lexicographically so the report is deterministic.
func dominantType(typeCounts map[string]int) string {
	if len(typeCounts) == 0 {
		return "-"
	}
	types := make([]string, 0, len(typeCounts))
	for t := range typeCounts {
		types = append(types, t)
	}
	sort.Strings(types)

	best := types[0]
	for _, t := range types[1:] {
		if typeCounts[t] > typeCounts[best] {
			best = t
		}
	}
	return best
}
