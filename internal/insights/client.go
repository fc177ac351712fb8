// Package insights asks the Gemini API for spending tips about a ledger
// snapshot and tracks the state of the insight panel.
package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-3-flash-preview"

// ErrMissingAPIKey is returned by every request of a client built without a key.
var ErrMissingAPIKey = errors.New("gemini API key is not configured")

// ContentGenerator is the part of the GenAI SDK the client needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client requests insights for ledger snapshots.
type Client struct {
	gen     ContentGenerator
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithModel selects the Gemini model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests bounded only by the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client around an existing generator.
func NewClient(gen ContentGenerator, opts ...Option) *Client {
	c := &Client{
		gen:   gen,
		model: DefaultModelName,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewGeminiClient creates a Client backed by the Gemini Developer API.
// Without an API key the client is still usable: every request fails and
// callers of RequestInsights receive the fallback.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return NewClient(unavailableGenerator{err: ErrMissingAPIKey}, opts...), nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiClient: create genai client: %w", err)
	}

	return NewClient(gc.Models, opts...), nil
}

// RequestInsights returns insights for the snapshot. It never fails: any
// error (transport, empty body, bad JSON, schema mismatch, even a panic) is
// logged and replaced by Fallback().
//
// Callers are expected to skip the request entirely for an empty ledger.
func (c *Client) RequestInsights(ctx context.Context, snapshot []domain.Transaction) []domain.Insight {
	insights, err := c.Analyze(ctx, snapshot)
	if err != nil {
		c.log.Error().
			Err(err).
			Int("transactions", len(snapshot)).
			Str("model", c.model).
			Msg("Insight request failed, returning fallback insights")
		return Fallback()
	}
	return insights
}

// Analyze performs one insight request and reports failures instead of
// substituting the fallback. The returned slice is exactly what the model
// produced, in order; its length is not forced to three.
func (c *Client) Analyze(ctx context.Context, snapshot []domain.Transaction) (insights []domain.Insight, err error) {
	defer func() {
		if r := recover(); r != nil {
			insights = nil
			err = fmt.Errorf("Analyze: panic: %v", r)
		}
	}()

	prompt, err := buildPrompt(snapshot)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.gen.GenerateContent(ctx, c.model, genai.Text(prompt), generateConfig())
	if err != nil {
		return nil, fmt.Errorf("Analyze: generate content: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("Analyze: %w", ErrEmptyResponse)
	}

	insights, err = parseInsights(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("Analyze: %w", err)
	}

	c.log.Debug().
		Int("transactions", len(snapshot)).
		Int("insights", len(insights)).
		Dur("duration", time.Since(start)).
		Msg("Insight request succeeded")

	return insights, nil
}

// unavailableGenerator fails every request with a fixed error.
type unavailableGenerator struct {
	err error
}

func (u unavailableGenerator) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, u.err
}
