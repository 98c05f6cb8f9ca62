package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"golang.org/x/time/rate"

	"github.com/Sohammathur/Chat-Application--AI/config"
)

var (
	ErrEmptyPrompt = errors.New("prompt is required")
	ErrNoContent   = errors.New("model returned no content")
)

// Generator turns a prompt into the model's raw JSON text.
type Generator interface {
	GenerateResult(ctx context.Context, prompt string) (string, error)
}

// Options are the fixed generation parameters.
type Options struct {
	Temperature float64
	Timeout     time.Duration
	RatePerSec  float64
	Burst       int
}

// GeminiGenerator forwards prompts to a chat model with a fixed system
// instruction and JSON output mode. Calls are rate limited and bounded by a
// per-call timeout; nothing is retried.
type GeminiGenerator struct {
	model   llms.Model
	limiter *rate.Limiter
	opts    Options
}

func NewGenerator(model llms.Model, opts Options) *GeminiGenerator {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &GeminiGenerator{
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		opts:    opts,
	}
}

// NewGemini builds a generator backed by Google AI from configuration.
func NewGemini(ctx context.Context, cfg *config.AIConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_AI_KEY is required")
	}

	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	return NewGenerator(model, Options{
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
		RatePerSec:  cfg.RatePerSec,
		Burst:       cfg.Burst,
	}), nil
}

func (g *GeminiGenerator) GenerateResult(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	start := time.Now()
	outcome := outcomeError
	defer func() {
		requestsTotal.WithLabelValues(outcome).Inc()
		requestDuration.Observe(time.Since(start).Seconds())
	}()

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		outcome = outcomeRateLimited
		return "", fmt.Errorf("ai rate limit: %w", err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := g.model.GenerateContent(ctx, messages,
		llms.WithTemperature(g.opts.Temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			outcome = outcomeTimeout
		}
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrNoContent
	}

	outcome = outcomeOK
	return resp.Choices[0].Content, nil
}
