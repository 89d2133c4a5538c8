package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiClient implements LLMClient on the Google Gemini API.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by Gemini. An empty API key is
// reported as ErrNotConfigured.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is empty", ErrNotConfigured)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Model == "" || cfg.Model == DefaultConfig().Model {
		cfg.Model = defaultGeminiModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" && cfg.Endpoint != DefaultConfig().Endpoint {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	temp, maxTok := resolveSampling(c.cfg, req)
	timeout := time.Duration(c.cfg.TaskTimeout(req.Task)) * time.Millisecond

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temp)),
	}
	if maxTok > 0 {
		genCfg.MaxOutputTokens = int32(maxTok)
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	var lastErr error
	maxAttempts := 1 + c.cfg.MaxRetries
	attempts := 0
	for i := 0; i < maxAttempts; i++ {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := c.client.Models.GenerateContent(attemptCtx, c.cfg.Model, genai.Text(req.UserPrompt), genCfg)
		timedOut := attemptCtx.Err() != nil
		cancel()

		if err == nil {
			text := resp.Text()
			if text == "" {
				err = fmt.Errorf("%w: empty gemini response", ErrInvalidOutput)
			} else {
				latency := time.Since(start).Milliseconds()
				c.observer.OnCallComplete(LLMCallEvent{
					Task:      req.Task,
					Provider:  ProviderGemini,
					Model:     c.cfg.Model,
					LatencyMs: latency,
					Attempts:  i + 1,
					Success:   true,
				})
				return &GenerateResponse{Text: text, Model: c.cfg.Model, LatencyMs: latency}, nil
			}
		} else if timedOut {
			err = fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Provider:  ProviderGemini,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   false,
		ErrorCode: errorCode(lastErr),
	})
	if ctx.Err() != nil {
		return nil, ErrTimeout
	}
	return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

// Available reports whether the configured model can be resolved.
func (c *geminiClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := c.client.Models.Get(ctx, c.cfg.Model, nil)
	return err == nil
}
