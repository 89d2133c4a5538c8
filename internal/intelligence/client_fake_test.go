package intelligence

import (
	"context"

	"github.com/aadipatodia/Scheduler/internal/llm"
)

// scriptedClient returns a fixed reply and records the requests it saw.
type scriptedClient struct {
	response string
	err      error
	requests []llm.GenerateRequest
}

func (c *scriptedClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	return &llm.GenerateResponse{Text: c.response, Model: "test-model"}, nil
}

func (c *scriptedClient) Available(context.Context) bool { return c.err == nil }
