// Package genai wraps the external text-generation service behind a
// narrow Generator interface. The pipeline only depends on the
// request/response contract; the OpenAI-backed client here is one
// implementation of it.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Request is the generation-request contract. RequestID and Timestamp
// are volatile bookkeeping fields and are excluded from cache keys.
type Request struct {
	Prompt            string    `json:"prompt"`
	InputText         string    `json:"input_text"`
	ResponseFormat    string    `json:"response_format"`
	Temperature       float32   `json:"temperature"`
	ExtraInstructions []string  `json:"extra_instructions"`
	RequestID         string    `json:"request_id,omitempty"`
	Timestamp         time.Time `json:"timestamp,omitempty"`
}

// FullPrompt is the base prompt with the profile-conditioned extra
// instructions appended.
func (r Request) FullPrompt() string {
	if len(r.ExtraInstructions) == 0 {
		return r.Prompt
	}
	return r.Prompt + "\n\n" + strings.Join(r.ExtraInstructions, "\n")
}

// Generator produces raw generation output for a request. The text is
// expected — but not guaranteed — to be a JSON array of segments.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client calls the OpenAI chat completions API with a bounded retry
// loop and exponential backoff.
type Client struct {
	client       *openai.Client
	model        string
	maxAttempts  int
	initialDelay time.Duration
	logger       *slog.Logger
}

func NewClient(apiKey, baseURL, model string, maxAttempts int, initialDelay time.Duration, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		client:       openai.NewClientWithConfig(cfg),
		model:        model,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		logger:       logger,
	}
}

// Generate sends the request and returns the raw text of the first
// choice. It retries transient failures up to the attempt budget,
// doubling the delay between attempts.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	// The SDK's Temperature field is omitempty, so a literal 0 never
	// reaches the wire and the service substitutes its own default.
	// The smallest positive float32 survives serialization and is
	// indistinguishable from 0 for sampling purposes.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.FullPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: req.InputText},
		},
	}
	if req.ResponseFormat == "json" {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var lastErr error
	delay := c.initialDelay
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("generation returned no choices")
			}
			return resp.Choices[0].Message.Content, nil
		}
		lastErr = err
		c.logger.Warn("generation attempt failed",
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"error", err,
		)
		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("generation canceled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return "", fmt.Errorf("generation failed after %d attempts: %w", c.maxAttempts, lastErr)
}
