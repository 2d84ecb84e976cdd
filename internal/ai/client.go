// Package ai wraps the remote chat-completion API. Failures never escape as
// errors: every call path ends in a human-readable reply string.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"

	"github.com/sashabaranov/go-openai"

	"aichat/backend/internal/memory"
)

const systemInstruction = "You are a friendly, professional AI assistant. " +
	"Answer questions concisely and accurately, and always reply in the language the user writes in."

// Sampling parameters for every completion request.
const (
	maxTokens        = 500
	temperature      = 0.7
	presencePenalty  = 0.6
	frequencyPenalty = 0.6
)

// Fixed user-facing replies substituted for failed completions.
const (
	replyMissingParams = "Message content and user id must not be empty."
	replyRateLimited   = "The assistant is receiving too many requests right now, please try again later."
	replyUnreachable   = "There is a network problem reaching the assistant, please check your connection and try again."
	replyUnavailable   = "The assistant is temporarily unavailable, please try again later."
	replyProcessing    = "Something went wrong while processing your message, please try again."
)

// completionAPI is the slice of the OpenAI client the responder needs.
// Satisfied by *openai.Client.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client issues chat completions seeded with the caller's conversation
// memory. It holds one long-lived API configuration for its lifetime.
type Client struct {
	api    completionAPI
	memory *memory.Store
	model  string
}

// New builds a Client against an OpenAI-compatible endpoint.
func New(apiKey, baseURL, model string, mem *memory.Store) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		memory: mem,
		model:  model,
	}
}

// Respond appends the message to the user's conversation memory, requests a
// completion over the retained history and returns the reply. The returned
// string is always non-empty; failures are downgraded to fixed replies.
func (c *Client) Respond(ctx context.Context, userID uint, message string) string {
	if userID == 0 || message == "" {
		log.Println("WARN: completion requested with missing parameters")
		return replyMissingParams
	}

	c.memory.Append(userID, memory.RoleUser, message)

	history := c.memory.Get(userID)
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemInstruction,
	})
	for _, entry := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    entry.Role,
			Content: entry.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            c.model,
		Messages:         messages,
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		PresencePenalty:  presencePenalty,
		FrequencyPenalty: frequencyPenalty,
	})
	if err != nil {
		failure := Classify(err)
		log.Printf("ERROR: completion request for user %d failed (%s): %v", userID, failure.Kind, err)
		return failure.Reply()
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("ERROR: empty completion reply for user %d", userID)
		return Failure{Kind: FailureEmptyReply}.Reply()
	}

	reply := resp.Choices[0].Message.Content
	c.memory.Append(userID, memory.RoleAssistant, reply)
	return reply
}

// ClearHistory drops the user's conversation memory and reports whether
// anything was removed.
func (c *Client) ClearHistory(userID uint) bool {
	return c.memory.Clear(userID)
}

// FailureKind enumerates transport-level failure categories.
type FailureKind string

const (
	FailureRateLimited FailureKind = "rate_limited"
	FailureUnreachable FailureKind = "unreachable"
	FailureEmptyReply  FailureKind = "empty_reply"
	FailureRemote      FailureKind = "remote_error"
	FailureInternal    FailureKind = "internal"
)

// Failure is a classified completion failure.
type Failure struct {
	Kind   FailureKind
	Detail string
}

// Classify maps a completion error onto a Failure. It inspects typed errors
// only, never the error text.
func Classify(err error) Failure {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return Failure{Kind: FailureRateLimited}
		}
		return Failure{Kind: FailureRemote, Detail: apiErr.Message}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Failure{Kind: FailureUnreachable}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Failure{Kind: FailureUnreachable}
	}

	return Failure{Kind: FailureInternal}
}

// Reply returns the fixed user-facing string for the failure.
func (f Failure) Reply() string {
	switch f.Kind {
	case FailureRateLimited:
		return replyRateLimited
	case FailureUnreachable:
		return replyUnreachable
	case FailureEmptyReply:
		return replyUnavailable
	case FailureRemote:
		return fmt.Sprintf("The assistant service reported an error: %s", f.Detail)
	default:
		return replyProcessing
	}
}
