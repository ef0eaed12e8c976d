package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/microsoft/modelbench/internal/models"
)

// AnthropicClient invokes Claude models through the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a client authenticated with apiKey.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) *AnthropicClient {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{client: anthropic.NewClient(opts...)}
}

// Invoke implements Client.
func (c *AnthropicClient) Invoke(ctx context.Context, modelID string, messages []Message, params Parameters) (*Response, error) {
	var system []anthropic.TextBlockParam
	turns := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = models.DefaultMaxTokens
	}
	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: int64(maxTokens),
		Messages:  turns,
	}
	if params.Temperature > 0 {
		req.Temperature = anthropic.Float(params.Temperature)
	}
	if len(system) > 0 {
		req.System = system
	}

	resp, err := c.client.Messages.New(ctx, req)
	if err != nil {
		return nil, classifyAnthropicError(err, maxTokens)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &TransportError{Op: "messages", Err: ErrNoOutput}
	}

	in := int(resp.Usage.InputTokens)
	out := int(resp.Usage.OutputTokens)
	return &Response{
		Text:  text.String(),
		Usage: models.TokenCounts{Input: in, Output: out, Total: in + out},
	}, nil
}

var capacityHint = regexp.MustCompile(`(?i)credit|quota|insufficient|required|exceed|rate.?limit`)

func classifyAnthropicError(err error, requested int) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return &TransportError{Op: "messages", Err: err}
	}
	msg := apiErr.Error()
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		return &AuthError{Message: fmt.Sprintf("status %d", apiErr.StatusCode), Err: err}
	case apiErr.StatusCode == http.StatusTooManyRequests,
		apiErr.StatusCode == http.StatusPaymentRequired,
		apiErr.StatusCode == http.StatusBadRequest && capacityHint.MatchString(msg):
		return &CapacityError{Requested: requested, Message: msg}
	default:
		return &TransportError{Op: "messages", Err: err}
	}
}

var _ Client = (*AnthropicClient)(nil)
