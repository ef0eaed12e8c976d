// Package inference defines the transport contracts the benchmark core
// consumes: model invocation and capacity checks.
package inference

import (
	"context"

	"github.com/microsoft/modelbench/internal/models"
)

//go:generate go tool mockgen -destination=mocks/mocks.go -package=mocks . Client,CapacityChecker

// Role is the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a single user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Parameters are the generation settings of a single call.
type Parameters struct {
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// ParametersFrom converts configured model parameters into call parameters.
func ParametersFrom(p models.InferenceParameters) Parameters {
	return Parameters{
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Extra:       p.Extra,
	}
}

// Response is the result of a successful call.
type Response struct {
	Text  string             `json:"text"`
	Usage models.TokenCounts `json:"usage"`
}

// Client invokes a model.
//
// Implementations fail with *CapacityError when the provider rejects the
// request for lack of budget, *AuthError for credential problems and
// *TransportError for anything else. Timeouts are the client's concern.
type Client interface {
	Invoke(ctx context.Context, modelID string, messages []Message, params Parameters) (*Response, error)
}

// CapacityChecker estimates the remaining request budget for a credential.
// It never fails: on internal error it returns a conservative constant.
type CapacityChecker interface {
	CheckCapacity(ctx context.Context, credential string, modelID string) int
}

// StaticCapacity is a CapacityChecker that always reports the same budget.
type StaticCapacity int

// CheckCapacity implements CapacityChecker.
func (s StaticCapacity) CheckCapacity(ctx context.Context, credential string, modelID string) int {
	return int(s)
}

// Unlimited is a capacity large enough that the guard never clamps.
const Unlimited = StaticCapacity(1 << 30)
