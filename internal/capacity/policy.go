// Package capacity sizes inference calls to the caller's remaining budget
// and retries capacity failures with progressively smaller requests.
package capacity

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/microsoft/modelbench/internal/inference"
	"github.com/microsoft/modelbench/internal/models"
)

// Default policy constants.
const (
	DefaultBuffer               = 50
	DefaultLowCapacityThreshold = 500
	DefaultFallbackModel        = "claude-3-haiku"
	DefaultRetryBuffer          = 50
	DefaultLastResortBuffer     = 100
	DefaultPromptCap            = 1000
	DefaultAvailable            = 300
	MinMaxTokens                = 50
)

// Tier identifies a step of the retry cascade.
type Tier int

const (
	TierOriginal Tier = iota + 1
	TierBudgetAdjusted
	TierLastResort
)

// MaxAttempts is the number of tiers; the guard never calls more often.
const MaxAttempts = int(TierLastResort)

func (t Tier) String() string {
	switch t {
	case TierOriginal:
		return "original"
	case TierBudgetAdjusted:
		return "budget-adjusted"
	case TierLastResort:
		return "last-resort"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Policy holds the sizing and retry parameters of the guard.
type Policy struct {
	Buffer               int
	LowCapacityThreshold int
	FallbackModel        string
	RetryBuffer          int
	LastResortBuffer     int
	PromptCap            int
	DefaultAvailable     int
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{
		Buffer:               DefaultBuffer,
		LowCapacityThreshold: DefaultLowCapacityThreshold,
		FallbackModel:        DefaultFallbackModel,
		RetryBuffer:          DefaultRetryBuffer,
		LastResortBuffer:     DefaultLastResortBuffer,
		PromptCap:            DefaultPromptCap,
		DefaultAvailable:     DefaultAvailable,
	}
}

// WithOverrides applies the non-zero fields of a benchmark's guard section.
func (p Policy) WithOverrides(cfg models.GuardConfig) Policy {
	if cfg.Buffer > 0 {
		p.Buffer = cfg.Buffer
	}
	if cfg.LowCapacityThreshold > 0 {
		p.LowCapacityThreshold = cfg.LowCapacityThreshold
	}
	if cfg.FallbackModel != "" {
		p.FallbackModel = cfg.FallbackModel
	}
	if cfg.PromptCap > 0 {
		p.PromptCap = cfg.PromptCap
	}
	return p
}

// Request is a call as the runner would issue it without a guard.
type Request struct {
	ModelID  string
	Messages []inference.Message
	Params   inference.Parameters
}

// Attempt is one concrete call of the cascade.
type Attempt struct {
	Tier     Tier
	ModelID  string
	Messages []inference.Message
	Params   inference.Parameters
	// Available is the budget the attempt was sized against.
	Available int
}

// Plan sizes the first attempt against the measured capacity.
func (p Policy) Plan(req Request, available int) Attempt {
	params := req.Params
	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = models.DefaultMaxTokens
	}
	if maxTokens > available-p.Buffer {
		maxTokens = max(MinMaxTokens, available-p.Buffer)
	}

	modelID := req.ModelID
	if available < p.LowCapacityThreshold {
		if IsPremium(modelID) && !strings.EqualFold(modelID, p.FallbackModel) {
			modelID = p.FallbackModel
		}
		maxTokens = max(MinMaxTokens, maxTokens/2)
	}
	params.MaxTokens = maxTokens

	return Attempt{
		Tier:      TierOriginal,
		ModelID:   modelID,
		Messages:  req.Messages,
		Params:    params,
		Available: available,
	}
}

// Next returns the attempt that follows a capacity failure of prev, or
// false once the last tier has failed.
func (p Policy) Next(prev Attempt, capErr *inference.CapacityError) (Attempt, bool) {
	available := ParseAvailable(capErr, p.DefaultAvailable)
	next := Attempt{
		ModelID:   p.FallbackModel,
		Messages:  prev.Messages,
		Params:    prev.Params,
		Available: available,
	}

	switch prev.Tier {
	case TierOriginal:
		next.Tier = TierBudgetAdjusted
		next.Params.MaxTokens = max(MinMaxTokens, available-p.RetryBuffer)
	case TierBudgetAdjusted:
		next.Tier = TierLastResort
		next.Params.MaxTokens = max(MinMaxTokens, available-p.LastResortBuffer)
		next.Messages = TruncateMessages(prev.Messages, p.PromptCap)
	default:
		return Attempt{}, false
	}
	return next, true
}

var (
	requiredFirst = regexp.MustCompile(`(?i)(\d[\d,]*)\s+(?:[a-z]+\s+)?required\D+?(\d[\d,]*)\s+(?:[a-z]+\s+)?(?:are\s+)?available`)
	requiresFirst = regexp.MustCompile(`(?i)requir\w*\s+(\d[\d,]*)\D+?(\d[\d,]*)\s+(?:[a-z]+\s+)?(?:are\s+)?available`)
)

// ParseCapacityMessage extracts an "X required, Y available" pair.
func ParseCapacityMessage(msg string) (required, available int, ok bool) {
	m := requiredFirst.FindStringSubmatch(msg)
	if m == nil {
		m = requiresFirst.FindStringSubmatch(msg)
	}
	if m == nil {
		return 0, 0, false
	}
	required, err1 := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	available, err2 := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return required, available, true
}

// ParseAvailable recovers the true available budget from a capacity error,
// returning fallback when it cannot be determined.
func ParseAvailable(capErr *inference.CapacityError, fallback int) int {
	if capErr == nil {
		return fallback
	}
	if capErr.Available > 0 {
		return capErr.Available
	}
	if _, available, ok := ParseCapacityMessage(capErr.Message); ok {
		return available
	}
	return fallback
}

var (
	premiumMarkers = []string{"opus", "sonnet", "gpt-4", "claude-2", "-pro", "ultra"}
	economyMarkers = []string{"haiku", "mini", "flash", "instant", "nano"}
)

// IsPremium reports whether a model belongs to an expensive tier that the
// guard may replace with the fallback model when capacity is low.
func IsPremium(modelID string) bool {
	id := strings.ToLower(modelID)
	// Economy markers are whole id segments: "gemini" is not "mini".
	segments := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ':' || r == '/'
	})
	for _, seg := range segments {
		if slices.Contains(economyMarkers, seg) {
			return false
		}
	}
	for _, m := range premiumMarkers {
		if strings.Contains(id, m) {
			return true
		}
	}
	return false
}

const truncationSuffix = "..."

// TruncateMessages caps every message at limit runes, keeping the start.
func TruncateMessages(messages []inference.Message, limit int) []inference.Message {
	out := make([]inference.Message, len(messages))
	for i, msg := range messages {
		out[i] = msg
		out[i].Content = truncate(msg.Content, limit)
	}
	return out
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	keep := limit - len(truncationSuffix)
	if keep <= 0 {
		return string(runes[:limit])
	}
	return string(runes[:keep]) + truncationSuffix
}
