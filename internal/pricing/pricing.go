// Package pricing converts token usage into monetary cost.
package pricing

import (
	"sort"
	"strings"

	"github.com/microsoft/modelbench/internal/models"
)

// Rate is the per-token price of a model.
type Rate struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// ReferenceModel is the low-cost model whose rate applies to unlisted models.
const ReferenceModel = "claude-3-haiku"

// DefaultRates are per-token list prices. Keys match a model identifier
// exactly or as a prefix (so dated snapshots resolve to their family).
var DefaultRates = map[string]Rate{
	"claude-3-opus":     {Input: 0.000015, Output: 0.000075},
	"claude-3-5-sonnet": {Input: 0.000003, Output: 0.000015},
	"claude-3-sonnet":   {Input: 0.000003, Output: 0.000015},
	"claude-3-5-haiku":  {Input: 0.0000008, Output: 0.000004},
	"claude-3-haiku":    {Input: 0.00000025, Output: 0.00000125},
	"gpt-4o-mini":       {Input: 0.00000015, Output: 0.0000006},
	"gpt-4o":            {Input: 0.0000025, Output: 0.00001},
	"gpt-4-turbo":       {Input: 0.00001, Output: 0.00003},
	"gpt-4":             {Input: 0.00003, Output: 0.00006},
	"gpt-3.5-turbo":     {Input: 0.0000005, Output: 0.0000015},
	"gemini-1.5-pro":    {Input: 0.00000125, Output: 0.000005},
	"gemini-1.5-flash":  {Input: 0.000000075, Output: 0.0000003},
}

// Table looks up model rates. The zero value is not usable; use New or Default.
type Table struct {
	rates    map[string]Rate
	prefixes []string
	fallback Rate
}

// New builds a table from rates. fallbackModel names the entry used for
// unlisted models; if it is not in rates the fallback rate is zero.
func New(rates map[string]Rate, fallbackModel string) *Table {
	t := &Table{
		rates:    make(map[string]Rate, len(rates)),
		prefixes: make([]string, 0, len(rates)),
	}
	for k, v := range rates {
		key := strings.ToLower(k)
		t.rates[key] = v
		t.prefixes = append(t.prefixes, key)
	}
	// longest prefix first so "gpt-4o-mini" wins over "gpt-4o" and "gpt-4"
	sort.Slice(t.prefixes, func(i, j int) bool {
		if len(t.prefixes[i]) != len(t.prefixes[j]) {
			return len(t.prefixes[i]) > len(t.prefixes[j])
		}
		return t.prefixes[i] < t.prefixes[j]
	})
	t.fallback = t.rates[strings.ToLower(fallbackModel)]
	return t
}

// Default returns a table over DefaultRates with ReferenceModel as fallback.
func Default() *Table {
	return New(DefaultRates, ReferenceModel)
}

// Rate returns the rate for modelID and whether it was listed.
func (t *Table) Rate(modelID string) (Rate, bool) {
	id := strings.ToLower(modelID)
	if r, ok := t.rates[id]; ok {
		return r, true
	}
	for _, p := range t.prefixes {
		if strings.HasPrefix(id, p) {
			return t.rates[p], true
		}
	}
	return t.fallback, false
}

// Cost returns input*rate.input + output*rate.output. A nil usage costs 0.
func (t *Table) Cost(modelID string, usage *models.TokenCounts) float64 {
	if usage == nil {
		return 0
	}
	r, _ := t.Rate(modelID)
	in := max(usage.Input, 0)
	out := max(usage.Output, 0)
	return float64(in)*r.Input + float64(out)*r.Output
}
