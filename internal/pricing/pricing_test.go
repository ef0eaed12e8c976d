package pricing

import (
	"testing"

	"github.com/microsoft/modelbench/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCost_SingleCell(t *testing.T) {
	table := New(map[string]Rate{"m1": {Input: 0.00003, Output: 0.00006}}, "m1")

	cost := table.Cost("m1", &models.TokenCounts{Input: 5, Output: 1, Total: 6})
	require.InDelta(t, 0.00021, cost, 1e-12)
	require.InDelta(t, 5*0.00003+1*0.00006, cost, 1e-12)
}

func TestCost_NilUsage(t *testing.T) {
	require.Zero(t, Default().Cost("gpt-4", nil))
}

func TestRate_Lookup(t *testing.T) {
	table := Default()

	tests := []struct {
		name   string
		model  string
		want   Rate
		listed bool
	}{
		{"exact", "gpt-4", DefaultRates["gpt-4"], true},
		{"longest prefix", "gpt-4o-mini-2024-07-18", DefaultRates["gpt-4o-mini"], true},
		{"dated snapshot", "claude-3-opus-20240229", DefaultRates["claude-3-opus"], true},
		{"case insensitive", "Claude-3-Haiku", DefaultRates["claude-3-haiku"], true},
		{"unlisted falls back to reference", "mystery-model", DefaultRates[ReferenceModel], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, listed := table.Rate(tt.model)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.listed, listed)
		})
	}
}

func TestCost_Monotonic(t *testing.T) {
	table := Default()
	for _, model := range []string{"gpt-4", "claude-3-opus", "unknown"} {
		prev := -1.0
		for in := 0; in <= 2000; in += 250 {
			for out := 0; out <= 2000; out += 500 {
				c := table.Cost(model, &models.TokenCounts{Input: in, Output: out})
				require.GreaterOrEqual(t, c, 0.0)
				if out == 0 {
					require.GreaterOrEqual(t, c, prev, "cost must not decrease with input tokens for %s", model)
					prev = c
				}
				next := table.Cost(model, &models.TokenCounts{Input: in, Output: out + 1})
				require.GreaterOrEqual(t, next, c)
			}
		}
	}
}
