package textparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"fenced", "Result:\n```json\n[{\"a\": 1}, {\"a\": 2}]\n```\n", 2},
		{"unlabelled fence", "```\n[{\"a\": 1}]\n```", 1},
		{"inline line", "here you go\n[{\"a\": 1}]\nthanks", 1},
		{"fenced and inline", "```json\n[{\"a\": 1}]\n```\n[{\"b\": 2}]", 2},
		{"other language ignored", "```yaml\n- a: 1\n```", 0},
		{"garbage", "no json at all", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, ExtractJSONArray(tt.input), tt.want)
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	obj, ok := ExtractJSONObject("```json\n{\"accuracy\": 0.9}\n```")
	require.True(t, ok)
	require.Equal(t, 0.9, obj["accuracy"])

	obj, ok = ExtractJSONObject(`{"accuracy": 0.4, "domain_expertise": 0.7}`)
	require.True(t, ok)
	require.Len(t, obj, 2)

	obj, ok = ExtractJSONObject("Scores follow.\n{\"accuracy\": 1}\nDone.")
	require.True(t, ok)
	require.Equal(t, 1.0, obj["accuracy"])

	_, ok = ExtractJSONObject("nothing")
	require.False(t, ok)
}

func TestExtractScores(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		scores, err := ExtractScores(`{"Accuracy": 0.8, "domain-expertise": "0.6", "feedback": "ok"}`)
		require.NoError(t, err)
		require.Equal(t, map[string]float64{"accuracy": 0.8, "domain_expertise": 0.6}, scores)
	})

	t.Run("lines", func(t *testing.T) {
		scores, err := ExtractScores("Evaluation\n- accuracy: 0.75\n- Domain Expertise = .5\nthe answer was fine")
		require.NoError(t, err)
		require.InDelta(t, 0.75, scores["accuracy"], 1e-9)
		require.InDelta(t, 0.5, scores["domain_expertise"], 1e-9)
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := ExtractScores("I cannot grade this.")
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		require.Equal(t, "scores", perr.What)
	})
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "hello", Truncate("hello", 10))
	require.Equal(t, "hel...", Truncate("hello world", 6))
	require.Equal(t, "héé", Truncate("héééé", 3))
	require.Equal(t, "abc", Truncate("abc", 0))
}

func TestClamp01(t *testing.T) {
	require.Equal(t, 0.0, Clamp01(-1))
	require.Equal(t, 1.0, Clamp01(3))
	require.Equal(t, 0.25, Clamp01(0.25))
}
