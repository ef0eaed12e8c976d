// Package textparse pulls structured data out of free-form model output.
package textparse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports that no structured data could be recovered.
type ParseError struct {
	What  string
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: no usable data in %q", e.What, Truncate(e.Input, 80))
}

var (
	codeBlockRe   = regexp.MustCompile("(?s)```([a-zA-Z0-9_-]*)\\s*\\n(.*?)```")
	inlineArrayRe = regexp.MustCompile(`(?s)^\[.*\]$`)
	inlineObjRe   = regexp.MustCompile(`(?s)^\{.*\}$`)
	scoreLineRe   = regexp.MustCompile(`(?i)^\s*[-*]?\s*"?([a-z][a-z _-]*?)"?\s*[:=]\s*([0-9]*\.?[0-9]+)\s*$`)
)

// CodeBlock is a fenced block of a markdown response.
type CodeBlock struct {
	Language string
	Content  string
}

// CodeBlocks returns every fenced block in order.
func CodeBlocks(s string) []CodeBlock {
	matches := codeBlockRe.FindAllStringSubmatch(s, -1)
	blocks := make([]CodeBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, CodeBlock{Language: strings.ToLower(m[1]), Content: m[2]})
	}
	return blocks
}

func withoutCodeBlocks(s string) string {
	return codeBlockRe.ReplaceAllString(s, "")
}

// ExtractJSONArray returns the objects of every JSON array found in s.
// Fenced json blocks are tried first, then lines that are a bare array.
func ExtractJSONArray(s string) []map[string]any {
	var out []map[string]any
	for _, b := range CodeBlocks(s) {
		if b.Language != "json" && b.Language != "" {
			continue
		}
		var arr []map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(b.Content)), &arr); err == nil {
			out = append(out, arr...)
		}
	}
	for _, line := range strings.Split(withoutCodeBlocks(s), "\n") {
		line = strings.TrimSpace(line)
		if !inlineArrayRe.MatchString(line) {
			continue
		}
		var arr []map[string]any
		if err := json.Unmarshal([]byte(line), &arr); err == nil {
			out = append(out, arr...)
		}
	}
	return out
}

// ExtractJSONObject returns the first JSON object found in s.
func ExtractJSONObject(s string) (map[string]any, bool) {
	for _, b := range CodeBlocks(s) {
		if b.Language != "json" && b.Language != "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(b.Content)), &obj); err == nil {
			return obj, true
		}
	}
	trimmed := strings.TrimSpace(withoutCodeBlocks(s))
	if inlineObjRe.MatchString(trimmed) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return obj, true
		}
	}
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if !inlineObjRe.MatchString(line) {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err == nil {
			return obj, true
		}
	}
	return nil, false
}

// ExtractScores finds named numeric scores in s. JSON objects win; when
// none are present, "name: 0.8" lines are read instead. Keys are
// lower-cased with spaces and dashes folded to underscores.
func ExtractScores(s string) (map[string]float64, error) {
	scores := map[string]float64{}
	if obj, ok := ExtractJSONObject(s); ok {
		for k, v := range obj {
			if f, ok := toFloat(v); ok {
				scores[normalizeKey(k)] = f
			}
		}
	}
	if len(scores) == 0 {
		for _, line := range strings.Split(s, "\n") {
			m := scoreLineRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			f, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			scores[normalizeKey(m[1])] = f
		}
	}
	if len(scores) == 0 {
		return nil, &ParseError{What: "scores", Input: s}
	}
	return scores, nil
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Truncate shortens s to at most limit runes, ending in "..." when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return min(1, max(0, v))
}
