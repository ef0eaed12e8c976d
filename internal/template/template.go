// Package template renders test case prompts that reference dataset columns.
package template

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"text/template/parse"
)

// Context holds all variables available for template resolution.
type Context struct {
	// Benchmark is the name of the suite being loaded.
	Benchmark string
	// TestCaseID and Row identify the dataset row being rendered.
	TestCaseID string
	Row        int

	// Vars holds the row's non-reserved columns.
	Vars map[string]string
}

// FieldError locates a template failure in a dataset row.
type FieldError struct {
	Benchmark  string
	Row        int
	TestCaseID string
	Field      string
	Err        error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("row %d %s [%s]: %v", e.Row, e.Field, e.TestCaseID, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Render resolves template expressions in the given string.
// Uses Go's text/template syntax: {{.TestCaseID}}, {{.Vars.country}}.
// Returns the input unchanged if it contains no template delimiters.
func Render(tmpl string, ctx *Context) (string, error) {
	t, err := parseTemplate(tmpl)
	if err != nil {
		return "", err
	}
	if t == nil {
		return tmpl, nil
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("template: render: %w", err)
	}
	return buf.String(), nil
}

// RenderField renders one column of the row, reporting failures as a
// [FieldError] that names the row and column.
func (ctx *Context) RenderField(field, tmpl string) (string, error) {
	out, err := Render(tmpl, ctx)
	if err != nil {
		return "", &FieldError{
			Benchmark:  ctx.Benchmark,
			Row:        ctx.Row,
			TestCaseID: ctx.TestCaseID,
			Field:      field,
			Err:        err,
		}
	}
	return out, nil
}

// Vars returns the sorted column names tmpl reads through {{.Vars.name}}.
func Vars(tmpl string) ([]string, error) {
	t, err := parseTemplate(tmpl)
	if err != nil || t == nil {
		return nil, err
	}

	seen := map[string]bool{}
	walk(t.Root, func(f *parse.FieldNode) {
		if len(f.Ident) >= 2 && f.Ident[0] == "Vars" {
			seen[f.Ident[1]] = true
		}
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func parseTemplate(tmpl string) (*template.Template, error) {
	if !strings.Contains(tmpl, "{{") {
		return nil, nil
	}
	t, err := template.New("").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("template: parse: %w", err)
	}
	return t, nil
}

func walk(node parse.Node, visit func(*parse.FieldNode)) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walk(c, visit)
		}
	case *parse.ActionNode:
		walk(n.Pipe, visit)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, c := range n.Cmds {
			walk(c, visit)
		}
	case *parse.CommandNode:
		for _, a := range n.Args {
			walk(a, visit)
		}
	case *parse.FieldNode:
		visit(n)
	case *parse.IfNode:
		walk(n.Pipe, visit)
		walk(n.List, visit)
		walk(n.ElseList, visit)
	case *parse.RangeNode:
		walk(n.Pipe, visit)
		walk(n.List, visit)
		walk(n.ElseList, visit)
	case *parse.WithNode:
		walk(n.Pipe, visit)
		walk(n.List, visit)
		walk(n.ElseList, visit)
	}
}
