package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		ctx     *Context
		want    string
		wantErr bool
	}{
		{
			name: "benchmark name",
			tmpl: "Suite {{.Benchmark}}",
			ctx:  &Context{Benchmark: "geography"},
			want: "Suite geography",
		},
		{
			name: "row identity",
			tmpl: "{{.TestCaseID}} is row {{.Row}}",
			ctx:  &Context{TestCaseID: "capitals-3", Row: 3},
			want: "capitals-3 is row 3",
		},
		{
			name: "dataset columns",
			tmpl: "What is the capital of {{.Vars.country}} in {{.Vars.year}}?",
			ctx: &Context{
				Vars: map[string]string{
					"country": "France",
					"year":    "1900",
				},
			},
			want: "What is the capital of France in 1900?",
		},
		{
			name: "no templates passthrough",
			tmpl: "plain string with no templates",
			ctx:  &Context{Benchmark: "ignored"},
			want: "plain string with no templates",
		},
		{
			name: "empty string input",
			tmpl: "",
			ctx:  &Context{},
			want: "",
		},
		{
			name:    "missing field",
			tmpl:    "{{.NoSuchField}}",
			ctx:     &Context{},
			wantErr: true,
		},
		{
			name:    "missing Vars key",
			tmpl:    "{{.Vars.missing}}",
			ctx:     &Context{Vars: map[string]string{}},
			wantErr: true,
		},
		{
			name:    "unterminated action",
			tmpl:    "{{.Vars.country",
			ctx:     &Context{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.ctx)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderField(t *testing.T) {
	ctx := &Context{
		Benchmark:  "geography",
		TestCaseID: "geography-2",
		Row:        2,
		Vars:       map[string]string{"country": "Peru"},
	}

	got, err := ctx.RenderField("prompt", "Capital of {{.Vars.country}}?")
	require.NoError(t, err)
	assert.Equal(t, "Capital of Peru?", got)

	_, err = ctx.RenderField("expected_output", "{{.Vars.city}}")
	require.Error(t, err)

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "geography", fieldErr.Benchmark)
	assert.Equal(t, 2, fieldErr.Row)
	assert.Equal(t, "expected_output", fieldErr.Field)
	assert.Contains(t, err.Error(), "row 2 expected_output [geography-2]: template: render")
}

func TestVars(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		want    []string
		wantErr bool
	}{
		{name: "plain text", tmpl: "no templates here"},
		{name: "non-vars fields", tmpl: "{{.Benchmark}} row {{.Row}}", want: []string{}},
		{
			name: "sorted and deduplicated",
			tmpl: "{{.Vars.year}} {{.Vars.country}} {{.Vars.year}}",
			want: []string{"country", "year"},
		},
		{
			name: "inside conditionals and pipelines",
			tmpl: "{{if .Vars.hint}}{{.Vars.hint | printf \"%s\"}}{{else}}{{.Vars.fallback}}{{end}}",
			want: []string{"fallback", "hint"},
		},
		{name: "parse error", tmpl: "{{.Vars.country", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Vars(tt.tmpl)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
