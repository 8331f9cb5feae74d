package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/navlink/internal/util"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{
			name:    "static pattern",
			pattern: "/users/settings",
		},
		{
			name:    "required parameter",
			pattern: "/users/:id",
		},
		{
			name:    "optional parameter",
			pattern: "/settings/:section?",
		},
		{
			name:    "trailing wildcard",
			pattern: "/files/*",
		},
		{
			name:    "bare wildcard",
			pattern: "*",
		},
		{
			name:    "bare slash wildcard",
			pattern: "/*",
		},
		{
			name:    "root",
			pattern: "/",
		},
		{
			name:    "underscore parameter",
			pattern: "/items/:item_id",
		},
		{
			name:    "missing leading slash",
			pattern: "home",
			wantErr: true,
		},
		{
			name:    "wildcard not last",
			pattern: "/files/*/more",
			wantErr: true,
		},
		{
			name:    "parameter name starts with digit",
			pattern: "/users/:1abc",
			wantErr: true,
		},
		{
			name:    "empty parameter name",
			pattern: "/users/:",
			wantErr: true,
		},
		{
			name:    "empty optional parameter name",
			pattern: "/users/:?",
			wantErr: true,
		},
		{
			name:    "parameter name with dash",
			pattern: "/users/:user-id",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := Parse(tt.pattern)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, util.ErrInvalidPattern)
				assert.False(t, Valid(tt.pattern))
				return
			}
			require.NoError(t, err)
			assert.True(t, Valid(tt.pattern))
			assert.Equal(t, tt.pattern, p.Raw())
		})
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pattern    string
		path       string
		matched    bool
		wantParams map[string]string
	}{
		{
			name:       "static match",
			pattern:    "/users/settings",
			path:       "/users/settings",
			matched:    true,
			wantParams: map[string]string{},
		},
		{
			name:       "static match is case insensitive",
			pattern:    "/Users/Settings",
			path:       "/users/settings",
			matched:    true,
			wantParams: map[string]string{},
		},
		{
			name:       "required parameter binds",
			pattern:    "/users/:id",
			path:       "/users/42",
			matched:    true,
			wantParams: map[string]string{"id": "42"},
		},
		{
			name:    "required parameter missing",
			pattern: "/users/:id",
			path:    "/users",
			matched: false,
		},
		{
			name:       "optional parameter present",
			pattern:    "/settings/:section?",
			path:       "/settings/privacy",
			matched:    true,
			wantParams: map[string]string{"section": "privacy"},
		},
		{
			name:       "optional parameter absent",
			pattern:    "/settings/:section?",
			path:       "/settings",
			matched:    true,
			wantParams: map[string]string{},
		},
		{
			name:    "optional parameter with extra segment",
			pattern: "/settings/:section?",
			path:    "/settings/privacy/extra",
			matched: false,
		},
		{
			name:       "wildcard absorbs remainder",
			pattern:    "/files/*",
			path:       "/files/a/b/c",
			matched:    true,
			wantParams: map[string]string{"*": "a/b/c"},
		},
		{
			name:       "wildcard with nothing remaining",
			pattern:    "/files/*",
			path:       "/files",
			matched:    true,
			wantParams: map[string]string{"*": ""},
		},
		{
			name:       "bare wildcard binds full path",
			pattern:    "/*",
			path:       "/any/thing/here",
			matched:    true,
			wantParams: map[string]string{"path": "/any/thing/here"},
		},
		{
			name:    "trailing segments without wildcard",
			pattern: "/users/:id",
			path:    "/users/42/posts",
			matched: false,
		},
		{
			name:    "static mismatch",
			pattern: "/users/settings",
			path:    "/users/profile",
			matched: false,
		},
		{
			name:       "duplicate and trailing slashes normalize",
			pattern:    "/home",
			path:       "//home/",
			matched:    true,
			wantParams: map[string]string{},
		},
		{
			name:       "pattern without leading slash does not match",
			pattern:    "home",
			path:       "/home",
			matched:    false,
			wantParams: nil,
		},
		{
			name:       "root matches root only",
			pattern:    "/",
			path:       "/",
			matched:    true,
			wantParams: map[string]string{},
		},
		{
			name:    "root does not match non-empty path",
			pattern: "/",
			path:    "/home",
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params, ok := Extract(tt.pattern, tt.path)
			assert.Equal(t, tt.matched, Match(tt.pattern, tt.path),
				"Match and Extract must agree")
			if !tt.matched {
				assert.False(t, ok)
				return
			}

			require.True(t, ok)
			assert.Len(t, params, len(tt.wantParams))
			for name, want := range tt.wantParams {
				got, present := params.String(name)
				require.True(t, present, "parameter %q missing", name)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestExtractInferredTypes(t *testing.T) {
	t.Parallel()

	p := MustParse("/orders/:id/:total/:express/:ref")
	params, ok := p.Extract("/orders/42/19.99/true/550e8400-e29b-41d4-a716-446655440000")
	require.True(t, ok)

	id, ok := params.Int("id")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, KindInt, params["id"].Kind())

	total, ok := params.Float("total")
	require.True(t, ok)
	assert.InDelta(t, 19.99, total, 0.0001)
	assert.Equal(t, KindFloat, params["total"].Kind())

	express, ok := params.Bool("express")
	require.True(t, ok)
	assert.True(t, express)

	ref, ok := params.UUID("ref")
	require.True(t, ok)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", ref.String())
	assert.Equal(t, KindUUID, params["ref"].Kind())
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		params  Params
		want    string
		wantErr bool
	}{
		{
			name:    "static only",
			pattern: "/users/settings",
			params:  Params{},
			want:    "/users/settings",
		},
		{
			name:    "required parameter substituted",
			pattern: "/users/:id",
			params:  Params{"id": Infer("42")},
			want:    "/users/42",
		},
		{
			name:    "missing required parameter fails",
			pattern: "/users/:id",
			params:  Params{},
			wantErr: true,
		},
		{
			name:    "optional parameter substituted",
			pattern: "/settings/:section?",
			params:  Params{"section": Infer("privacy")},
			want:    "/settings/privacy",
		},
		{
			name:    "missing optional parameter drops segment",
			pattern: "/settings/:section?",
			params:  Params{},
			want:    "/settings",
		},
		{
			name:    "wildcard appended when bound",
			pattern: "/files/*",
			params:  Params{"*": StringValue("a/b/c")},
			want:    "/files/a/b/c",
		},
		{
			name:    "wildcard omitted when unbound",
			pattern: "/files/*",
			params:  Params{},
			want:    "/files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := MustParse(tt.pattern)
			got, err := p.Build(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, util.ErrMissingParam)
				var missing *util.MissingParameterError
				assert.True(t, errors.As(err, &missing))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildExtractRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		params  map[string]string
	}{
		{pattern: "/users/:id", params: map[string]string{"id": "42"}},
		{pattern: "/orders/:order/:line", params: map[string]string{"order": "a1", "line": "7"}},
		{pattern: "/docs/:lang/:slug", params: map[string]string{"lang": "en", "slug": "intro"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			p := MustParse(tt.pattern)
			in := make(Params, len(tt.params))
			for k, v := range tt.params {
				in[k] = Infer(v)
			}

			path, err := p.Build(in)
			require.NoError(t, err)

			out, ok := p.Extract(path)
			require.True(t, ok)
			require.Len(t, out, len(in))
			for k := range in {
				got, present := out.String(k)
				require.True(t, present)
				assert.Equal(t, in[k].String(), got)
			}
		})
	}
}

func TestSpecificity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 200, MustParse("/users/settings").Specificity())
	assert.Equal(t, 110, MustParse("/users/:id").Specificity())
	assert.Equal(t, 105, MustParse("/users/:id?").Specificity())
	assert.Equal(t, 101, MustParse("/users/*").Specificity())
	assert.Equal(t, 1, MustParse("/*").Specificity())

	// Monotonicity: static > required > optional > wildcard in any slot.
	base := MustParse("/a/:x").Specificity()
	assert.Greater(t, MustParse("/a/b").Specificity(), base)
	assert.Less(t, MustParse("/a/:x?").Specificity(), base)
	assert.Less(t, MustParse("/a/*").Specificity(), MustParse("/a/:x?").Specificity())
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "param against static same shape",
			a:    "/users/:id",
			b:    "/users/settings",
			want: true,
		},
		{
			name: "distinct statics",
			a:    "/users/settings",
			b:    "/users/profile",
			want: false,
		},
		{
			name: "different segment count",
			a:    "/users/:id",
			b:    "/users/:id/posts",
			want: false,
		},
		{
			name: "params on both sides",
			a:    "/a/:x",
			b:    "/a/:y",
			want: true,
		},
		{
			name: "bare wildcards overlap each other",
			a:    "/*",
			b:    "*",
			want: true,
		},
		{
			name: "bare wildcard does not flag fixed-length pattern",
			a:    "/*",
			b:    "/users/:id",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := MustParse(tt.a)
			b := MustParse(tt.b)
			assert.Equal(t, tt.want, a.Overlaps(b))
			assert.Equal(t, tt.want, b.Overlaps(a))
		})
	}
}

func TestParamNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"id", "section", "*"},
		MustParse("/users/:id/:section?/*").ParamNames())
	assert.Equal(t, []string{"path"}, MustParse("/*").ParamNames())
	assert.Empty(t, MustParse("/users/settings").ParamNames())
}
