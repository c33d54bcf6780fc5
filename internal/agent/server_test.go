package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentic-research/testnames"
	"github.com/agentic-research/testnames/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spec = `
describe(['@auth'], 'login', () => {
  it(['@smoke'], 'works', () => {})
  it('fails', () => {})
})
`

func call(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	content, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestFindEffectiveTags(t *testing.T) {
	res, err := NewTools().FindEffectiveTags(context.Background(), call("find_effective_tags", map[string]any{
		"source": spec,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"login works":["@auth","@smoke"],"login fails":["@auth"]}`, text(t, res))
}

func TestFilterTests(t *testing.T) {
	res, err := NewTools().FilterTests(context.Background(), call("filter_tests", map[string]any{
		"source": spec,
		"tags":   []any{"@smoke"},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var nodes []api.Node
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &nodes))
	require.Len(t, nodes, 1)
	assert.Equal(t, "works", *nodes[0].Name)
	assert.Equal(t, []string{"@auth", "@smoke"}, nodes[0].EffectiveTags)
}

func TestCountTagsTypeScript(t *testing.T) {
	res, err := NewTools().CountTags(context.Background(), call("count_tags", map[string]any{
		"source":   `describe(['@ts'], 'typed', (): void => { it('works', (): void => {}) })`,
		"language": "typescript",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.JSONEq(t, `{"@ts":1}`, text(t, res))
}

func TestToolsUseDialect(t *testing.T) {
	tools := NewTools(testnames.WithDialect(api.Dialect{Suites: []string{"suite"}, Tests: []string{"test"}}))
	res, err := tools.CountTags(context.Background(), call("count_tags", map[string]any{
		"source": `suite(['@s'], 'one', () => { test('a', () => {}); it('ignored', () => {}) })`,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"@s":1}`, text(t, res))
}

func TestToolErrors(t *testing.T) {
	tools := NewTools()
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() (*mcp.CallToolResult, error)
	}{
		{"missing source", func() (*mcp.CallToolResult, error) {
			return tools.FindEffectiveTags(ctx, call("find_effective_tags", map[string]any{}))
		}},
		{"syntax error", func() (*mcp.CallToolResult, error) {
			return tools.CountTags(ctx, call("count_tags", map[string]any{"source": `it('x', () => {`}))
		}},
		{"unknown language", func() (*mcp.CallToolResult, error) {
			return tools.CountTags(ctx, call("count_tags", map[string]any{"source": spec, "language": "ruby"}))
		}},
		{"missing tags", func() (*mcp.CallToolResult, error) {
			return tools.FilterTests(ctx, call("filter_tests", map[string]any{"source": spec}))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.run()
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

func TestNewServer(t *testing.T) {
	assert.NotNil(t, NewServer("test", NewTools()))
}

func TestLintSpec(t *testing.T) {
	res, err := NewTools().LintSpec(context.Background(), call("lint_spec", map[string]any{
		"source": "describe('a', () => {\n  it.only('b', () => {})\n})",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.JSONEq(t, `[{"rule":"focused","message":"test is focused with .only","line":1,"column":2}]`, text(t, res))

	res, err = NewTools().LintSpec(context.Background(), call("lint_spec", map[string]any{
		"source": spec,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, text(t, res))
}
