// Package agent exposes tag queries to LLM agents as MCP tools over stdio.
package agent

import (
	"context"
	"encoding/json"

	"github.com/agentic-research/testnames"
	"github.com/agentic-research/testnames/internal/ingest"
	"github.com/agentic-research/testnames/internal/linter"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tools answers tool calls with a dialect taken from the finder options.
type Tools struct {
	opts []testnames.Option
}

func NewTools(opts ...testnames.Option) *Tools {
	return &Tools{opts: opts}
}

// NewServer registers the tools on a new MCP server.
func NewServer(version string, t *Tools) *server.MCPServer {
	s := server.NewMCPServer("testnames", version, server.WithToolCapabilities(false))

	source := mcp.WithString("source",
		mcp.Required(),
		mcp.Description("Spec file source text"),
	)
	language := mcp.WithString("language",
		mcp.Description("Grammar for the source text"),
		mcp.Enum(string(ingest.JavaScript), string(ingest.TypeScript), string(ingest.TSX)),
	)

	s.AddTool(mcp.NewTool("find_effective_tags",
		mcp.WithDescription("Map every test's qualified name to its tags, including tags inherited from enclosing suites"),
		source, language,
	), t.FindEffectiveTags)

	s.AddTool(mcp.NewTool("filter_tests",
		mcp.WithDescription("List the tests carrying any of the given tags, directly or through their suites"),
		source, language,
		mcp.WithArray("tags",
			mcp.Required(),
			mcp.Description("Tags to match, any one suffices"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), t.FilterTests)

	s.AddTool(mcp.NewTool("count_tags",
		mcp.WithDescription("Count the tests carrying each tag"),
		source, language,
	), t.CountTags)

	s.AddTool(mcp.NewTool("lint_spec",
		mcp.WithDescription("Report focused tests, duplicate test names and names or tags that cannot be read without running the file"),
		source, language,
	), t.LintSpec)

	return s
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (t *Tools) FindEffectiveTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, source, errResult := t.finder(req)
	if errResult != nil {
		return errResult, nil
	}
	found, err := f.FindEffectiveTestTags(source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(found)
}

func (t *Tools) FilterTests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, source, errResult := t.finder(req)
	if errResult != nil {
		return errResult, nil
	}
	want, err := req.RequireStringSlice("tags")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tests, err := f.FilterSourceByEffectiveTags(source, want)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tests)
}

func (t *Tools) CountTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, source, errResult := t.finder(req)
	if errResult != nil {
		return errResult, nil
	}
	counts, err := f.CountSourceTags(source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(counts)
}

func (t *Tools) LintSpec(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, source, errResult := t.finder(req)
	if errResult != nil {
		return errResult, nil
	}
	lang, _ := f.Language()
	diags, err := linter.New(f.Dialect()).Lint(ctx, []byte(source), lang)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if diags == nil {
		diags = []linter.Diagnostic{}
	}
	return jsonResult(diags)
}

// finder reads the shared source and language arguments.
func (t *Tools) finder(req mcp.CallToolRequest) (*testnames.Finder, string, *mcp.CallToolResult) {
	source, err := req.RequireString("source")
	if err != nil {
		return nil, "", mcp.NewToolResultError(err.Error())
	}
	opts := t.opts
	if name := req.GetString("language", ""); name != "" {
		lang, err := ingest.ParseLanguage(name)
		if err != nil {
			return nil, "", mcp.NewToolResultError(err.Error())
		}
		opts = append(opts[:len(opts):len(opts)], testnames.WithLanguage(lang))
	}
	return testnames.New(opts...), source, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
