package linter

import (
	"context"
	"testing"

	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lint(t *testing.T, code string) []Diagnostic {
	t.Helper()
	diags, err := New(api.DefaultDialect()).Lint(context.Background(), []byte(code), ingest.JavaScript)
	require.NoError(t, err)
	return diags
}

func rules(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Rule)
	}
	return out
}

func TestLintClean(t *testing.T) {
	diags := lint(t, `
describe(['@auth'], 'login', () => {
  beforeEach(() => cy.visit('/'))
  it('works', () => {})
  it.skip('later')
})
`)
	assert.Empty(t, diags)
}

func TestLintRules(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"focused test", `it.only('a', () => {})`, []string{RuleFocused}},
		{"focused suite", `describe.only('a', () => { it('b', () => {}) })`, []string{RuleFocused}},
		{"no arguments", `it()`, []string{RuleUnnamed}},
		{"tags only", `it(['@a'])`, []string{RuleUnnamed}},
		{"variable name", `it(name, () => {})`, []string{RuleDynamicName}},
		{"template with substitution", "it(`case ${n}`, () => {})", []string{RuleDynamicName}},
		{"variable tag", `it(['@a', TAG], 'x', () => {})`, []string{RuleDynamicTag}},
		{"duplicate test", `describe('s', () => { it('x', () => {}); it('x', () => {}) })`, []string{RuleDuplicate}},
		{"same name in different suites", `describe('a', () => { it('x', () => {}) }); describe('b', () => { it('x', () => {}) })`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules(lint(t, tt.code)))
		})
	}
}

func TestLintPositions(t *testing.T) {
	diags := lint(t, `describe('s', () => {
  it('x', () => {})
  it.only('x', () => {})
})`)

	require.Len(t, diags, 2)
	assert.Equal(t, Diagnostic{
		Rule:    RuleFocused,
		Message: "test is focused with .only",
		Line:    2,
		Column:  2,
	}, diags[0])
	assert.Equal(t, RuleDuplicate, diags[1].Rule)
	assert.Equal(t, `line 3: test "s x" is already defined on line 2 [duplicate-name]`, diags[1].String())
}

func TestLintSkipsTestBodies(t *testing.T) {
	diags := lint(t, `
it('outer', () => {
  it.only(dynamic, () => {})
})
`)
	assert.Empty(t, diags)
}

func TestLintSyntaxError(t *testing.T) {
	_, err := New(api.DefaultDialect()).Lint(context.Background(), []byte(`it('x', () => {`), ingest.JavaScript)
	var serr *ingest.SyntaxError
	assert.ErrorAs(t, err, &serr)
}
