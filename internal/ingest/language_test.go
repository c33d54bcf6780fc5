package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"cypress/e2e/login.cy.js", JavaScript},
		{"spec.JSX", JavaScript},
		{"spec.mjs", JavaScript},
		{"spec.cjs", JavaScript},
		{"spec.ts", TypeScript},
		{"spec.mts", TypeScript},
		{"spec.cts", TypeScript},
		{"component.cy.tsx", TSX},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectLanguage(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotNil(t, got.Grammar())
		})
	}

	_, err := DetectLanguage("README.md")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	_, err = DetectLanguage("Makefile")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParseLanguage(t *testing.T) {
	for name, want := range map[string]Language{
		"javascript": JavaScript,
		"js":         JavaScript,
		"TypeScript": TypeScript,
		"ts":         TypeScript,
		"tsx":        TSX,
	} {
		got, err := ParseLanguage(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLanguage("coffee")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestGrammarUnknown(t *testing.T) {
	assert.Nil(t, Language("go").Grammar())
}
