package tags

import (
	"context"
	"testing"

	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/extract"
	"github.com/agentic-research/testnames/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structureOf(t *testing.T, code string) api.Structure {
	t.Helper()
	result, err := extract.Extract(context.Background(), []byte(code), ingest.JavaScript, api.DefaultDialect(), true)
	require.NoError(t, err)
	return result.Structure
}

const nestedSource = `
describe(['@user'], 'parent', () => {
  describe(['@auth'], 'child', () => {
    it(['@one'], 'works a', () => {})
    it('works b', () => {})
  })
})
describe(['@new'], 'outside', () => {
  it('works c', () => {})
})
`

func TestSetEffectiveTags(t *testing.T) {
	s := structureOf(t, nestedSource)
	assert.False(t, Propagated(s))

	out := SetEffectiveTags(s)
	assert.Equal(t, s, out)
	assert.True(t, Propagated(s))

	parent := s[0]
	child := parent.Children[0]
	assert.Equal(t, []string{"@user"}, parent.EffectiveTags)
	assert.Equal(t, []string{"@auth", "@user"}, child.EffectiveTags)
	assert.Equal(t, []string{"@auth", "@one", "@user"}, child.Children[0].EffectiveTags)
	assert.Equal(t, []string{"@auth", "@user"}, child.Children[1].EffectiveTags)
	assert.Equal(t, []string{"@new"}, s[1].Children[0].EffectiveTags)

	// Own tags are left alone.
	assert.Nil(t, child.Children[1].Tags)
}

func TestSetEffectiveTagsDeduplicates(t *testing.T) {
	s := structureOf(t, `
describe(['@b', '@a'], 'parent', () => {
  it(['@a', '@c', '@a'], 'test', () => {})
})
`)
	SetEffectiveTags(s)
	assert.Equal(t, []string{"@a", "@b", "@c"}, s[0].Children[0].EffectiveTags)
}

func TestSetEffectiveTagsUntagged(t *testing.T) {
	s := structureOf(t, `it('plain', () => {})`)
	SetEffectiveTags(s)
	assert.NotNil(t, s[0].EffectiveTags)
	assert.Empty(t, s[0].EffectiveTags)
}

func TestSetEffectiveTagsIsIdempotent(t *testing.T) {
	s := structureOf(t, nestedSource)
	SetEffectiveTags(s)

	var first [][]string
	VisitEachTest(s, func(test, _ *api.Node) {
		first = append(first, test.EffectiveTags)
	})

	SetEffectiveTags(s)
	var second [][]string
	VisitEachTest(s, func(test, _ *api.Node) {
		second = append(second, test.EffectiveTags)
	})
	assert.Equal(t, first, second)
}

func TestEffectiveTagsContainOwnTags(t *testing.T) {
	s := SetEffectiveTags(structureOf(t, nestedSource))

	var check func(nodes []*api.Node)
	check = func(nodes []*api.Node) {
		for _, n := range nodes {
			assert.Subset(t, n.EffectiveTags, n.Tags)
			for _, c := range n.Children {
				assert.Subset(t, c.EffectiveTags, n.EffectiveTags)
			}
			check(n.Children)
		}
	}
	check(s)
}
