package catalog

import (
	"testing"

	"github.com/agentic-research/testnames/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{ID: 42, File: "a.cy.js", Name: "login works", Tags: []string{"@auth", "@smoke"}},
		{File: "a.cy.js", Name: "login fails", Pending: true, Tags: []string{"@auth"}},
		{File: "b.cy.js", Name: "cart adds", Tags: []string{"@cart", "@smoke"}},
		{File: "b.cy.js", Name: "cart untagged", Tags: []string{}},
	}
}

func TestNewAssignsIDs(t *testing.T) {
	c := New(sampleEntries())
	require.Equal(t, 4, c.Len())
	for i, e := range c.Entries() {
		assert.Equal(t, uint32(i), e.ID)
	}
}

func TestSelect(t *testing.T) {
	c := New(sampleEntries())

	names := func(entries []Entry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.Name)
		}
		return out
	}

	assert.Equal(t, []string{"login works", "login fails"}, names(c.Select("@auth")))
	assert.Equal(t, []string{"login works", "cart adds"}, names(c.Select("@smoke")))
	assert.Equal(t, []string{"login works", "login fails", "cart adds"}, names(c.Select("@cart", "@auth")))
	assert.Nil(t, c.Select("@missing"))
	assert.Nil(t, c.Select())
}

func TestCountsAndTags(t *testing.T) {
	c := New(sampleEntries())
	assert.Equal(t, map[string]int{"@auth": 2, "@smoke": 2, "@cart": 1}, c.Counts())
	assert.Equal(t, []string{"@auth", "@cart", "@smoke"}, c.Tags())
}

func TestEntriesFromStructure(t *testing.T) {
	suite := api.NewSuite(api.Ptr("login"), []string{"@auth"}, false)
	suite.AddChild(api.NewTest(api.Ptr("works"), []string{"@smoke"}, false))
	suite.AddChild(api.NewTest(nil, nil, true))
	s := api.Structure{suite, api.NewTest(api.Ptr("top"), nil, false)}

	entries := EntriesFromStructure("a.cy.js", s)
	assert.Equal(t, []Entry{
		{File: "a.cy.js", Name: "login works", Tags: []string{"@auth", "@smoke"}},
		{File: "a.cy.js", Name: "login", Pending: true, Tags: []string{"@auth"}},
		{File: "a.cy.js", Name: "top", Tags: []string{}},
	}, entries)
}
