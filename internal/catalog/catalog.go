// Package catalog indexes the tests of many spec files by effective tag.
package catalog

import (
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/tags"
	"github.com/samber/lo"
)

// Entry is one test of a scanned spec file.
type Entry struct {
	ID      uint32   `json:"id"`
	File    string   `json:"file"`
	Name    string   `json:"name"`
	Pending bool     `json:"pending"`
	Tags    []string `json:"tags"`
}

// Catalog is an ordered list of entries with a tag index over them.
type Catalog struct {
	entries []Entry
	// byTag maps a tag to the IDs of the entries carrying it.
	byTag map[string]*roaring.Bitmap
}

// New builds a catalog. Entry IDs are reassigned to their position.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		byTag:   make(map[string]*roaring.Bitmap),
	}
	for i, e := range entries {
		e.ID = uint32(i)
		c.entries[i] = e
		for _, tag := range e.Tags {
			bm, ok := c.byTag[tag]
			if !ok {
				bm = roaring.New()
				c.byTag[tag] = bm
			}
			bm.Add(e.ID)
		}
	}
	return c
}

// EntriesFromStructure flattens the tests of one file. Effective tags are
// propagated into s if needed.
func EntriesFromStructure(file string, s api.Structure) []Entry {
	if !tags.Propagated(s) {
		tags.SetEffectiveTags(s)
	}
	var entries []Entry
	tags.VisitQualified(s, func(test *api.Node, qualified string) {
		entries = append(entries, Entry{
			File:    file,
			Name:    qualified,
			Pending: test.Pending,
			Tags:    slices.Clone(test.EffectiveTags),
		})
	})
	return entries
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns all entries in file and source order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Select returns the entries carrying any of the given tags, in catalog order.
func (c *Catalog) Select(want ...string) []Entry {
	var bitmaps []*roaring.Bitmap
	for _, tag := range want {
		if bm, ok := c.byTag[tag]; ok {
			bitmaps = append(bitmaps, bm)
		}
	}
	if len(bitmaps) == 0 {
		return nil
	}

	hits := roaring.FastOr(bitmaps...)
	selected := make([]Entry, 0, hits.GetCardinality())
	it := hits.Iterator()
	for it.HasNext() {
		selected = append(selected, c.entries[it.Next()])
	}
	return selected
}

// Counts returns the number of entries per tag.
func (c *Catalog) Counts() map[string]int {
	return lo.MapValues(c.byTag, func(bm *roaring.Bitmap, _ string) int {
		return int(bm.GetCardinality())
	})
}

// Tags returns every tag in the catalog, sorted.
func (c *Catalog) Tags() []string {
	keys := lo.Keys(c.byTag)
	slices.Sort(keys)
	return keys
}
