// Package testnames reads describe/it style spec files without running them
// and reports their suites, tests and tags, including the tags every test
// inherits from its enclosing suites.
//
// The operations that accept source text build a private structure and never
// expose it. SetEffectiveTags, CountTags and FilterByEffectiveTags work on a
// caller-owned structure and attach effective tags to it in place.
package testnames

import (
	"context"
	"path/filepath"

	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/extract"
	"github.com/agentic-research/testnames/internal/ingest"
	"github.com/agentic-research/testnames/internal/tags"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Language selects the grammar source text is parsed with.
type Language = ingest.Language

const (
	JavaScript = ingest.JavaScript
	TypeScript = ingest.TypeScript
	TSX        = ingest.TSX
)

// Finder extracts test structure with a fixed dialect and language.
type Finder struct {
	dialect api.Dialect
	lang    Language
	forced  bool
	fs      billy.Filesystem
}

// Option configures a Finder.
type Option func(*Finder)

// WithDialect sets the suite and test function names.
func WithDialect(d api.Dialect) Option {
	return func(f *Finder) { f.dialect = d }
}

// WithLanguage sets the grammar for source text and for files, which are
// otherwise parsed according to their extension, or as JavaScript when the
// extension names no supported language.
func WithLanguage(l Language) Option {
	return func(f *Finder) {
		f.lang = l
		f.forced = true
	}
}

// WithFilesystem makes the *In operations read from fs instead of the OS.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(f *Finder) { f.fs = fs }
}

func New(opts ...Option) *Finder {
	f := &Finder{dialect: api.DefaultDialect(), lang: JavaScript}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Dialect returns the dialect f recognizes.
func (f *Finder) Dialect() api.Dialect {
	return f.dialect
}

// Language returns the grammar source text is parsed with and whether it
// also overrides extension detection for files.
func (f *Finder) Language() (Language, bool) {
	return f.lang, f.forced
}

// GetTestNames extracts the suites and tests of source.
func (f *Finder) GetTestNames(source string, withStructure bool) (*api.ExtractionResult, error) {
	return extract.Extract(context.Background(), []byte(source), f.lang, f.dialect, withStructure)
}

// GetTestNamesIn is GetTestNames for the file at path.
func (f *Finder) GetTestNamesIn(path string, withStructure bool) (*api.ExtractionResult, error) {
	content, lang, err := f.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := ingest.ParseAs(context.Background(), path, content, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return extract.FromTree(tree, f.dialect, withStructure), nil
}

// FindEffectiveTestTags maps the qualified name of every test in source
// to its sorted effective tags.
func (f *Finder) FindEffectiveTestTags(source string) (map[string][]string, error) {
	result, err := f.GetTestNames(source, true)
	if err != nil {
		return nil, err
	}
	return tags.QualifiedNames(result.Structure), nil
}

// FindEffectiveTestTagsIn is FindEffectiveTestTags for the file at path.
func (f *Finder) FindEffectiveTestTagsIn(path string) (map[string][]string, error) {
	result, err := f.GetTestNamesIn(path, true)
	if err != nil {
		return nil, err
	}
	return tags.QualifiedNames(result.Structure), nil
}

// FilterSourceByEffectiveTags returns the tests of source, in source order,
// carrying any of the given tags directly or through their suites.
func (f *Finder) FilterSourceByEffectiveTags(source string, want []string) ([]*api.Node, error) {
	result, err := f.GetTestNames(source, true)
	if err != nil {
		return nil, err
	}
	return tags.FilterByEffectiveTags(result.Structure, want), nil
}

// CountSourceTags counts the tests of source per effective tag.
func (f *Finder) CountSourceTags(source string) (map[string]int, error) {
	result, err := f.GetTestNames(source, true)
	if err != nil {
		return nil, err
	}
	return tags.CountTags(result.Structure), nil
}

// ReadFile reads the spec file at path and reports the language it will
// be parsed as: the forced language if any, else the one its extension
// names, else the finder's default.
func (f *Finder) ReadFile(path string) ([]byte, Language, error) {
	lang := f.lang
	if !f.forced {
		if detected, err := ingest.DetectLanguage(path); err == nil {
			lang = detected
		}
	}

	fs := f.fs
	if fs == nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, "", err
		}
		fs, path = osfs.New(filepath.Dir(abs)), filepath.Base(abs)
	}
	content, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, "", err
	}
	return content, lang, nil
}

var defaultFinder = New()

// GetTestNames extracts the suites and tests of JavaScript source using
// the default dialect.
func GetTestNames(source string, withStructure bool) (*api.ExtractionResult, error) {
	return defaultFinder.GetTestNames(source, withStructure)
}

// FindEffectiveTestTags maps the qualified name of every test in source
// to its sorted effective tags.
func FindEffectiveTestTags(source string) (map[string][]string, error) {
	return defaultFinder.FindEffectiveTestTags(source)
}

// FindEffectiveTestTagsIn reads the spec file at path and maps the
// qualified name of every test to its sorted effective tags.
func FindEffectiveTestTagsIn(path string) (map[string][]string, error) {
	return defaultFinder.FindEffectiveTestTagsIn(path)
}

// FilterSourceByEffectiveTags extracts source and filters its tests by
// effective tags.
func FilterSourceByEffectiveTags(source string, want []string) ([]*api.Node, error) {
	return defaultFinder.FilterSourceByEffectiveTags(source, want)
}

// SetEffectiveTags attaches effective tags to every node of s, in place.
func SetEffectiveTags(s api.Structure) api.Structure {
	return tags.SetEffectiveTags(s)
}

// CountTags counts tests per effective tag. It propagates tags into s
// first if that has not happened yet.
func CountTags(s api.Structure) map[string]int {
	return tags.CountTags(s)
}

// FilterByEffectiveTags returns the tests of s carrying any of want. It
// propagates tags into s first if that has not happened yet.
func FilterByEffectiveTags(s api.Structure, want []string) []*api.Node {
	return tags.FilterByEffectiveTags(s, want)
}

// VisitEachTest calls fn for every test of s in source order with its
// nearest enclosing suite, or nil.
func VisitEachTest(s api.Structure, fn func(test, suite *api.Node)) {
	tags.VisitEachTest(s, fn)
}
