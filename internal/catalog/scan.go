package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/extract"
	"github.com/agentic-research/testnames/internal/ingest"
	"github.com/bmatcuk/doublestar/v4"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"
)

// DefaultExclude keeps installed packages out of a scan.
var DefaultExclude = []string{"node_modules/**", "**/node_modules/**"}

// ScanOptions controls which files a scan reads and how.
type ScanOptions struct {
	// Include globs select spec files by relative path or basename.
	// Empty means every file with a supported extension.
	Include []string
	// Exclude globs drop files and whole directories.
	Exclude []string
	Dialect api.Dialect
	// Concurrency bounds the number of files parsed at once. Zero means 4.
	Concurrency int
}

// Scan extracts every matching spec file under the root of fs and builds
// a catalog of their tests. The first failing file aborts the scan.
func Scan(ctx context.Context, fs billy.Filesystem, opts ScanOptions) (*Catalog, error) {
	files, err := discover(fs, opts)
	if err != nil {
		return nil, err
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}

	perFile := make([][]Entry, len(files))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		g.Go(func() error {
			entries, err := scanFile(gCtx, fs, file, opts.Dialect)
			if err != nil {
				return fmt.Errorf("scan %s: %w", file, err)
			}
			perFile[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Entry
	for _, entries := range perFile {
		all = append(all, entries...)
	}
	slog.Debug("catalog built", "files", len(files), "tests", len(all))
	return New(all), nil
}

func scanFile(ctx context.Context, fs billy.Filesystem, file string, d api.Dialect) ([]Entry, error) {
	tree, err := ingest.ParseFile(ctx, fs, file)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	result := extract.FromTree(tree, d, true)
	entries := EntriesFromStructure(file, result.Structure)
	slog.Debug("scanned spec file", "file", file, "tests", len(entries))
	return entries, nil
}

// discover lists the spec files to scan in lexical order.
func discover(fs billy.Filesystem, opts ScanOptions) ([]string, error) {
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}

	var files []string
	err := util.Walk(fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(path.Clean("/"+p), "/")
		if rel == "" {
			return nil
		}
		if info.IsDir() {
			if matchesAny(exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, err := ingest.DetectLanguage(rel); err != nil {
			return nil
		}
		if matchesAny(exclude, rel) {
			return nil
		}
		if len(opts.Include) > 0 && !matchesAny(opts.Include, rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk spec files: %w", err)
	}
	return files, nil
}

// matchesAny matches rel, or its basename, against doublestar patterns.
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, path.Base(rel)); err == nil && ok {
			return true
		}
	}
	return false
}
