package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agentic-research/testnames/internal/catalog"
	"github.com/agentic-research/testnames/internal/output"
	"github.com/agentic-research/testnames/internal/store"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

// scanFlags override the scan block of the config file.
type scanFlags struct {
	include     []string
	exclude     []string
	concurrency int
}

func (s *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&s.include, "include", nil, "Glob of spec files to read (repeatable)")
	cmd.Flags().StringSliceVar(&s.exclude, "exclude", nil, "Glob of files or directories to skip (repeatable)")
	cmd.Flags().IntVar(&s.concurrency, "concurrency", 0, "Files parsed at once")
}

func (s *scanFlags) options(cmd *cobra.Command, o *options) catalog.ScanOptions {
	opts := catalog.ScanOptions{
		Include:     o.cfg.Include,
		Exclude:     o.cfg.Exclude,
		Dialect:     o.cfg.Dialect,
		Concurrency: o.cfg.Concurrency,
	}
	if cmd.Flags().Changed("include") {
		opts.Include = s.include
	}
	if cmd.Flags().Changed("exclude") {
		opts.Exclude = s.exclude
	}
	if cmd.Flags().Changed("concurrency") {
		opts.Concurrency = s.concurrency
	}
	return opts
}

func newIndexCmd(o *options) *cobra.Command {
	var sf scanFlags
	cmd := &cobra.Command{
		Use:   "index [source-dir] [output.db]",
		Short: "Scan a directory of spec files and write a tag index to SQLite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, out := args[0], args[1]

			start := time.Now()
			c, err := catalog.Scan(cmd.Context(), osfs.New(source), sf.options(cmd, o))
			if err != nil {
				return err
			}

			if err := store.Save(out, c); err != nil {
				return err
			}
			slog.Info("index written", "db", out, "tests", c.Len(), "tags", len(c.Tags()), "elapsed", time.Since(start))
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d tests from %s into %s\n", c.Len(), source, out)
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func newSelectCmd(o *options) *cobra.Command {
	var (
		sf   scanFlags
		want []string
	)
	cmd := &cobra.Command{
		Use:   "select [index.db | source-dir]",
		Short: "List indexed tests carrying any of the given tags",
		Long: `Select reads a SQLite index written by "index", or scans a directory
directly, and prints the tests carrying any of the given tags. Without
--tag it prints the number of tests per tag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(cmd, o, &sf, args[0])
			if err != nil {
				return err
			}
			if len(want) == 0 {
				return output.WriteJSON(cmd.OutOrStdout(), c.Counts(), o.selector)
			}
			entries := c.Select(want...)
			if entries == nil {
				entries = []catalog.Entry{}
			}
			return output.WriteJSON(cmd.OutOrStdout(), entries, o.selector)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringSliceVarP(&want, "tag", "t", nil, "Tag to match (repeatable, any one suffices)")
	return cmd
}

func openCatalog(cmd *cobra.Command, o *options, sf *scanFlags, target string) (*catalog.Catalog, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return catalog.Scan(cmd.Context(), osfs.New(target), sf.options(cmd, o))
	}
	return store.Load(target)
}
