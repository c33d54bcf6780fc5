package cmd

import (
	"fmt"

	"github.com/agentic-research/testnames/internal/ingest"
	"github.com/agentic-research/testnames/internal/linter"
	"github.com/spf13/cobra"
)

func newLintCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [spec-file...]",
		Short: "Report focused tests and names or tags that cannot be read statically",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.finder()
			if err != nil {
				return err
			}
			l := linter.New(f.Dialect())

			problems := 0
			for _, path := range args {
				content, lang, err := f.ReadFile(path)
				if err != nil {
					return err
				}
				tree, err := ingest.ParseAs(cmd.Context(), path, content, lang)
				if err != nil {
					return err
				}
				diags, err := l.LintTree(tree)
				tree.Close()
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				for _, d := range diags {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: %s [%s]\n", path, d.Line+1, d.Column+1, d.Message, d.Rule)
				}
				problems += len(diags)
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			return nil
		},
	}
}
