package cmd

import (
	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/output"
	"github.com/agentic-research/testnames/internal/tags"
	"github.com/spf13/cobra"
)

func newNamesCmd(o *options) *cobra.Command {
	var structure bool
	cmd := &cobra.Command{
		Use:   "names [spec-file]",
		Short: "Print the suite and test names of a spec file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.finder()
			if err != nil {
				return err
			}
			result, err := f.GetTestNamesIn(args[0], structure)
			if err != nil {
				return err
			}
			return output.WriteJSON(cmd.OutOrStdout(), result, o.selector)
		},
	}
	cmd.Flags().BoolVar(&structure, "structure", false, "Include the nested suite/test structure and test count")
	return cmd
}

func newTagsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tags [spec-file]",
		Short: "Print the effective tags of every test, keyed by qualified name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.finder()
			if err != nil {
				return err
			}
			found, err := f.FindEffectiveTestTagsIn(args[0])
			if err != nil {
				return err
			}
			return output.WriteJSON(cmd.OutOrStdout(), found, o.selector)
		},
	}
}

func newCountCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "count [spec-file]",
		Short: "Count the tests carrying each effective tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.finder()
			if err != nil {
				return err
			}
			result, err := f.GetTestNamesIn(args[0], true)
			if err != nil {
				return err
			}
			return output.WriteJSON(cmd.OutOrStdout(), tags.CountTags(result.Structure), o.selector)
		},
	}
}

// filteredTest is a matched test with the name it is reported under.
type filteredTest struct {
	Qualified string `json:"qualifiedName"`
	*api.Node
}

func newFilterCmd(o *options) *cobra.Command {
	var want []string
	cmd := &cobra.Command{
		Use:   "filter [spec-file]",
		Short: "Print the tests carrying any of the given tags, directly or through their suites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.finder()
			if err != nil {
				return err
			}
			result, err := f.GetTestNamesIn(args[0], true)
			if err != nil {
				return err
			}

			matched := make(map[*api.Node]bool)
			for _, n := range tags.FilterByEffectiveTags(result.Structure, want) {
				matched[n] = true
			}
			tests := []filteredTest{}
			tags.VisitQualified(result.Structure, func(test *api.Node, qualified string) {
				if matched[test] {
					tests = append(tests, filteredTest{Qualified: qualified, Node: test})
				}
			})
			return output.WriteJSON(cmd.OutOrStdout(), tests, o.selector)
		},
	}
	cmd.Flags().StringSliceVarP(&want, "tag", "t", nil, "Tag to match (repeatable, any one suffices)")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}
