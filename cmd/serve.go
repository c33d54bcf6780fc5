package cmd

import (
	"github.com/agentic-research/testnames"
	"github.com/agentic-research/testnames/internal/agent"
	"github.com/spf13/cobra"
)

func newServeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve tag queries as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools := agent.NewTools(testnames.WithDialect(o.cfg.Dialect))
			return agent.Serve(agent.NewServer(Version, tools))
		},
	}
}
