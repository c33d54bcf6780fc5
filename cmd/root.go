package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/agentic-research/testnames"
	"github.com/agentic-research/testnames/internal/config"
	"github.com/agentic-research/testnames/internal/ingest"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	language   string
	selector   string

	cfg config.Config
}

// finder builds a Finder from the loaded config and flags.
func (o *options) finder() (*testnames.Finder, error) {
	opts := []testnames.Option{testnames.WithDialect(o.cfg.Dialect)}
	if o.language != "" {
		lang, err := ingest.ParseLanguage(o.language)
		if err != nil {
			return nil, err
		}
		opts = append(opts, testnames.WithLanguage(lang))
	}
	return testnames.New(opts...), nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "testnames",
		Short:         "Report suites, tests and inherited tags of describe/it spec files without running them",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(o.logLevel); err != nil {
				return err
			}
			path := o.configPath
			required := cmd.Flags().Changed("config")
			if path == "" {
				path = config.DefaultFile
			}
			cfg, err := config.Load(path, required)
			if err != nil {
				return err
			}
			o.cfg = cfg
			slog.Debug("config loaded", "path", path, "suites", cfg.Dialect.Suites, "tests", cfg.Dialect.Tests)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "Path to config file (default "+config.DefaultFile+")")
	flags.StringVar(&o.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.StringVar(&o.language, "lang", "", "Grammar to parse with instead of detecting it from the file extension: javascript, typescript, tsx")
	flags.StringVar(&o.selector, "select", "", "JSONPath applied to the JSON output")

	root.AddCommand(
		newNamesCmd(o),
		newTagsCmd(o),
		newCountCmd(o),
		newFilterCmd(o),
		newLintCmd(o),
		newIndexCmd(o),
		newSelectCmd(o),
		newServeCmd(o),
	)
	return root
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})))
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("testnames failed", "error", err)
		os.Exit(1)
	}
}
