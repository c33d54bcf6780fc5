// Package config loads the optional .testnames.hcl file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/agentic-research/testnames/api"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = ".testnames.hcl"

// Config is the resolved configuration.
type Config struct {
	Dialect     api.Dialect
	Include     []string
	Exclude     []string
	Concurrency int
}

func Default() Config {
	return Config{Dialect: api.DefaultDialect()}
}

type file struct {
	Dialect *dialectBlock `hcl:"dialect,block"`
	Scan    *scanBlock    `hcl:"scan,block"`
}

type dialectBlock struct {
	Suites []string `hcl:"suites,optional"`
	Tests  []string `hcl:"tests,optional"`
	Skip   string   `hcl:"skip,optional"`
	Only   string   `hcl:"only,optional"`
}

type scanBlock struct {
	Include     []string `hcl:"include,optional"`
	Exclude     []string `hcl:"exclude,optional"`
	Concurrency int      `hcl:"concurrency,optional"`
}

// Load reads the config at path. A missing file yields the defaults unless
// required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, err
	}

	var f file
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if d := f.Dialect; d != nil {
		if len(d.Suites) > 0 {
			cfg.Dialect.Suites = d.Suites
		}
		if len(d.Tests) > 0 {
			cfg.Dialect.Tests = d.Tests
		}
		if d.Skip != "" {
			cfg.Dialect.Skip = d.Skip
		}
		if d.Only != "" {
			cfg.Dialect.Only = d.Only
		}
	}
	if s := f.Scan; s != nil {
		cfg.Include = s.Include
		cfg.Exclude = s.Exclude
		cfg.Concurrency = s.Concurrency
	}
	return cfg, nil
}
