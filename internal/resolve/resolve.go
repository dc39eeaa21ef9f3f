// Package resolve decides how the scanner finds its rules file and builds
// the scanner's argument list.
package resolve

import (
	"github.com/pkg/errors"

	"github.com/a2y-d5l/scanner-entrypoint/internal/config"
)

// Plan is the outcome of config resolution for one run.
type Plan struct {
	// Args is the scanner argv, program name excluded.
	Args []string
	// RulesPath is the file the scanner will read its rules from.
	RulesPath string
	// CopyFrom is set when the caller's file has to be materialized at
	// RulesPath before the scanner starts.
	CopyFrom string
}

// Resolve builds the Plan for cfg. It does not touch the filesystem.
//
//	reference: <target> [--strict] --config <path>
//	copy:      [--strict] <target>
func Resolve(cfg *config.Config) (Plan, error) {
	if cfg.Target == "" {
		return Plan{}, errors.New("missing scan target")
	}

	switch cfg.Strategy {
	case config.StrategyReference, "":
		path := cfg.ConfigPath
		if path == "" {
			path = cfg.CanonicalPath
		}
		args := []string{cfg.Target}
		if cfg.Strict {
			args = append(args, "--strict")
		}
		args = append(args, "--config", path)
		return Plan{Args: args, RulesPath: path}, nil

	case config.StrategyCopy:
		var args []string
		if cfg.Strict {
			args = append(args, "--strict")
		}
		args = append(args, cfg.Target)
		return Plan{Args: args, RulesPath: cfg.CanonicalPath, CopyFrom: cfg.ConfigPath}, nil
	}

	return Plan{}, errors.Errorf("unsupported config strategy %q", cfg.Strategy)
}
