package config

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is injected at build-time with
// -ldflags="-X github.com/a2y-d5l/scanner-entrypoint/internal/config.Version=$(git describe --tags --always --dirty)"
var Version = "dev"

const (
	// CanonicalConfigPath is where the scanner reads its rules when no
	// explicit path is passed.
	CanonicalConfigPath = "critical_dependencies.yaml"

	// DefaultScanner is resolved through PATH.
	DefaultScanner = "gh-action-security-scanner"
)

// Strategy selects how a caller-supplied config file reaches the scanner.
type Strategy string

const (
	// StrategyReference hands the path to the scanner via --config.
	StrategyReference Strategy = "reference"
	// StrategyCopy copies the file over CanonicalConfigPath and lets the
	// scanner pick it up implicitly.
	StrategyCopy Strategy = "copy"
)

var _ pflag.Value = (*Strategy)(nil)

func (s *Strategy) String() string { return string(*s) }

func (s *Strategy) Set(v string) error {
	switch Strategy(v) {
	case StrategyReference, StrategyCopy:
		*s = Strategy(v)
		return nil
	}
	return errors.Errorf("must be %q or %q", StrategyReference, StrategyCopy)
}

func (s *Strategy) Type() string { return "strategy" }

// Config captures one invocation of the entrypoint.
type Config struct {
	Target string
	Strict bool
	// ConfigPath is the caller-supplied rules file; empty means none.
	ConfigPath string
	Strategy   Strategy

	ScannerPath   string
	CanonicalPath string

	// ValidateConfig turns rules-file warnings into hard failures.
	ValidateConfig bool
	LogLevel       logrus.Level
}

// ParseArgs populates Config from CLI arguments (without the program name).
// Help and version output go to stdout; in both cases pflag.ErrHelp is
// returned so the caller can exit cleanly without running the scanner.
func ParseArgs(args []string, stdout io.Writer) (*Config, error) {
	cfg := &Config{
		Strategy:      StrategyReference,
		CanonicalPath: CanonicalConfigPath,
	}
	var (
		logLevel string
		ran      bool
	)

	cmd := &cobra.Command{
		Use:   "entrypoint <target> [--strict] [--config <path>]",
		Short: "Run the GitHub Action security scanner against a workflow",
		Long: `entrypoint adapts GitHub Action arguments to the security scanner.

The scanner's exit code is returned unchanged. Failures of the entrypoint
itself exit with 64 (bad arguments), 78 (config could not be prepared) or
127 (scanner could not be started).`,
		Version:       Version,
		Args:          targetArg,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return errors.Wrap(err, "invalid --log-level")
			}
			cfg.LogLevel = lvl
			cfg.Target = lo.Compact(args)[0]
			cfg.ScannerPath = strings.TrimSpace(cfg.ScannerPath)
			if cfg.ScannerPath == "" {
				return errors.New("--scanner must not be empty")
			}
			ran = true
			return nil
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&cfg.Strict, "strict", false, "fail on unpinned or unstable action references")
	fs.StringVar(&cfg.ConfigPath, "config", "", "path to a critical dependencies file")
	fs.Var(&cfg.Strategy, "config-strategy", `how --config reaches the scanner: "reference" passes the path, "copy" copies it to `+CanonicalConfigPath)
	fs.StringVar(&cfg.ScannerPath, "scanner", DefaultScanner, "scanner executable")
	fs.BoolVar(&cfg.ValidateConfig, "validate-config", false, "fail when the rules file is missing or invalid")
	fs.StringVar(&logLevel, "log-level", logrus.InfoLevel.String(), "log level (debug, info, warn, error)")

	// cobra falls back to os.Args when handed a nil slice.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stdout)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	if !ran {
		return nil, pflag.ErrHelp
	}
	return cfg, nil
}

// targetArg accepts exactly one non-empty positional. The action runtime
// passes unset inputs as empty strings, so those are dropped before counting.
func targetArg(_ *cobra.Command, args []string) error {
	positional := lo.Compact(args)
	switch len(positional) {
	case 0:
		return errors.New("missing scan target")
	case 1:
		return nil
	default:
		return errors.Errorf("unexpected arguments after target %q: %q", positional[0], positional[1:])
	}
}
