// Package entrypoint turns a parsed invocation into exactly one scanner run:
// resolve the rules file, materialize it when copying, pre-flight it, start
// the scanner and hand back its exit code.
package entrypoint

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/a2y-d5l/scanner-entrypoint/internal/config"
	"github.com/a2y-d5l/scanner-entrypoint/internal/resolve"
	"github.com/a2y-d5l/scanner-entrypoint/internal/rules"
	"github.com/a2y-d5l/scanner-entrypoint/internal/scanner"
)

// Runner executes one entrypoint invocation.
type Runner struct {
	Scanner scanner.Executor
	Streams scanner.Streams
	Log     logrus.FieldLogger
}

// Run resolves the scanner's config and runs it once. The returned code is
// the scanner's exit code whenever the scanner started; otherwise err is an
// *Error and the code is its Kind's exit code. Nothing is retried.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (int, error) {
	log := r.Log.WithFields(logrus.Fields{
		"target":   cfg.Target,
		"strategy": cfg.Strategy,
	})

	plan, err := resolve.Resolve(cfg)
	if err != nil {
		return r.fail(&Error{Kind: KindArgument, msg: "resolve scanner arguments", w: err})
	}

	if plan.CopyFrom != "" {
		if err := resolve.Materialize(plan.CopyFrom, plan.RulesPath); err != nil {
			return r.fail(&Error{Kind: KindConfigResolution, msg: "copy " + plan.CopyFrom, w: err})
		}
		log.WithField("config", plan.RulesPath).Infof("copied %s into place", plan.CopyFrom)
	}

	if err := r.preflight(log, cfg, plan.RulesPath); err != nil {
		return r.fail(err)
	}

	log.WithFields(logrus.Fields{
		"scanner": cfg.ScannerPath,
		"args":    plan.Args,
	}).Debug("starting scanner")

	code, err := r.Scanner.Execute(ctx, plan.Args, r.Streams)
	if err != nil {
		return r.fail(&Error{Kind: KindProcessInvocation, msg: "run " + cfg.ScannerPath, w: err})
	}

	log.WithField("exit_code", code).Debug("scanner finished")
	return code, nil
}

// preflight parses the rules file the scanner is about to read. Problems
// are logged, since the scanner falls back to empty rules on its own, unless
// cfg.ValidateConfig asks for them to stop the run.
func (r *Runner) preflight(log logrus.FieldLogger, cfg *config.Config, path string) *Error {
	log = log.WithField("config", path)

	rs, err := rules.Load(path)
	if err != nil {
		if cfg.ValidateConfig {
			return &Error{Kind: KindConfigResolution, msg: "validate rules file", w: err}
		}
		log.WithError(err).Warn("rules file unusable, scanner will use its defaults")
		return nil
	}

	log.WithFields(logrus.Fields{
		"critical_dependencies": len(rs.CriticalDependencies),
		"trusted_owners":        len(rs.TrustedOwners),
	}).Debug("rules file loaded")
	return nil
}

func (r *Runner) fail(err *Error) (int, error) {
	return err.Kind.ExitCode(), err
}
