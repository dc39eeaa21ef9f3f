package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/a2y-d5l/scanner-entrypoint/internal/config"
	"github.com/a2y-d5l/scanner-entrypoint/internal/entrypoint"
	"github.com/a2y-d5l/scanner-entrypoint/internal/scanner"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, nil))
}

// run wires one invocation and returns the process exit code. A nil exec
// means the real scanner binary named by the config.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, exec scanner.Executor) int {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cfg, err := config.ParseArgs(args, stdout)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		// Invalid user-supplied arguments, the scanner never runs.
		err = entrypoint.ArgumentError(err)
		log.Error(err)
		return entrypoint.ExitCode(err)
	}
	log.SetLevel(cfg.LogLevel)

	if exec == nil {
		exec = &scanner.Command{Path: cfg.ScannerPath, Log: log}
	}
	r := &entrypoint.Runner{
		Scanner: exec,
		Streams: scanner.Streams{Stdin: stdin, Stdout: stdout, Stderr: stderr},
		Log:     log,
	}

	code, err := r.Run(ctx, cfg)
	if err != nil {
		log.Error(err)
	}
	return code
}
