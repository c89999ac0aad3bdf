// CLI entry point for the invasive species spread engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jhuly1215/SimulacionInvasores/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:])
	stop()
	// Execute already printed the error.
	os.Exit(cli.ExitCode(err))
}

//Personal.AI order the ending
