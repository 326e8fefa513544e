package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/confgen/internal/commands"
	"github.com/simonhull/confgen/internal/logger"
	"github.com/simonhull/confgen/internal/output"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes confgen with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	output.SetOutput(stderr)
	logger.SetDefault(logger.NewLogger(logger.LevelWarn, stderr))

	rootCmd := commands.RootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		output.Step("Run 'confgen --help' for usage.")
		return 1
	}
	return 0
}
