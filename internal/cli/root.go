package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/gyst/internal/config"
	"github.com/dshills/gyst/internal/gitrepo"
	"github.com/dshills/gyst/internal/provider"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes. Aborting a workflow is a deliberate no-op, not a failure.
const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
)

var rootCmd = &cobra.Command{
	Use:   "gyst",
	Short: "AI-powered git commit message generator",
	Long:  "Gyst inspects your staged changes, asks an AI backend for a conventional commit message, and commits once you approve it.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code. SIGINT cancels
// the command context; in-flight generation stops, but a commit that has
// already started is never interrupted.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitFor maps a workflow or setup error to a process exit code.
func exitFor(err error) int {
	if errors.Is(err, config.ErrMissingAPIKey) || provider.IsAuthError(err) {
		return ExitAuthError
	}
	return ExitRuntimeError
}

// openRepo discovers the enclosing git repository from the working
// directory, reporting a usage-level failure when there is none.
func openRepo() (*gitrepo.Repo, bool) {
	repo, err := gitrepo.Open(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil, false
	}
	return repo, true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gyst version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "gyst version %s\n", version)
	},
}
