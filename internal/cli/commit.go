package cli

import (
	"fmt"
	"os"

	"github.com/dshills/gyst/internal/config"
	"github.com/dshills/gyst/internal/provider"
	"github.com/dshills/gyst/internal/ui"
	"github.com/dshills/gyst/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	flagQuick bool
	flagPush  bool
	flagCount int
	flagModel string
	flagMode  string
)

func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name (direct mode)")
	cmd.Flags().StringVar(&flagMode, "mode", "", "Backend mode (relay, direct)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagMode != "" {
		m["mode"] = flagMode
	}
	return m
}

// setup resolves config, backend, and repository for the generation
// commands. A false return means exitCode is already set.
func setup() (*workflow.Workflow, bool) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil, false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = exitFor(err)
		return nil, false
	}

	client, err := provider.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = exitFor(err)
		return nil, false
	}

	repo, ok := openRepo()
	if !ok {
		return nil, false
	}

	opts := workflow.Options{
		Quick: flagQuick,
		Push:  flagPush || cfg.PushDefault,
		Count: flagCount,
	}
	return workflow.New(repo, client, ui.New(), cfg, opts), true
}

// finish translates a workflow result into process state.
func finish(res workflow.Result) {
	switch res.Outcome {
	case workflow.OutcomeFailed:
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
		exitCode = exitFor(res.Err)
	default:
		exitCode = ExitSuccess
	}
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message for staged changes and commit",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, ok := setup()
		if !ok {
			return nil
		}
		finish(w.Run(cmd.Context()))
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate several commit messages and pick one",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, ok := setup()
		if !ok {
			return nil
		}
		finish(w.RunSuggestions(cmd.Context()))
		return nil
	},
}

func init() {
	commitCmd.Flags().BoolVarP(&flagQuick, "quick", "q", false, "Commit the first suggestion without asking")
	commitCmd.Flags().BoolVarP(&flagPush, "push", "p", false, "Push after a successful commit")
	addBackendFlags(commitCmd)

	suggestCmd.Flags().IntVarP(&flagCount, "count", "c", 3, "Number of suggestions to generate")
	suggestCmd.Flags().BoolVarP(&flagPush, "push", "p", false, "Push after a successful commit")
	addBackendFlags(suggestCmd)
}
