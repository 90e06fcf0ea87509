package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/gyst/internal/config"
	"github.com/dshills/gyst/internal/gitrepo"
	"github.com/dshills/gyst/internal/ui"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Summarize staged changes without contacting any backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		repo, ok := openRepo()
		if !ok {
			return nil
		}

		changes, diff, err := repo.Collect(cfg.MaxDiffSize)
		if errors.Is(err, gitrepo.ErrNoStagedChanges) {
			fmt.Fprintln(os.Stdout, "No staged changes. Stage files with 'git add' first.")
			return nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		ui.New().ShowChanges(changes, diff)
		return nil
	},
}
