package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dshills/gyst/internal/config"
	"github.com/dshills/gyst/internal/gitrepo"
	"github.com/dshills/gyst/internal/prompt"
	"github.com/dshills/gyst/internal/provider"
	"github.com/dshills/gyst/internal/ui"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <description>",
	Short: "Suggest a git command from a natural-language description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = exitFor(err)
			return nil
		}

		client, err := provider.New(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = exitFor(err)
			return nil
		}

		description := strings.Join(args, " ")
		p := prompt.Build(gitrepo.ChangeSet{}, gitrepo.DiffText{}, prompt.Explain(description))

		texts, err := client.Generate(cmd.Context(), p, 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = exitFor(err)
			return nil
		}
		if len(texts) == 0 || strings.TrimSpace(texts[0]) == "" {
			fmt.Fprintln(os.Stderr, "Error: backend returned no suggestion")
			exitCode = ExitRuntimeError
			return nil
		}

		ui.New().ShowExplanation(texts[0])
		return nil
	},
}

func init() {
	addBackendFlags(explainCmd)
}
