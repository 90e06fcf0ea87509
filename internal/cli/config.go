package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/gyst/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagAPIKey  string
	flagCfgMode string
	flagShow    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gyst configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagAPIKey == "" && flagCfgMode == "" {
			return showConfig()
		}

		// Start from the stored file, not the merged view, so env and
		// flag values never get persisted by accident.
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		if cfg == (config.Config{}) {
			cfg = config.Default()
		}

		if flagAPIKey != "" {
			cfg.APIKey = flagAPIKey
			cfg.Mode = config.ModeDirect
			fmt.Fprintln(os.Stdout, "API key saved; switched to direct mode.")
		}
		if flagCfgMode != "" {
			switch flagCfgMode {
			case config.ModeRelay, config.ModeDirect:
				cfg.Mode = flagCfgMode
			default:
				fmt.Fprintf(os.Stderr, "Error: unknown mode %q (want %q or %q)\n",
					flagCfgMode, config.ModeRelay, config.ModeDirect)
				exitCode = ExitUsageError
				return nil
			}
			fmt.Fprintf(os.Stdout, "Mode set to %s.\n", cfg.Mode)
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		if flagShow {
			return showConfig()
		}
		return nil
	},
}

// showConfig prints the effective merged configuration with the API key
// masked.
func showConfig() error {
	cfg, err := config.Load(nil)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

func init() {
	configCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Store an Anthropic API key and switch to direct mode")
	configCmd.Flags().StringVar(&flagCfgMode, "mode", "", "Set the backend mode (relay, direct)")
	configCmd.Flags().BoolVar(&flagShow, "show", false, "Show the effective configuration")
}
