package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/closekit-dev/closekit/internal/config"
)

func newInitCommand() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new consolidation project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, period)
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "initial period (YYYYMM, required)")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func runInit(dir, period string) error {
	cfg := config.Default(period)

	for _, role := range []string{"tb", "fx", "support", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, cfg.Folders[role]), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", cfg.Folders[role], err)
		}
	}

	path := filepath.Join(dir, "closekit.yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Initialized consolidation project at %s (period %s)\n", dir, period)
	return nil
}
