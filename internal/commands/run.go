package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/closekit-dev/closekit/internal/config"
	"github.com/closekit-dev/closekit/internal/logging"
	"github.com/closekit-dev/closekit/internal/pipeline"
	"github.com/closekit-dev/closekit/internal/step"
)

func newRunCommand() *cobra.Command {
	var configPath string
	var period string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the configured consolidation pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, period)
			if err != nil {
				return err
			}

			runner := pipeline.New(step.DefaultRegistry(), cfg)
			res, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			for _, outcome := range res.Steps {
				line := fmt.Sprintf("%-10s %s", outcome.State, outcome.Name)
				if outcome.Result.Err != nil {
					line += ": " + outcome.Result.Err.Error()
				}
				fmt.Println(line)
			}
			if !res.OK {
				return fmt.Errorf("pipeline %s failed", res.RunID)
			}
			fmt.Printf("pipeline %s completed for period %s\n", res.RunID, cfg.Period)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "closekit.yaml", "pipeline configuration file")
	cmd.Flags().StringVarP(&period, "period", "p", "", "override the configured period (YYYYMM)")

	return cmd
}

func loadConfig(path, period string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if period != "" {
		cfg.Period = period
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
