package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/closekit-dev/closekit/internal/pipeline"
	"github.com/closekit-dev/closekit/internal/step"
)

func newPlanCommand() *cobra.Command {
	var configPath string
	var period string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Validate the pipeline wiring without executing any step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, period)
			if err != nil {
				return err
			}

			runner := pipeline.New(step.DefaultRegistry(), cfg)
			res, err := runner.Plan()
			if err != nil {
				return err
			}

			for _, outcome := range res.Steps {
				fmt.Println(outcome.Name)
				printArtifacts("  in:  ", outcome.Plan.Inputs)
				printArtifacts("  out: ", outcome.Plan.Outputs)
			}
			fmt.Printf("pipeline wiring for period %s is valid\n", cfg.Period)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "closekit.yaml", "pipeline configuration file")
	cmd.Flags().StringVarP(&period, "period", "p", "", "override the configured period (YYYYMM)")

	return cmd
}

func printArtifacts(prefix string, artifacts map[string]string) {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s%s -> %s\n", prefix, name, artifacts[name])
	}
}
