package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/closekit-dev/closekit/internal/step"
)

func newStepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the available step types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range step.DefaultRegistry().Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}
