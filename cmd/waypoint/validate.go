package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/waypoint/internal/validator"
	"github.com/aretw0/waypoint/pkg/config"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <flow.yaml>",
	Short: "Check the flow for consistency",
	Long:  `Loads the flow and reports every transition target (and the initial state) that is not defined.
States unreachable from the initial state are reported as warnings.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := config.Load(args[0])
		if err != nil {
			return err
		}
		reg, err := spec.Registry()
		if err != nil {
			return err
		}

		warnings, err := validator.ValidateGraph(reg)
		for _, w := range warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		if err != nil {
			var agg *domain.AggregateError
			if errors.As(err, &agg) {
				for _, e := range agg.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", e)
				}
			}
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Flow is valid! ✅ (%d states, starts at %q)\n", reg.Len(), reg.InitialState())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
