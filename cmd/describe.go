package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the machine that the parameters assemble.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd)
			if err != nil {
				return err
			}

			machine, err := cfg.Machine()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "roi_policy: %s\n", cfg.Policy())
			for _, f := range machine.Fields() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f.Key, f.Value)
			}

			return nil
		},
	}

	addMachineFlags(describeCmd)

	return describeCmd
}
