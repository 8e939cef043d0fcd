package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/roisim/runner"
)

func addMachineFlags(cmd *cobra.Command) {
	d := runner.DefaultConfig()
	flags := cmd.Flags()

	flags.String("config", "", "YAML file with the run parameters.")
	flags.String("processor_type", d.ProcessorType,
		"The type of processor to use (simple or out-of-order).")
	flags.String("frequency", d.Frequency, "The clock frequency of the core.")
	flags.String("l1_size", d.L1Size,
		"The size of the L1 instruction and data caches.")
	flags.String("l2_size", d.L2Size, "The size of the L2 cache.")
	flags.Int("width", d.Width, "The width of the out-of-order pipeline.")
	flags.Int("lsq_depth", d.LSQDepth,
		"The depth of the load/store queue, split between loads and stores.")
	flags.Int("rob_entries", d.ROBEntries,
		"The number of entries in the reorder buffer.")
	flags.Bool("ignore_roi", d.IgnoreROI,
		"Measure the whole workload instead of the region of interest.")
}

// configFromFlags starts from the defaults, applies the config file and then
// the flags that are set explicitly.
func configFromFlags(cmd *cobra.Command) (runner.Config, error) {
	flags := cmd.Flags()

	cfg := runner.DefaultConfig()

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := runner.LoadConfig(path)
		if err != nil {
			return runner.Config{}, err
		}

		cfg = loaded
	}

	stringFlags := map[string]*string{
		"processor_type": &cfg.ProcessorType,
		"frequency":      &cfg.Frequency,
		"l1_size":        &cfg.L1Size,
		"l2_size":        &cfg.L2Size,
	}
	for name, field := range stringFlags {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}

	intFlags := map[string]*int{
		"width":       &cfg.Width,
		"lsq_depth":   &cfg.LSQDepth,
		"rob_entries": &cfg.ROBEntries,
	}
	for name, field := range intFlags {
		if flags.Changed(name) {
			*field, _ = flags.GetInt(name)
		}
	}

	if flags.Changed("ignore_roi") {
		cfg.IgnoreROI, _ = flags.GetBool("ignore_roi")
	}

	return cfg, nil
}
