package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/roisim/board"
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/roi"
)

// Config holds the parameters of a run. The field names match the command
// line flags.
type Config struct {
	ProcessorType string `yaml:"processor_type"`
	Frequency     string `yaml:"frequency"`
	L1Size        string `yaml:"l1_size"`
	L2Size        string `yaml:"l2_size"`
	Width         int    `yaml:"width"`
	LSQDepth      int    `yaml:"lsq_depth"`
	ROBEntries    int    `yaml:"rob_entries"`
	IgnoreROI     bool   `yaml:"ignore_roi"`
}

// DefaultConfig returns a 3GHz in-order machine with a 32KiB L1 and a 256KiB
// L2, measuring the region of interest only.
func DefaultConfig() Config {
	params := catalog.DefaultOutOfOrderParams()

	return Config{
		ProcessorType: string(catalog.KindSimple),
		Frequency:     "3GHz",
		L1Size:        "32KiB",
		L2Size:        "256KiB",
		Width:         params.Width,
		LSQDepth:      params.LSQDepth,
		ROBEntries:    params.ROBEntries,
	}
}

// LoadConfig reads a YAML config file. Missing fields keep their defaults
// and unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return ParseConfig(f)
}

// ParseConfig decodes a YAML config.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: config: %v",
			catalog.ErrInvalidParameter, err)
	}

	return cfg, nil
}

// Kind returns the processor kind that the config selects.
func (c Config) Kind() (catalog.ProcessorKind, error) {
	return catalog.ParseProcessorKind(c.ProcessorType)
}

// Policy returns the ROI policy that the config selects.
func (c Config) Policy() roi.Policy {
	return roi.PolicyFromIgnoreROI(c.IgnoreROI)
}

// Machine validates the config and assembles the machine it describes.
func (c Config) Machine() (board.MachineDescription, error) {
	kind, err := c.Kind()
	if err != nil {
		return board.MachineDescription{}, err
	}

	freq, err := catalog.ParseFrequency(c.Frequency)
	if err != nil {
		return board.MachineDescription{}, err
	}

	processor, err := catalog.NewProcessor(kind, catalog.OutOfOrderParams{
		Width:      c.Width,
		LSQDepth:   c.LSQDepth,
		ROBEntries: c.ROBEntries,
	})
	if err != nil {
		return board.MachineDescription{}, err
	}

	cache, err := catalog.NewCacheSpec(c.L1Size, c.L2Size)
	if err != nil {
		return board.MachineDescription{}, err
	}

	return board.MakeBuilder().
		WithFreq(freq).
		WithProcessor(processor).
		WithCache(cache).
		Build()
}
