package catalog

import (
	"fmt"
	"strings"
)

// ProcessorKind names a processor variant as it is selected on the command
// line.
type ProcessorKind string

// The processor variants that the catalog can build.
const (
	KindSimple     ProcessorKind = "simple"
	KindOutOfOrder ProcessorKind = "out-of-order"
)

// Kinds lists all processor kinds in the order they are presented to users.
func Kinds() []ProcessorKind {
	return []ProcessorKind{KindSimple, KindOutOfOrder}
}

// ParseProcessorKind converts a user-provided string into a ProcessorKind.
func ParseProcessorKind(s string) (ProcessorKind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}

	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}

	return "", fmt.Errorf("%w: %q (expected one of %s)",
		ErrUnknownProcessorVariant, s, strings.Join(names, ", "))
}

// ISA is the instruction set of the simulated core.
type ISA string

// ISAX86 is the only ISA the machines are built for.
const ISAX86 ISA = "x86"

// CPUType names the timing model of a core.
type CPUType string

// Core timing models.
const (
	// CPUTypeTiming is an in-order core that executes every instruction in a
	// single cycle, except for memory instructions which wait for the cache
	// hierarchy.
	CPUTypeTiming CPUType = "timing"

	// CPUTypeO3 is a superscalar out-of-order core.
	CPUTypeO3 CPUType = "o3"
)

// ProcessorSpec describes the single processor of a machine. Exactly two
// implementations exist: InOrderSpec and OutOfOrderSpec.
type ProcessorSpec interface {
	// Kind returns the variant of the processor.
	Kind() ProcessorKind

	// Validate checks that the description is internally consistent.
	Validate() error

	isProcessorSpec()
}

// InOrderSpec describes a single-core in-order processor.
type InOrderSpec struct {
	CPUType  CPUType
	ISA      ISA
	NumCores int
}

// NewInOrder returns the in-order processor preset.
func NewInOrder() InOrderSpec {
	return InOrderSpec{
		CPUType:  CPUTypeTiming,
		ISA:      ISAX86,
		NumCores: 1,
	}
}

// Kind returns KindSimple.
func (InOrderSpec) Kind() ProcessorKind { return KindSimple }

func (InOrderSpec) isProcessorSpec() {}

// Validate checks that the processor has exactly one core.
func (s InOrderSpec) Validate() error {
	if s.NumCores != 1 {
		return fmt.Errorf("%w: in-order processor must have 1 core, got %d",
			ErrInvalidParameter, s.NumCores)
	}

	return nil
}

// OutOfOrderParams are the user-tunable sizes of an out-of-order core.
type OutOfOrderParams struct {
	Width      int
	LSQDepth   int
	ROBEntries int
}

// DefaultOutOfOrderParams returns width 4, a 64-entry LSQ and a 128-entry
// reorder buffer.
func DefaultOutOfOrderParams() OutOfOrderParams {
	return OutOfOrderParams{
		Width:      4,
		LSQDepth:   64,
		ROBEntries: 128,
	}
}

func (p OutOfOrderParams) validate() error {
	if p.Width <= 0 {
		return fmt.Errorf("%w: width must be > 0, got %d",
			ErrInvalidParameter, p.Width)
	}

	if p.LSQDepth < 2 {
		return fmt.Errorf("%w: lsq depth must be >= 2, got %d",
			ErrInvalidParameter, p.LSQDepth)
	}

	if p.ROBEntries <= 0 {
		return fmt.Errorf("%w: rob entries must be > 0, got %d",
			ErrInvalidParameter, p.ROBEntries)
	}

	return nil
}

// OutOfOrderSpec describes a single-core superscalar out-of-order processor.
// All pipeline stages share the same width.
type OutOfOrderSpec struct {
	CPUType  CPUType
	ISA      ISA
	NumCores int

	Width      int
	LSQDepth   int
	ROBEntries int

	FetchWidth     int
	DecodeWidth    int
	RenameWidth    int
	DispatchWidth  int
	IssueWidth     int
	WritebackWidth int
	CommitWidth    int
	SquashWidth    int

	LoadQueueEntries  int
	StoreQueueEntries int
}

// NewOutOfOrder builds an out-of-order processor description. The LSQ depth
// is split evenly between the load queue and the store queue; an odd depth
// loses its remainder.
func NewOutOfOrder(p OutOfOrderParams) (OutOfOrderSpec, error) {
	if err := p.validate(); err != nil {
		return OutOfOrderSpec{}, err
	}

	return OutOfOrderSpec{
		CPUType:  CPUTypeO3,
		ISA:      ISAX86,
		NumCores: 1,

		Width:      p.Width,
		LSQDepth:   p.LSQDepth,
		ROBEntries: p.ROBEntries,

		FetchWidth:     p.Width,
		DecodeWidth:    p.Width,
		RenameWidth:    p.Width,
		DispatchWidth:  p.Width,
		IssueWidth:     p.Width,
		WritebackWidth: p.Width,
		CommitWidth:    p.Width,
		SquashWidth:    p.Width,

		LoadQueueEntries:  p.LSQDepth / 2,
		StoreQueueEntries: p.LSQDepth / 2,
	}, nil
}

// Kind returns KindOutOfOrder.
func (OutOfOrderSpec) Kind() ProcessorKind { return KindOutOfOrder }

func (OutOfOrderSpec) isProcessorSpec() {}

// Validate checks the sizes and that every stage width matches Width.
func (s OutOfOrderSpec) Validate() error {
	params := OutOfOrderParams{
		Width:      s.Width,
		LSQDepth:   s.LSQDepth,
		ROBEntries: s.ROBEntries,
	}
	if err := params.validate(); err != nil {
		return err
	}

	if s.NumCores != 1 {
		return fmt.Errorf("%w: out-of-order processor must have 1 core, got %d",
			ErrInvalidParameter, s.NumCores)
	}

	widths := []int{
		s.FetchWidth, s.DecodeWidth, s.RenameWidth, s.DispatchWidth,
		s.IssueWidth, s.WritebackWidth, s.CommitWidth, s.SquashWidth,
	}
	for _, w := range widths {
		if w != s.Width {
			return fmt.Errorf("%w: stage width %d differs from width %d",
				ErrInvalidParameter, w, s.Width)
		}
	}

	if s.LoadQueueEntries != s.LSQDepth/2 || s.StoreQueueEntries != s.LSQDepth/2 {
		return fmt.Errorf("%w: load/store queues %d/%d do not split lsq depth %d",
			ErrInvalidParameter, s.LoadQueueEntries, s.StoreQueueEntries,
			s.LSQDepth)
	}

	return nil
}

// NewProcessor builds the processor of the given kind. The out-of-order
// parameters are ignored for in-order processors.
func NewProcessor(kind ProcessorKind, p OutOfOrderParams) (ProcessorSpec, error) {
	switch kind {
	case KindSimple:
		return NewInOrder(), nil
	case KindOutOfOrder:
		return NewOutOfOrder(p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProcessorVariant, kind)
	}
}
