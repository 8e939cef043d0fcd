package workload

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CodeBase is the address of the first instruction of every trace.
const CodeBase = 0x400000

const instBytes = 4

// TraceFile is the YAML form of a trace. Each segment is one static
// instruction repeated as if it sat in a loop.
//
//	name: stream
//	segments:
//	  - op: work_begin
//	  - op: load
//	    base: 0x10000000
//	    stride: 64
//	    repeat: 1024
//	  - op: work_end
type TraceFile struct {
	Name     string    `yaml:"name"`
	Segments []Segment `yaml:"segments"`
}

// Segment describes a repeated static instruction.
type Segment struct {
	Op     Op     `yaml:"op"`
	Repeat int    `yaml:"repeat"`
	Base   uint64 `yaml:"base"`
	Stride uint64 `yaml:"stride"`

	// MispredictEvery marks every n-th dynamic branch as mispredicted.
	MispredictEvery int `yaml:"mispredict_every"`
}

// LoadTrace reads a YAML trace file. Unknown keys are rejected.
func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}

	return ParseTrace(bytes.NewReader(data))
}

// ParseTrace decodes a YAML trace.
func ParseTrace(r io.Reader) (*Trace, error) {
	var f TraceFile

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrace, err)
	}

	return f.Expand()
}

// Expand turns the segments into the dynamic instruction stream.
func (f TraceFile) Expand() (*Trace, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidTrace)
	}

	var insts []Instruction
	for i, s := range f.Segments {
		if !s.Op.valid() {
			return nil, fmt.Errorf("%w: segment %d has unknown op %q",
				ErrInvalidTrace, i, s.Op)
		}

		if s.Repeat < 0 || s.MispredictEvery < 0 {
			return nil, fmt.Errorf("%w: segment %d has a negative count",
				ErrInvalidTrace, i)
		}

		repeat := s.Repeat
		if repeat == 0 {
			repeat = 1
		}

		pc := uint64(CodeBase + i*instBytes)
		for n := 0; n < repeat; n++ {
			inst := Instruction{Op: s.Op, PC: pc}

			if s.Op.IsMemory() {
				inst.Addr = s.Base + uint64(n)*s.Stride
			}

			if s.Op == OpBranch && s.MispredictEvery > 0 {
				inst.Mispredict = (n+1)%s.MispredictEvery == 0
			}

			insts = append(insts, inst)
		}
	}

	return NewTrace(f.Name, insts), nil
}
