// Package workload provides the programs that run on a simulated machine.
//
// The core only needs an opaque Workload handle. Engines that execute
// instructions accept a *Trace, which is a flat instruction stream that may
// contain the WORK_BEGIN and WORK_END pseudo-instructions marking the region
// of interest.
package workload

import (
	"errors"
	"fmt"
)

// Workload is a program that an engine can run.
type Workload interface {
	Name() string
}

// ErrInvalidTrace is returned for malformed trace descriptions.
var ErrInvalidTrace = errors.New("workload: invalid trace")

// Op is the operation class of an instruction.
type Op string

// Operation classes.
const (
	OpALU       Op = "alu"
	OpMul       Op = "mul"
	OpLoad      Op = "load"
	OpStore     Op = "store"
	OpBranch    Op = "branch"
	OpWorkBegin Op = "work_begin"
	OpWorkEnd   Op = "work_end"
)

// IsMemory tells if the operation accesses data memory.
func (o Op) IsMemory() bool {
	return o == OpLoad || o == OpStore
}

// IsROIMarker tells if the operation is a region-of-interest pseudo
// instruction.
func (o Op) IsROIMarker() bool {
	return o == OpWorkBegin || o == OpWorkEnd
}

func (o Op) valid() bool {
	switch o {
	case OpALU, OpMul, OpLoad, OpStore, OpBranch, OpWorkBegin, OpWorkEnd:
		return true
	default:
		return false
	}
}

// Instruction is one dynamic instruction.
type Instruction struct {
	Op   Op
	PC   uint64
	Addr uint64

	// Mispredict marks a branch that the front end predicts wrongly.
	Mispredict bool
}

func (i Instruction) String() string {
	switch {
	case i.Op.IsMemory():
		return fmt.Sprintf("%#x: %s %#x", i.PC, i.Op, i.Addr)
	case i.Op == OpBranch && i.Mispredict:
		return fmt.Sprintf("%#x: %s (mispredicted)", i.PC, i.Op)
	default:
		return fmt.Sprintf("%#x: %s", i.PC, i.Op)
	}
}

// Trace is a fixed instruction stream.
type Trace struct {
	name  string
	insts []Instruction
}

// NewTrace creates a trace that owns the instructions.
func NewTrace(name string, insts []Instruction) *Trace {
	return &Trace{
		name:  name,
		insts: insts,
	}
}

// Name returns the name of the trace.
func (t *Trace) Name() string {
	return t.name
}

// Len returns the number of instructions.
func (t *Trace) Len() int {
	return len(t.insts)
}

// At returns the i-th instruction.
func (t *Trace) At(i int) Instruction {
	return t.insts[i]
}

// Count returns how many instructions have the operation class.
func (t *Trace) Count(op Op) int {
	n := 0
	for _, inst := range t.insts {
		if inst.Op == op {
			n++
		}
	}

	return n
}
