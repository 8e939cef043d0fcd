package workload

import "fmt"

const (
	matrixBase  = 0x10000000
	elementSize = 8
)

// codeLayout holds the program counters of the matrix multiply binary.
type codeLayout struct {
	pc uint64
}

func (c *codeLayout) next() uint64 {
	pc := c.pc
	c.pc += instBytes

	return pc
}

// MatrixMultiply generates the trace of C = A x B on n by n matrices of
// doubles. The matrices are initialized before WORK_BEGIN and C is summed
// after WORK_END, so only the kernel falls in the region of interest.
func MatrixMultiply(n int) (*Trace, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: matrix size must be > 0, got %d",
			ErrInvalidTrace, n)
	}

	matrixBytes := uint64(n * n * elementSize)
	a := uint64(matrixBase)
	b := a + matrixBytes
	c := b + matrixBytes

	addr := func(base uint64, row, col int) uint64 {
		return base + uint64(row*n+col)*elementSize
	}

	code := &codeLayout{pc: CodeBase}
	var insts []Instruction
	emit := func(inst Instruction) {
		insts = append(insts, inst)
	}

	initStoreA, initStoreB, initStoreC := code.next(), code.next(), code.next()
	initInc, initBranch := code.next(), code.next()
	for i := 0; i < n*n; i++ {
		row, col := i/n, i%n
		emit(Instruction{Op: OpStore, PC: initStoreA, Addr: addr(a, row, col)})
		emit(Instruction{Op: OpStore, PC: initStoreB, Addr: addr(b, row, col)})
		emit(Instruction{Op: OpStore, PC: initStoreC, Addr: addr(c, row, col)})
		emit(Instruction{Op: OpALU, PC: initInc})
		emit(Instruction{Op: OpBranch, PC: initBranch, Mispredict: i == n*n-1})
	}

	emit(Instruction{Op: OpWorkBegin, PC: code.next()})

	loadA, loadB, mul, add := code.next(), code.next(), code.next(), code.next()
	kInc, kBranch := code.next(), code.next()
	storeC, jInc, jBranch := code.next(), code.next(), code.next()
	iInc, iBranch := code.next(), code.next()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				emit(Instruction{Op: OpLoad, PC: loadA, Addr: addr(a, i, k)})
				emit(Instruction{Op: OpLoad, PC: loadB, Addr: addr(b, k, j)})
				emit(Instruction{Op: OpMul, PC: mul})
				emit(Instruction{Op: OpALU, PC: add})
				emit(Instruction{Op: OpALU, PC: kInc})
				emit(Instruction{Op: OpBranch, PC: kBranch, Mispredict: k == n-1})
			}

			emit(Instruction{Op: OpStore, PC: storeC, Addr: addr(c, i, j)})
			emit(Instruction{Op: OpALU, PC: jInc})
			emit(Instruction{Op: OpBranch, PC: jBranch, Mispredict: j == n-1})
		}

		emit(Instruction{Op: OpALU, PC: iInc})
		emit(Instruction{Op: OpBranch, PC: iBranch, Mispredict: i == n-1})
	}

	emit(Instruction{Op: OpWorkEnd, PC: code.next()})

	sumLoad, sumAdd, sumBranch := code.next(), code.next(), code.next()
	for i := 0; i < n*n; i++ {
		emit(Instruction{Op: OpLoad, PC: sumLoad, Addr: addr(c, i/n, i%n)})
		emit(Instruction{Op: OpALU, PC: sumAdd})
		emit(Instruction{Op: OpBranch, PC: sumBranch, Mispredict: i == n*n-1})
	}

	return NewTrace(fmt.Sprintf("mm-%d", n), insts), nil
}
