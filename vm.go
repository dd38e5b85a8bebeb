package parlang

// Machine matches one input against a Program.  It owns a cursor over
// the input, the farthest failure position, a stack shared by
// backtrack and call frames, the left recursion memo table, and a
// single slot accumulator holding the last matched value.
//
// A machine runs a single match and is discarded afterwards.  The
// Program it holds is never written to, so one program can back any
// number of machines running in parallel.
type Machine struct {
	pc     int
	cursor int
	ffp    int

	// failure flags the cursor as being in an error state; the next
	// dispatch synthesizes a Fail so that propagation goes through
	// the same machinery as the Fail instruction
	failure *MatchError

	input       []rune
	program     *Program
	stack       stack
	lrmemo      map[lrMemoKey]*lrMemoEntry
	accumulator Value

	cfg   *Config
	steps int
}

func NewMachine(program *Program) *Machine {
	return NewMachineWithConfig(program, DefaultConfig())
}

func NewMachineWithConfig(program *Program, cfg *Config) *Machine {
	return &Machine{
		program: program,
		lrmemo:  map[lrMemoKey]*lrMemoEntry{},
		cfg:     cfg,
	}
}

// FFP returns the farthest input position reached by any attempted
// match.  It is meaningful after Match returns, on both success and
// failure.
func (m *Machine) FFP() int { return m.ffp }

// Match runs the program over input.  On success it returns the root
// value assembled from the top level production's captures and the
// final cursor; on failure it returns a *MatchError carrying the
// error kind and the farthest failure position.
func (m *Machine) Match(input string) (Value, int, error) {
	m.input = []rune(input)

	for {
		if max := m.cfg.Limits.MaxSteps; max > 0 && m.steps >= max {
			return nil, m.cursor, &AbortError{Limit: "max_steps", After: m.steps}
		}
		m.steps++

		if m.pc < 0 || m.pc >= len(m.program.code) {
			return nil, m.cursor, m.fatal(ErrorKind_Overflow)
		}

		instruction := m.program.code[m.pc]
		if m.failure != nil {
			instruction = IFail{}
		}

		switch ii := instruction.(type) {
		case IHalt:
			return m.accumulator, m.cursor, nil

		case IAny:
			if m.cursor >= len(m.input) {
				m.failure = &MatchError{Kind: ErrorKind_EOF}
				continue
			}
			m.accumulator = NewChr(m.input[m.cursor])
			m.advanceCursor()
			m.pc++

		case IChar:
			if m.cursor >= len(m.input) {
				m.failure = &MatchError{Kind: ErrorKind_EOF}
				continue
			}
			if c := m.input[m.cursor]; c != ii.Char {
				m.failure = &MatchError{
					Kind:     ErrorKind_Matching,
					Expected: string(ii.Char),
					Actual:   string(c),
				}
				continue
			}
			m.accumulator = NewChr(ii.Char)
			m.advanceCursor()
			m.pc++

		case IChoice:
			m.stack.push(m.mkBacktrackFrame(m.pc + ii.Offset))
			m.pc++

		case ICommit:
			if m.stack.len() == 0 {
				return nil, m.cursor, m.fatal(ErrorKind_Overflow)
			}
			m.stack.pop()
			m.pc += ii.Offset

		case ICommitB:
			if m.stack.len() == 0 {
				return nil, m.cursor, m.fatal(ErrorKind_Overflow)
			}
			m.stack.pop()
			m.pc -= ii.Offset

		case IFail:
			if err := m.fail(); err != nil {
				return nil, m.cursor, err
			}

		case IJump:
			m.pc = ii.Addr

		case ICall:
			if err := m.call(m.pc+ii.Offset, ii.Precedence); err != nil {
				return nil, m.cursor, err
			}

		case ICallB:
			if err := m.call(m.pc-ii.Offset, ii.Precedence); err != nil {
				return nil, m.cursor, err
			}

		case IReturn:
			if err := m.ret(); err != nil {
				return nil, m.cursor, err
			}

		case ICapture:
			if m.accumulator != nil {
				m.stack.capture(m.accumulator)
				m.accumulator = nil
			}
			m.pc++
		}
	}
}

// advanceCursor moves the cursor over one matched code point and
// keeps ffp at the high water mark
func (m *Machine) advanceCursor() {
	m.cursor++
	if m.cursor > m.ffp {
		m.ffp = m.cursor
	}
}

// call runs Call and CallB.  Ordinary calls just push a call frame;
// left recursive ones go through the memo table: the first call at a
// given position seeds it, later calls either reuse the seed or fail
// while the seed is still being evaluated or was made at a higher
// precedence.
func (m *Machine) call(address, precedence int) error {
	if precedence == 0 {
		m.stack.push(m.mkCallFrame(m.pc+1, address))
		m.pc = address
		return nil
	}

	key := lrMemoKey{address: address, cursor: m.cursor}
	entry, ok := m.lrmemo[key]
	if !ok {
		m.stack.push(m.mkLeftRecCallFrame(m.cursor, m.pc+1, address, precedence))
		m.pc = address
		m.lrmemo[key] = &lrMemoEntry{leftRec: true, precedence: precedence}
		return nil
	}
	if entry.leftRec || precedence < entry.precedence {
		return m.fail()
	}
	m.cursor = entry.cursor
	m.accumulator = entry.value
	m.pc++
	return nil
}

// ret runs Return.  Ordinary calls pop their frame and synthesize the
// production's node from the captured children.  Left recursive calls
// compare the cursor against the seed: progress grows the memo entry
// and re-enters the production from the entry cursor; no progress
// makes the seed final.
func (m *Machine) ret() error {
	if m.stack.len() == 0 {
		return m.fatal(ErrorKind_Overflow)
	}
	f := m.stack.top()

	if f.precedence == 0 {
		fr := m.stack.pop()
		m.pc = fr.pc
		m.accumulator = NewNode(m.program.Name(fr.address), fr.values)
		return nil
	}

	key := lrMemoKey{address: f.address, cursor: f.cursor}
	entry, ok := m.lrmemo[key]
	if !ok {
		// a left recursive return without its memo entry means the
		// instruction sequence is broken upstream
		return m.fatal(ErrorKind_Overflow)
	}

	if !f.hasResult || m.cursor > f.result {
		f.result = m.cursor
		f.hasResult = true

		entry.cursor = m.cursor
		entry.leftRec = false
		entry.bound++
		entry.value = NewNode(m.program.Name(f.address), f.values)
		f.values = nil

		if max := m.cfg.Limits.MaxGrowth; max > 0 && entry.bound > max {
			return &AbortError{Limit: "max_growth", After: entry.bound}
		}

		m.cursor = f.cursor
		m.pc = f.address
		return nil
	}

	fr := m.stack.pop()
	m.cursor = fr.result
	m.pc = fr.pc
	m.accumulator = entry.value
	return nil
}

// fail records the current error and unwinds the stack until a
// backtrack frame restores the machine.  Call frames popped on the
// way lose their speculative captures with them.  An empty stack
// means no alternative is left and the match is over.
func (m *Machine) fail() error {
	err := m.failure
	if err == nil {
		err = &MatchError{Kind: ErrorKind_Fail}
	}
	m.failure = nil

	for m.stack.len() > 0 {
		f := m.stack.pop()
		if f.t == frameType_Backtrack {
			m.cursor = f.cursor
			m.pc = f.pc
			m.stack.truncateCaptures(f.captured)
			return nil
		}
	}

	err.FFP = m.ffp
	m.failure = err
	return err
}

// fatal flags errors that backtrack frames never catch
func (m *Machine) fatal(kind ErrorKind) *MatchError {
	err := &MatchError{Kind: kind, FFP: m.ffp}
	m.failure = err
	return err
}

// Stack Frame Helpers

func (m *Machine) mkBacktrackFrame(pc int) frame {
	return frame{
		t:        frameType_Backtrack,
		pc:       pc,
		cursor:   m.cursor,
		captured: m.stack.capturedLen(),
	}
}

func (m *Machine) mkCallFrame(pc, address int) frame {
	return frame{t: frameType_Call, pc: pc, address: address}
}

func (m *Machine) mkLeftRecCallFrame(cursor, pc, address, precedence int) frame {
	return frame{
		t:          frameType_Call,
		pc:         pc,
		cursor:     cursor,
		address:    address,
		precedence: precedence,
	}
}
