// Package interp runs programs written in the desktop's toy language one
// instruction at a time.
//
//	count := input("count")
//	while (count > 0) {
//	    count := (count - 1)
//	}
//	print("done")
//
// A Machine never blocks: when a program asks for input, Step reports
// AwaitInput and the host hands the line over later with DeliverInput.
package interp

import (
	"fmt"
)

// Status is the outcome of a single Step.
type Status int

const (
	Continue Status = iota
	Finished
	AwaitInput
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Finished:
		return "finished"
	case AwaitInput:
		return "await-input"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Output receives everything a program prints. Each call is one print.
type Output interface {
	AppendOutput(p []byte)
}

type Machine struct {
	code    []instr
	pc      int
	vars    map[string]Value
	err     error
	waiting bool
}

// New compiles source. A compile error is reported by the first Step so that
// construction itself cannot fail.
func New(source []byte) *Machine {
	code, err := compile(string(source))
	return &Machine{code: code, err: err, vars: make(map[string]Value)}
}

// Step executes exactly one instruction. A non-nil error means the program has
// faulted and must not be stepped again.
func (m *Machine) Step(out Output) (Status, error) {
	if m.err != nil {
		return Finished, m.err
	}
	if m.waiting {
		return AwaitInput, nil
	}
	if m.pc >= len(m.code) {
		return Finished, nil
	}
	in := m.code[m.pc]
	switch in.op {
	case opJump:
		m.pc = in.target
		return Continue, nil

	case opJumpFalse:
		v, err := m.eval(in)
		if err != nil {
			return Finished, err
		}
		if v.Kind != KindBool {
			return Finished, m.fail(fmt.Errorf("line %d: condition is %s, not boolean", in.line, v.Kind))
		}
		if v.Bool {
			m.pc++
		} else {
			m.pc = in.target
		}
		return Continue, nil

	case opPrint:
		v, err := m.eval(in)
		if err != nil {
			return Finished, err
		}
		out.AppendOutput([]byte(v.String()))
		m.pc++
		return Continue, nil

	case opAssign:
		v, err := m.eval(in)
		if err != nil {
			return Finished, err
		}
		if err := m.set(in, v); err != nil {
			return Finished, err
		}
		m.pc++
		return Continue, nil

	case opInput:
		prompt, err := m.eval(in)
		if err != nil {
			return Finished, err
		}
		if _, ok := m.vars[in.name]; !ok && len(m.vars) >= MaxVariables {
			return Finished, m.fail(fmt.Errorf("line %d: more than %d variables", in.line, MaxVariables))
		}
		out.AppendOutput([]byte(prompt.String()))
		m.waiting = true
		return AwaitInput, nil
	}
	return Finished, m.fail(fmt.Errorf("bad instruction %d", in.op))
}

// DeliverInput completes a pending input request. It is ignored when the
// program is not waiting.
func (m *Machine) DeliverInput(line []byte) {
	if !m.waiting || m.err != nil {
		return
	}
	in := m.code[m.pc]
	m.vars[in.name] = ParseInput(string(line))
	m.waiting = false
	m.pc++
}

// Waiting reports whether the machine is blocked on input.
func (m *Machine) Waiting() bool { return m.waiting }

// Var returns the current value of a program variable.
func (m *Machine) Var(name string) (Value, bool) {
	v, ok := m.vars[name]
	return v, ok
}

func (m *Machine) eval(in instr) (Value, error) {
	v, err := in.expr.eval(m.vars)
	if err != nil {
		return Value{}, m.fail(fmt.Errorf("line %d: %w", in.line, err))
	}
	return v, nil
}

func (m *Machine) set(in instr, v Value) error {
	if _, ok := m.vars[in.name]; !ok && len(m.vars) >= MaxVariables {
		return m.fail(fmt.Errorf("line %d: more than %d variables", in.line, MaxVariables))
	}
	m.vars[in.name] = v
	return nil
}

func (m *Machine) fail(err error) error {
	m.err = err
	return err
}
