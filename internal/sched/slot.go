package sched

import (
	"github.com/google/uuid"

	"github.com/jask/quadpane/internal/interp"
	"github.com/jask/quadpane/internal/storage"
)

// MaxInputLine bounds the line a blocked program can be sent.
const MaxInputLine = 30

// Machine is the interpreter as seen by the scheduler.
type Machine interface {
	Step(out interp.Output) (interp.Status, error)
	DeliverInput(line []byte)
}

// Loader builds a fresh machine for a program.
type Loader func(source []byte) Machine

// InterpLoader loads programs into the toy-language interpreter.
func InterpLoader(source []byte) Machine {
	return interp.New(source)
}

type slot struct {
	out interp.Output

	active    bool
	awaiting  bool
	lineReady bool
	machine   Machine
	pending   [MaxInputLine]byte
	pendLen   int
	ticks     uint64

	runID uuid.UUID
	file  storage.Filename
}

// finish stops the slot but keeps its tick count for display.
func (s *slot) finish() {
	s.active = false
	s.awaiting = false
	s.lineReady = false
	s.machine = nil
	s.pendLen = 0
}

func (s *slot) reset() {
	s.finish()
	s.ticks = 0
}

// SlotState is a read-only snapshot of one slot.
type SlotState struct {
	Index     int
	Active    bool
	Awaiting  bool
	LineReady bool
	Ticks     uint64
	RunID     uuid.UUID
	File      storage.Filename
	Pending   string
}
