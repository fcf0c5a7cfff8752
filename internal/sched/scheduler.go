// Package sched time-slices up to three programs without threads.
//
// Each call to Tick gives exactly one slot, chosen by strict rotation, the
// chance to execute one interpreter step. Idle and blocked slots still use up
// their turn; the rotation never skips ahead to find work.
package sched

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/quadpane/internal/interp"
	"github.com/jask/quadpane/internal/storage"
)

const NumSlots = 3

const (
	DoneMarker  = "[DONE]"
	ErrorMarker = "[ERROR] "
)

var (
	ErrBadSlot = errors.New("no such slot")
	ErrBusy    = errors.New("slot is already running")
)

type EventKind int

const (
	EventIdle EventKind = iota
	EventBlocked
	EventDelivered
	EventStepped
	EventAwaiting
	EventFinished
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventIdle:
		return "idle"
	case EventBlocked:
		return "blocked"
	case EventDelivered:
		return "delivered"
	case EventStepped:
		return "stepped"
	case EventAwaiting:
		return "awaiting"
	case EventFinished:
		return "finished"
	case EventFailed:
		return "failed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event reports what a single Tick did. Finished and failed events carry the
// run identity so the caller can record the outcome.
type Event struct {
	Slot  int
	Kind  EventKind
	RunID uuid.UUID
	File  storage.Filename
	Ticks uint64
	Err   error
}

type Scheduler struct {
	slots [NumSlots]slot
	turn  int
	load  Loader
}

// New binds slot i to outs[i]; program output and the completion markers are
// written there.
func New(load Loader, outs [NumSlots]interp.Output) *Scheduler {
	s := &Scheduler{load: load}
	for i := range s.slots {
		s.slots[i].out = outs[i]
	}
	return s
}

// Turn is the index of the slot that the next Tick will consider.
func (s *Scheduler) Turn() int { return s.turn }

// Tick runs at most one step of the slot whose turn it is and then advances
// the rotation.
func (s *Scheduler) Tick() Event {
	i := s.turn
	s.turn = (s.turn + 1) % NumSlots
	return s.step(i)
}

func (s *Scheduler) step(i int) Event {
	sl := &s.slots[i]
	ev := Event{Slot: i, Kind: EventIdle, RunID: sl.runID, File: sl.file}
	if !sl.active {
		return ev
	}
	if sl.awaiting {
		if !sl.lineReady {
			ev.Kind = EventBlocked
			return ev
		}
		sl.machine.DeliverInput(append([]byte(nil), sl.pending[:sl.pendLen]...))
		sl.awaiting = false
		sl.lineReady = false
		sl.pendLen = 0
		ev.Kind = EventDelivered
		ev.Ticks = sl.ticks
		return ev
	}

	st, err := sl.machine.Step(sl.out)
	if err != nil {
		ev.Kind = EventFailed
		ev.Err = err
		ev.Ticks = sl.ticks
		sl.out.AppendOutput([]byte(ErrorMarker + err.Error()))
		sl.finish()
		return ev
	}
	switch st {
	case interp.Continue:
		sl.ticks++
		ev.Kind = EventStepped
	case interp.AwaitInput:
		sl.awaiting = true
		ev.Kind = EventAwaiting
	case interp.Finished:
		ev.Kind = EventFinished
		ev.Ticks = sl.ticks
		sl.out.AppendOutput([]byte(DoneMarker))
		sl.finish()
		return ev
	}
	ev.Ticks = sl.ticks
	return ev
}

// Start loads source into slot i with a fresh machine. The returned run id
// identifies this run in later events.
func (s *Scheduler) Start(i int, source []byte, file storage.Filename) (uuid.UUID, error) {
	sl, err := s.slot(i)
	if err != nil {
		return uuid.Nil, err
	}
	if sl.active {
		return uuid.Nil, ErrBusy
	}
	sl.reset()
	sl.machine = s.load(source)
	sl.active = true
	sl.runID = uuid.New()
	sl.file = file
	return sl.runID, nil
}

// Cancel stops slot i immediately and returns its state as it was. It does
// nothing to an idle slot.
func (s *Scheduler) Cancel(i int) (SlotState, bool) {
	sl, err := s.slot(i)
	if err != nil || !sl.active {
		return SlotState{}, false
	}
	before := s.State(i)
	sl.reset()
	return before, true
}

// AppendInput adds c to the pending line of a blocked slot. A full line drops
// c.
func (s *Scheduler) AppendInput(i int, c byte) bool {
	sl, err := s.slot(i)
	if err != nil || !sl.awaiting || sl.lineReady || sl.pendLen >= MaxInputLine {
		return false
	}
	sl.pending[sl.pendLen] = c
	sl.pendLen++
	return true
}

// PopInput removes the last pending byte.
func (s *Scheduler) PopInput(i int) bool {
	sl, err := s.slot(i)
	if err != nil || !sl.awaiting || sl.lineReady || sl.pendLen == 0 {
		return false
	}
	sl.pendLen--
	return true
}

// FlushInput marks the pending line complete. It is handed to the program on
// the slot's next turn.
func (s *Scheduler) FlushInput(i int) bool {
	sl, err := s.slot(i)
	if err != nil || !sl.awaiting || sl.lineReady {
		return false
	}
	sl.lineReady = true
	return true
}

// Awaiting reports whether slot i is blocked and still collecting a line.
func (s *Scheduler) Awaiting(i int) bool {
	sl, err := s.slot(i)
	return err == nil && sl.active && sl.awaiting && !sl.lineReady
}

func (s *Scheduler) Active(i int) bool {
	sl, err := s.slot(i)
	return err == nil && sl.active
}

func (s *Scheduler) State(i int) SlotState {
	sl, err := s.slot(i)
	if err != nil {
		return SlotState{Index: i}
	}
	return SlotState{
		Index:     i,
		Active:    sl.active,
		Awaiting:  sl.awaiting,
		LineReady: sl.lineReady,
		Ticks:     sl.ticks,
		RunID:     sl.runID,
		File:      sl.file,
		Pending:   string(sl.pending[:sl.pendLen]),
	}
}

func (s *Scheduler) slot(i int) (*slot, error) {
	if i < 0 || i >= NumSlots {
		return nil, ErrBadSlot
	}
	return &s.slots[i], nil
}
