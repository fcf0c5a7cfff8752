// Package desktop is the top-level state of the four-pane environment.
//
// A Desktop is built once at startup and owned by the host driver, which
// calls exactly two entry points: HandleKey for every keyboard event and Tick
// on a timer. Both run to completion on the caller's goroutine; nothing here
// blocks or spawns goroutines.
package desktop

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/quadpane/internal/interp"
	"github.com/jask/quadpane/internal/pane"
	"github.com/jask/quadpane/internal/sched"
	"github.com/jask/quadpane/internal/storage"
)

// NumPanes counts the on-screen quadrants. Panes 1..sched.NumSlots can run
// programs; the rest are edit/browse only.
const NumPanes = 4

// FileStore is the storage bridge the desktop consumes.
type FileStore interface {
	storage.Store
	List() []storage.Filename
}

type Outcome string

const (
	OutcomeDone      Outcome = "done"
	OutcomeError     Outcome = "error"
	OutcomeCancelled Outcome = "cancelled"
)

// RunResult describes a program run that has ended.
type RunResult struct {
	Pane    int
	RunID   uuid.UUID
	File    storage.Filename
	Ticks   uint64
	Outcome Outcome
	Message string
}

// Observer is told about changes worth persisting. Calls happen inside
// HandleKey and Tick.
type Observer interface {
	FilesChanged()
	RunStarted(pane int, runID uuid.UUID, file storage.Filename)
	RunEnded(res RunResult)
}

type nopObserver struct{}

func (nopObserver) FilesChanged()                               {}
func (nopObserver) RunStarted(int, uuid.UUID, storage.Filename) {}
func (nopObserver) RunEnded(RunResult)                          {}

type Desktop struct {
	panes [NumPanes]*pane.Pane
	sched *sched.Scheduler
	store FileStore
	obs   Observer

	// selected is the 1-based pane ordinal, 0 while a file name is typed.
	selected     int
	prevSelected int

	typingFilename bool
	nameBuf        [storage.MaxFilenameBytes]byte
	nameLen        int

	editing bool

	status    string
	statusErr bool
}

// New builds a desktop over store. A nil observer or loader falls back to a
// no-op observer and the toy-language interpreter.
func New(store FileStore, obs Observer, load sched.Loader) *Desktop {
	if obs == nil {
		obs = nopObserver{}
	}
	if load == nil {
		load = sched.InterpLoader
	}
	d := &Desktop{store: store, obs: obs, selected: 1}
	var outs [sched.NumSlots]interp.Output
	for i := range d.panes {
		d.panes[i] = pane.New(i + 1)
		if i < sched.NumSlots {
			outs[i] = d.panes[i]
		}
	}
	d.sched = sched.New(load, outs)
	d.panes[0].SetSelected(true)
	d.refreshListings()
	return d
}

// Pane returns the pane with the given 1-based ordinal.
func (d *Desktop) Pane(ordinal int) *pane.Pane {
	if ordinal < 1 || ordinal > NumPanes {
		return nil
	}
	return d.panes[ordinal-1]
}

func (d *Desktop) Scheduler() *sched.Scheduler { return d.sched }
func (d *Desktop) Selected() int               { return d.selected }
func (d *Desktop) Editing() bool               { return d.editing }
func (d *Desktop) TypingFilename() bool        { return d.typingFilename }

// Status is the message on the top input line.
func (d *Desktop) Status() (string, bool) { return d.status, d.statusErr }

// Tick advances the scheduler by one turn and reports ended runs to the
// observer.
func (d *Desktop) Tick() sched.Event {
	ev := d.sched.Tick()
	switch ev.Kind {
	case sched.EventFinished:
		d.obs.RunEnded(RunResult{Pane: ev.Slot + 1, RunID: ev.RunID, File: ev.File, Ticks: ev.Ticks, Outcome: OutcomeDone})
	case sched.EventFailed:
		msg := ""
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		d.obs.RunEnded(RunResult{Pane: ev.Slot + 1, RunID: ev.RunID, File: ev.File, Ticks: ev.Ticks, Outcome: OutcomeError, Message: msg})
	}
	return ev
}

func (d *Desktop) current() *pane.Pane {
	return d.Pane(d.selected)
}

// slotOf maps a pane ordinal to its scheduler slot.
func slotOf(ordinal int) (int, bool) {
	if ordinal < 1 || ordinal > sched.NumSlots {
		return 0, false
	}
	return ordinal - 1, true
}

func (d *Desktop) selectPane(ordinal int) {
	for _, p := range d.panes {
		p.SetSelected(p.Ordinal() == ordinal)
	}
	d.selected = ordinal
}

// refreshListings re-reads the directory into every pane showing a listing.
func (d *Desktop) refreshListings() {
	names := d.store.List()
	for _, p := range d.panes {
		if p.Mode() == pane.ModeListing {
			p.ShowListing(names)
		}
	}
}

func (d *Desktop) setStatus(msg string) {
	d.status, d.statusErr = msg, false
}

func (d *Desktop) setError(err error) {
	d.status, d.statusErr = err.Error(), true
}

func (d *Desktop) readFile(name string) ([]byte, error) {
	data, err := storage.ReadFile(d.store, name)
	if err != nil {
		return nil, d.fileError(name, err)
	}
	return data, nil
}

func (d *Desktop) writeFile(name string, data []byte) error {
	if err := storage.WriteFile(d.store, name, data); err != nil {
		return d.fileError(name, err)
	}
	return nil
}

func (d *Desktop) fileError(name string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		if s, ok := d.suggest(name); ok {
			return fmt.Errorf("%s: %w (did you mean %s?)", name, err, s)
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}

// suggest finds the stored name closest to name, if any is within two edits.
func (d *Desktop) suggest(name string) (string, bool) {
	best, bestDist := "", 3
	for _, f := range d.store.List() {
		cand := f.String()
		if dist := levenshtein.ComputeDistance(name, cand); dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best, best != ""
}
