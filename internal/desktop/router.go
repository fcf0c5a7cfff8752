package desktop

import (
	"fmt"
	"log"

	"github.com/jask/quadpane/internal/pane"
	"github.com/jask/quadpane/internal/storage"
)

// HandleKey routes one keyboard event to exactly one consumer: filename
// entry, file editing, a blocked program's input line, or directory
// navigation. The cancel key is honoured in every mode.
func (d *Desktop) HandleKey(k Key) {
	if k.Code == KeyCancel {
		d.cancel()
		return
	}
	switch {
	case d.typingFilename:
		d.filenameKey(k)
	case d.editing:
		d.editKey(k)
	case d.awaitingSlot() >= 0:
		d.inputKey(k, d.awaitingSlot())
	default:
		d.navKey(k)
	}
}

// awaitingSlot is the slot of the selected pane when it is collecting an
// input line, else -1.
func (d *Desktop) awaitingSlot() int {
	if i, ok := slotOf(d.selected); ok && d.sched.Awaiting(i) {
		return i
	}
	return -1
}

func (d *Desktop) navKey(k Key) {
	if n, ok := paneKey(k); ok {
		d.selectPane(n)
		return
	}
	p := d.current()
	if p == nil {
		return
	}
	switch k.Code {
	case KeyFilename:
		d.beginFilename()
	case KeyLeft:
		p.Navigate(pane.Left)
	case KeyRight:
		p.Navigate(pane.Right)
	case KeyUp:
		p.Navigate(pane.Up)
	case KeyDown:
		p.Navigate(pane.Down)
	case KeyRune:
		switch k.Rune {
		case 'e':
			d.openForEdit(p)
		case 'r':
			d.run(p)
		}
	}
}

func (d *Desktop) editKey(k Key) {
	p := d.current()
	switch k.Code {
	case KeyEnter:
		p.Newline()
	case KeyBackspace:
		p.TypeChar(pane.Erase)
	case KeyLeft:
		p.MoveCursor(-1)
	case KeyRight:
		p.MoveCursor(1)
	case KeyRune:
		if c, ok := printableByte(k); ok {
			p.TypeChar(c)
		}
	}
}

// inputKey feeds a blocked program. Typed bytes are echoed into the pane so
// the user sees the line being built; a byte the full pane cannot show is not
// added to the line either, so every pending byte is on screen.
func (d *Desktop) inputKey(k Key, slot int) {
	p := d.panes[slot]
	switch k.Code {
	case KeyEnter:
		if d.sched.FlushInput(slot) {
			p.Newline()
		}
	case KeyBackspace:
		if d.sched.PopInput(slot) {
			p.TypeChar(pane.Erase)
		}
	case KeyRune:
		c, ok := printableByte(k)
		if !ok || !d.sched.AppendInput(slot, c) {
			return
		}
		if !p.TypeChar(c) {
			d.sched.PopInput(slot)
		}
	}
}

func (d *Desktop) beginFilename() {
	d.typingFilename = true
	d.nameLen = 0
	d.prevSelected = d.selected
	d.selectPane(0)
	d.setStatus("")
}

func (d *Desktop) endFilename(selectOrdinal int) {
	d.typingFilename = false
	d.nameLen = 0
	d.selectPane(selectOrdinal)
}

func (d *Desktop) filenameKey(k Key) {
	if n, ok := paneKey(k); ok {
		d.endFilename(n)
		return
	}
	switch k.Code {
	case KeyFilename:
		d.endFilename(d.prevSelected)
	case KeyBackspace:
		if d.nameLen > 0 {
			d.nameLen--
		}
	case KeyEnter:
		name := string(d.nameBuf[:d.nameLen])
		d.endFilename(d.prevSelected)
		if name != "" {
			d.createFile(name)
		}
	case KeyRune:
		c, ok := printableByte(k)
		if !ok || c == ' ' || d.nameLen >= len(d.nameBuf) {
			return
		}
		d.nameBuf[d.nameLen] = c
		d.nameLen++
	}
}

func (d *Desktop) createFile(name string) {
	for _, f := range d.store.List() {
		if f.String() == name {
			d.setStatus(fmt.Sprintf("%s already exists", name))
			return
		}
	}
	if err := d.writeFile(name, nil); err != nil {
		d.setError(err)
		return
	}
	d.refreshListings()
	d.obs.FilesChanged()
	d.setStatus(fmt.Sprintf("created %s", name))
}

func (d *Desktop) openForEdit(p *pane.Pane) {
	if p.Mode() != pane.ModeListing {
		return
	}
	if i, ok := slotOf(p.Ordinal()); ok && d.sched.Active(i) {
		return
	}
	name, ok := p.HighlightedName()
	if !ok {
		return
	}
	data, err := d.readFile(name.String())
	if err != nil {
		d.setError(err)
		return
	}
	// saving writes back only what the pane holds
	if !pane.Fits(data) {
		d.setError(fmt.Errorf("%s too large to edit", name))
		return
	}
	p.Bind(name)
	p.LoadText(data)
	p.SetBeingEdited(true)
	d.editing = true
	d.setStatus("")
}

func (d *Desktop) run(p *pane.Pane) {
	slot, ok := slotOf(p.Ordinal())
	if !ok || p.Mode() != pane.ModeListing || d.sched.Active(slot) {
		return
	}
	name, ok := p.HighlightedName()
	if !ok {
		return
	}
	src, err := d.readFile(name.String())
	if err != nil {
		d.setError(err)
		return
	}
	p.Clear()
	p.Bind(name)
	id, err := d.sched.Start(slot, src, name)
	if err != nil {
		d.setError(err)
		d.returnToListing(p)
		return
	}
	d.obs.RunStarted(p.Ordinal(), id, name)
	d.setStatus("")
}

// cancel ends whatever the selected pane is doing: filename entry is
// abandoned, an edit is saved, a run is stopped, finished output is cleared.
func (d *Desktop) cancel() {
	if d.typingFilename {
		d.endFilename(d.prevSelected)
		return
	}
	p := d.current()
	if p == nil {
		return
	}
	if d.editing {
		d.saveEdit(p)
		return
	}
	if i, ok := slotOf(p.Ordinal()); ok {
		if st, was := d.sched.Cancel(i); was {
			d.obs.RunEnded(RunResult{Pane: p.Ordinal(), RunID: st.RunID, File: st.File, Ticks: st.Ticks, Outcome: OutcomeCancelled})
		}
	}
	if p.Mode() == pane.ModeText {
		d.returnToListing(p)
	}
}

// saveEdit persists the pane text. On failure the pane stays in edit mode so
// nothing typed is lost.
func (d *Desktop) saveEdit(p *pane.Pane) {
	name := p.Filename()
	if err := d.writeFile(name.String(), p.Content()); err != nil {
		log.Printf("warn: save %s: %v", name, err)
		d.setError(err)
		return
	}
	d.editing = false
	p.SetBeingEdited(false)
	p.Bind(storage.Filename{})
	d.returnToListing(p)
	d.obs.FilesChanged()
	d.setStatus(fmt.Sprintf("saved %s", name))
}

func (d *Desktop) returnToListing(p *pane.Pane) {
	p.ShowListing(d.store.List())
	d.refreshListings()
}
