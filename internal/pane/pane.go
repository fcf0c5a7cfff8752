// Package pane holds the character-cell buffer behind each of the four
// desktop quadrants.
//
// A pane is either a directory listing with one highlighted entry or a block
// of wrapped text. In text mode the raw byte buffer is the only stored state:
// the interior grid and the edit cursor are recomputed from it after every
// mutation, so display and persisted text cannot drift apart. Every index is
// clamped; a pane that is full simply ignores further input.
package pane

import (
	"github.com/jask/quadpane/internal/storage"
)

const (
	Width          = 35
	Height         = 12
	InteriorWidth  = Width - 2
	InteriorHeight = Height - 2
	Capacity       = InteriorWidth * InteriorHeight

	ListingColumns   = 3
	ListingCellWidth = InteriorWidth / ListingColumns
)

// Erase is the sentinel byte that makes TypeChar delete instead of insert.
const Erase byte = 0

type Mode int

const (
	ModeListing Mode = iota
	ModeText
)

type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

type Pane struct {
	ordinal int
	mode    Mode

	grid     [Height][Width]Cell
	interior interiorGrid

	raw        [Capacity]byte
	rawLen     int
	byteCursor int
	editCursor int

	listing   []storage.Filename
	highlight int

	selected    bool
	beingEdited bool
	filename    storage.Filename
}

// New returns an empty listing-mode pane. ordinal is the 1-based position
// shown in the border label.
func New(ordinal int) *Pane {
	return &Pane{ordinal: ordinal}
}

func (p *Pane) Ordinal() int { return p.ordinal }
func (p *Pane) Mode() Mode   { return p.mode }

// TypeChar inserts c at the cursor. Erase and backspace delete the byte
// before the cursor, '\n' and '\r' start a new line, and other control bytes
// are dropped. A byte that would not fit is ignored. It reports whether the
// text changed.
func (p *Pane) TypeChar(c byte) bool {
	switch {
	case c == Erase || c == '\b' || c == 0x7f:
		return p.erase()
	case c == '\n' || c == '\r':
		return p.Newline()
	case printable(c):
		return p.insert(c)
	}
	return false
}

// Newline moves the cursor to the first column of the next row. It does
// nothing on the last row.
func (p *Pane) Newline() bool {
	return p.insert('\n')
}

// AppendOutput writes one program print: the bytes, then a line break.
func (p *Pane) AppendOutput(b []byte) {
	for _, c := range b {
		p.TypeChar(c)
	}
	p.Newline()
}

// MoveCursor shifts the byte cursor by delta, clamped to the text.
func (p *Pane) MoveCursor(delta int) {
	if p.mode != ModeText {
		return
	}
	p.byteCursor = clamp(p.byteCursor+delta, 0, p.rawLen)
	p.relayout()
}

// FindContentEnd is the length of the text without trailing blanks, erase
// sentinels and line breaks.
func (p *Pane) FindContentEnd() int {
	n := p.rawLen
	for n > 0 && isBlank(p.raw[n-1]) {
		n--
	}
	return n
}

// Content returns a copy of the text up to FindContentEnd.
func (p *Pane) Content() []byte {
	out := make([]byte, p.FindContentEnd())
	copy(out, p.raw[:])
	return out
}

// Raw returns a copy of the whole byte buffer, trailing blanks included.
func (p *Pane) Raw() []byte {
	out := make([]byte, p.rawLen)
	copy(out, p.raw[:])
	return out
}

// Fits reports whether LoadText would keep all of b.
func Fits(b []byte) bool {
	raw := make([]byte, 0, len(b))
	for _, c := range b {
		if c != '\r' {
			raw = append(raw, c)
		}
	}
	if len(raw) > Capacity {
		return false
	}
	_, _, ok := layout(raw, len(raw))
	return ok
}

// LoadText switches to text mode with b as content, keeping the longest
// prefix that fits. The cursor ends after the loaded text.
func (p *Pane) LoadText(b []byte) {
	p.Clear()
	for _, c := range b {
		if c == '\r' {
			continue
		}
		if c != '\n' && !printable(c) {
			c = ' '
		}
		if !p.insert(c) {
			break
		}
	}
}

// Clear blanks the text and switches to text mode.
func (p *Pane) Clear() {
	p.mode = ModeText
	p.raw = [Capacity]byte{}
	p.rawLen = 0
	p.byteCursor = 0
	p.relayout()
}

// ShowListing switches to directory-listing mode. The highlight keeps its
// position when it is still in range.
func (p *Pane) ShowListing(names []storage.Filename) {
	p.Clear()
	p.mode = ModeListing
	p.beingEdited = false
	p.listing = append(p.listing[:0], names...)
	if len(names) > ListingColumns*InteriorHeight {
		p.listing = p.listing[:ListingColumns*InteriorHeight]
	}
	p.highlight = clamp(p.highlight, 0, max(len(p.listing)-1, 0))
	p.interior = interiorGrid{}
	for i, name := range p.listing {
		row, col := i/ListingColumns, (i%ListingColumns)*ListingCellWidth
		copy(p.interior[row][col:col+storage.MaxFilenameBytes], name[:])
	}
}

// Navigate moves the listing highlight. Left and right step by one entry, up
// and down by a whole row; moves that would leave the listing do nothing.
func (p *Pane) Navigate(d Direction) {
	if p.mode != ModeListing {
		return
	}
	next := p.highlight
	switch d {
	case Left:
		next--
	case Right:
		next++
	case Up:
		next -= ListingColumns
	case Down:
		next += ListingColumns
	}
	if next < 0 || next >= len(p.listing) {
		return
	}
	p.highlight = next
}

func (p *Pane) Highlight() int { return p.highlight }

// HighlightedName returns the listing entry under the highlight.
func (p *Pane) HighlightedName() (storage.Filename, bool) {
	if p.mode != ModeListing || p.highlight >= len(p.listing) {
		return storage.Filename{}, false
	}
	return p.listing[p.highlight], true
}

func (p *Pane) Selected() bool             { return p.selected }
func (p *Pane) SetSelected(v bool)         { p.selected = v }
func (p *Pane) BeingEdited() bool          { return p.beingEdited }
func (p *Pane) SetBeingEdited(v bool)      { p.beingEdited = v }
func (p *Pane) Filename() storage.Filename { return p.filename }
func (p *Pane) Bind(f storage.Filename)    { p.filename = f }

// EditCursor is the linear interior offset where the next byte lands.
func (p *Pane) EditCursor() int { return p.editCursor }

// CursorRowCol splits EditCursor into interior coordinates.
func (p *Pane) CursorRowCol() (row, col int) {
	return p.editCursor / InteriorWidth, p.editCursor % InteriorWidth
}

func (p *Pane) ByteCursor() int { return p.byteCursor }

// Line returns interior row r as text with trailing blanks removed.
func (p *Pane) Line(r int) string {
	if r < 0 || r >= InteriorHeight {
		return ""
	}
	row := p.interior[r]
	n := len(row)
	for n > 0 && isBlank(row[n-1]) {
		n--
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = row[i]
		if out[i] == 0 {
			out[i] = ' '
		}
	}
	return string(out)
}

func (p *Pane) insert(c byte) bool {
	if p.mode != ModeText || p.rawLen >= Capacity {
		return false
	}
	var next [Capacity]byte
	copy(next[:], p.raw[:p.byteCursor])
	next[p.byteCursor] = c
	copy(next[p.byteCursor+1:], p.raw[p.byteCursor:p.rawLen])
	grid, pos, ok := layout(next[:p.rawLen+1], p.byteCursor+1)
	if !ok {
		return false
	}
	p.raw = next
	p.rawLen++
	p.byteCursor++
	p.interior, p.editCursor = grid, pos
	return true
}

func (p *Pane) erase() bool {
	if p.mode != ModeText || p.byteCursor == 0 {
		return false
	}
	copy(p.raw[p.byteCursor-1:], p.raw[p.byteCursor:p.rawLen])
	p.rawLen--
	p.raw[p.rawLen] = 0
	p.byteCursor--
	p.relayout()
	return true
}

// relayout cannot fail for text that already fit.
func (p *Pane) relayout() {
	grid, pos, ok := layout(p.raw[:p.rawLen], p.byteCursor)
	if ok {
		p.interior, p.editCursor = grid, pos
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
