package desktop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/quadpane/internal/pane"
	"github.com/jask/quadpane/internal/sched"
)

const (
	ScreenWidth  = 80
	ScreenHeight = 25

	SidebarCol   = 70
	SidebarWidth = ScreenWidth - SidebarCol

	filenamePrompt = "F5 - Filename: "
	idleHint       = "F1-F4 pane  F5 new  e edit  r run  F6 cancel"
)

// Screen is one composed frame.
type Screen [ScreenHeight][ScreenWidth]pane.Cell

// Line returns row r as plain text.
func (s *Screen) Line(r int) string {
	if r < 0 || r >= ScreenHeight {
		return ""
	}
	var b strings.Builder
	for _, c := range s[r] {
		ch := c.Ch
		if ch == 0 {
			ch = ' '
		}
		b.WriteByte(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

// PaneOrigin is the screen position of pane ordinal's top-left border cell.
// Adjacent panes share their touching border rows and columns.
func PaneOrigin(ordinal int) (row, col int) {
	k := ordinal - 1
	return 1 + (k/2)*(pane.Height-1), (k % 2) * (pane.Width - 1)
}

// Border cells fight over shared seams; the higher rank wins.
const (
	rankNone = iota
	rankPlain
	rankSelected
	rankLabel
)

func borderRank(ch byte) int {
	switch ch {
	case '.':
		return rankPlain
	case '*':
		return rankSelected
	default:
		return rankLabel
	}
}

// Draw composes a full frame: the top input line, the four panes and the
// scheduler sidebar.
func (d *Desktop) Draw() *Screen {
	var s Screen
	var rank [ScreenHeight][ScreenWidth]int
	for r := range s {
		for c := range s[r] {
			s[r][c] = pane.TextCell
		}
	}

	for _, p := range d.panes {
		p.Render()
		or, oc := PaneOrigin(p.Ordinal())
		for r := 0; r < pane.Height; r++ {
			for c := 0; c < pane.Width; c++ {
				cell := p.Cell(r, c)
				if !pane.IsBorder(r, c) {
					s[or+r][oc+c] = cell
					continue
				}
				if rk := borderRank(cell.Ch); rk >= rank[or+r][oc+c] {
					s[or+r][oc+c] = cell
					rank[or+r][oc+c] = rk
				}
			}
		}
	}

	d.drawTopLine(&s)
	d.drawSidebar(&s)
	return &s
}

func (d *Desktop) drawTopLine(s *Screen) {
	text, cell := idleHint, pane.Cell{FG: pane.DarkGray, BG: pane.Black}
	switch {
	case d.typingFilename:
		text, cell = filenamePrompt+string(d.nameBuf[:d.nameLen]), pane.TextCell
	case d.status != "" && d.statusErr:
		text, cell = d.status, pane.Cell{FG: pane.LightRed, BG: pane.Black}
	case d.status != "":
		text, cell = d.status, pane.Cell{FG: pane.LightGreen, BG: pane.Black}
	}
	putText(s, 0, 0, ansi.Truncate(text, SidebarCol-1, ""), cell)
	if d.typingFilename {
		if c := len(filenamePrompt) + d.nameLen; c < SidebarCol {
			s[0][c] = pane.HighlightCell
		}
	}
}

func (d *Desktop) drawSidebar(s *Screen) {
	head := pane.Cell{FG: pane.Yellow, BG: pane.Black}
	putText(s, 1, SidebarCol, "SLOTS", head)
	for i := 0; i < sched.NumSlots; i++ {
		st := d.sched.State(i)
		state := "IDLE"
		switch {
		case d.panes[i].BeingEdited():
			state = "EDIT"
		case st.Awaiting:
			state = "WAIT"
		case st.Active:
			state = "RUN"
		}
		marker := ' '
		if d.sched.Turn() == i {
			marker = '>'
		}
		row := 3 + 3*i
		putText(s, row, SidebarCol, fmt.Sprintf("%cF%d %s", marker, i+1, state), pane.TextCell)
		putText(s, row+1, SidebarCol, fmt.Sprintf(" %d", st.Ticks), pane.Cell{FG: pane.LightCyan, BG: pane.Black})
	}
}

func putText(s *Screen, row, col int, text string, style pane.Cell) {
	for i := 0; i < len(text) && col+i < ScreenWidth; i++ {
		s[row][col+i] = style.WithChar(text[i])
	}
}
