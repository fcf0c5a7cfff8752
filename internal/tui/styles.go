package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/quadpane/internal/desktop"
	"github.com/jask/quadpane/internal/pane"
)

// ansiIndex maps the VGA color order onto the ANSI 16-color palette.
var ansiIndex = [16]int{0, 4, 2, 6, 1, 5, 3, 7, 8, 12, 10, 14, 9, 13, 11, 15}

func vgaColor(c pane.Color) lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(ansiIndex[c&0x0f]))
}

type colorPair struct {
	fg, bg pane.Color
}

// styleCache holds one lipgloss style per color pair seen so far.
type styleCache map[colorPair]lipgloss.Style

func (sc styleCache) get(fg, bg pane.Color) lipgloss.Style {
	k := colorPair{fg, bg}
	if st, ok := sc[k]; ok {
		return st
	}
	st := lipgloss.NewStyle().Foreground(vgaColor(fg)).Background(vgaColor(bg))
	sc[k] = st
	return st
}

// renderScreen turns a frame into terminal text, one styled run per stretch
// of identically colored cells.
func renderScreen(s *desktop.Screen, styles styleCache) string {
	var b strings.Builder
	run := make([]byte, 0, desktop.ScreenWidth)
	for r := range s {
		if r > 0 {
			b.WriteByte('\n')
		}
		row := &s[r]
		start := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && row[c].FG == row[start].FG && row[c].BG == row[start].BG {
				continue
			}
			run = run[:0]
			for _, cell := range row[start:c] {
				ch := cell.Ch
				if ch < 0x20 || ch >= 0x7f {
					ch = ' '
				}
				run = append(run, ch)
			}
			b.WriteString(styles.get(row[start].FG, row[start].BG).Render(string(run)))
			start = c
		}
	}
	return b.String()
}
