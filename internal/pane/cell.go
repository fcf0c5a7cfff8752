package pane

// Color is one of the sixteen VGA text-mode colors.
type Color uint8

const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

// Cell is one character position with its colors. A zero Ch renders blank.
type Cell struct {
	Ch byte
	FG Color
	BG Color
}

var (
	TextCell      = Cell{Ch: ' ', FG: White, BG: Black}
	HighlightCell = Cell{Ch: ' ', FG: Black, BG: White}
)

func (c Cell) WithChar(ch byte) Cell {
	c.Ch = ch
	return c
}
