package pane

import "github.com/jask/quadpane/internal/storage"

const (
	borderChar   = '.'
	selectedChar = '*'
	editingTag   = "Editing: "
)

// LabelCol is the grid column of the first of the two label cells.
const LabelCol = Width/2 - 1

// Render rebuilds the grid from the interior. The order is fixed (colors
// reset, highlight overlay, borders) so no highlight or title from an earlier
// frame survives.
func (p *Pane) Render() {
	for r := 0; r < InteriorHeight; r++ {
		for c := 0; c < InteriorWidth; c++ {
			ch := p.interior[r][c]
			if ch == 0 || ch == '\n' {
				ch = ' '
			}
			p.grid[r+1][c+1].Ch = ch
		}
	}
	p.ResetColors()
	p.overlayHighlight()
	p.RenderBorders()
}

// ResetColors paints the whole grid in the default text colors.
func (p *Pane) ResetColors() {
	for r := range p.grid {
		for c := range p.grid[r] {
			p.grid[r][c].FG = TextCell.FG
			p.grid[r][c].BG = TextCell.BG
		}
	}
}

func (p *Pane) overlayHighlight() {
	if p.mode != ModeListing || p.highlight >= len(p.listing) {
		return
	}
	row := p.highlight/ListingColumns + 1
	col := (p.highlight%ListingColumns)*ListingCellWidth + 1
	for c := col; c < col+storage.MaxFilenameBytes && c < Width-1; c++ {
		p.grid[row][c].FG = HighlightCell.FG
		p.grid[row][c].BG = HighlightCell.BG
	}
}

// RenderBorders redraws the outer ring. The two label cells carry the pane's
// function key; an edited pane shows its file name there instead.
func (p *Pane) RenderBorders() {
	mark := byte(borderChar)
	if p.selected {
		mark = selectedChar
	}
	for c := 0; c < Width; c++ {
		p.grid[0][c].Ch = mark
		p.grid[Height-1][c].Ch = mark
	}
	for r := 0; r < Height; r++ {
		p.grid[r][0].Ch = mark
		p.grid[r][Width-1].Ch = mark
	}
	p.grid[0][LabelCol].Ch = 'F'
	p.grid[0][LabelCol+1].Ch = byte('0' + p.ordinal%10)

	if !p.beingEdited {
		return
	}
	title := editingTag + p.filename.String()
	for i := 0; i < len(title) && 2+i < Width-2; i++ {
		p.grid[0][2+i] = HighlightCell.WithChar(title[i])
	}
}

// Cell returns the grid cell at (row, col), or a blank cell when out of range.
func (p *Pane) Cell(row, col int) Cell {
	if row < 0 || row >= Height || col < 0 || col >= Width {
		return TextCell
	}
	return p.grid[row][col]
}

// IsBorder reports whether (row, col) lies on the outer ring.
func IsBorder(row, col int) bool {
	return row == 0 || row == Height-1 || col == 0 || col == Width-1
}
