package pane

type interiorGrid [InteriorHeight][InteriorWidth]byte

// layout wraps raw into the interior. Printable bytes take one cell each;
// '\n' jumps to column 0 of the next row. It returns the linear cell offset
// of the byte at cursor (or of the end when cursor == len(raw)) and false if
// the text does not fit.
func layout(raw []byte, cursor int) (grid interiorGrid, pos int, ok bool) {
	p := 0
	for i, b := range raw {
		if i == cursor {
			pos = p
		}
		if b == '\n' {
			row := p/InteriorWidth + 1
			if row >= InteriorHeight {
				return grid, 0, false
			}
			p = row * InteriorWidth
			continue
		}
		if p >= Capacity {
			return grid, 0, false
		}
		grid[p/InteriorWidth][p%InteriorWidth] = b
		p++
	}
	if cursor >= len(raw) {
		pos = p
	}
	return grid, pos, true
}

func isBlank(b byte) bool {
	return b == 0 || b == ' ' || b == '\n'
}

func printable(b byte) bool {
	return b >= 0x20 && b < 0x7f
}
