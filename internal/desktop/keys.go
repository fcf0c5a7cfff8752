package desktop

import "fmt"

type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBackspace
)

const (
	KeyFilename = KeyF5
	KeyCancel   = KeyF6
)

// Key is one decoded keyboard event: a printable rune or a named key.
type Key struct {
	Code KeyCode
	Rune rune
}

func Rune(r rune) Key      { return Key{Code: KeyRune, Rune: r} }
func Named(c KeyCode) Key  { return Key{Code: c} }
func (k Key) IsRune() bool { return k.Code == KeyRune }

func (k Key) String() string {
	if k.Code == KeyRune {
		return fmt.Sprintf("%q", k.Rune)
	}
	return fmt.Sprintf("key(%d)", int(k.Code))
}

// paneKey maps F1..F4 to a pane ordinal.
func paneKey(k Key) (int, bool) {
	if k.Code >= KeyF1 && k.Code <= KeyF4 {
		return int(k.Code-KeyF1) + 1, true
	}
	return 0, false
}

// printableByte reports k as a single byte the panes can display.
func printableByte(k Key) (byte, bool) {
	if k.Code != KeyRune || k.Rune < 0x20 || k.Rune >= 0x7f {
		return 0, false
	}
	return byte(k.Rune), true
}
