package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/quadpane/internal/desktop"
)

type keyMap struct {
	Pane1     key.Binding
	Pane2     key.Binding
	Pane3     key.Binding
	Pane4     key.Binding
	NewFile   key.Binding
	Cancel    key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Backspace key.Binding
	Edit      key.Binding
	Run       key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Pane1:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1-f4", "pane")),
		Pane2:     key.NewBinding(key.WithKeys("f2")),
		Pane3:     key.NewBinding(key.WithKeys("f3")),
		Pane4:     key.NewBinding(key.WithKeys("f4")),
		NewFile:   key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "new file")),
		Cancel:    key.NewBinding(key.WithKeys("f6", "esc"), key.WithHelp("f6", "save/cancel")),
		Up:        key.NewBinding(key.WithKeys("up")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←↑↓→", "move")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Enter:     key.NewBinding(key.WithKeys("enter")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "delete")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Run:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pane1, k.NewFile, k.Left, k.Edit, k.Run, k.Cancel, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// translate decodes a terminal key into desktop keys. Pasted text yields one
// key per rune; keys the desktop has no use for yield nothing.
func (k keyMap) translate(msg tea.KeyMsg) []desktop.Key {
	named := []struct {
		b    key.Binding
		code desktop.KeyCode
	}{
		{k.Pane1, desktop.KeyF1},
		{k.Pane2, desktop.KeyF2},
		{k.Pane3, desktop.KeyF3},
		{k.Pane4, desktop.KeyF4},
		{k.NewFile, desktop.KeyFilename},
		{k.Cancel, desktop.KeyCancel},
		{k.Up, desktop.KeyUp},
		{k.Down, desktop.KeyDown},
		{k.Left, desktop.KeyLeft},
		{k.Right, desktop.KeyRight},
		{k.Enter, desktop.KeyEnter},
		{k.Backspace, desktop.KeyBackspace},
	}
	for _, n := range named {
		if key.Matches(msg, n.b) {
			return []desktop.Key{desktop.Named(n.code)}
		}
	}
	switch msg.Type {
	case tea.KeySpace:
		return []desktop.Key{desktop.Rune(' ')}
	case tea.KeyRunes:
		out := make([]desktop.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, desktop.Rune(r))
		}
		return out
	}
	return nil
}
