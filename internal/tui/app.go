// Package tui hosts the desktop in a bubbletea program: keyboard events go
// to Desktop.HandleKey, a timer drives Desktop.Tick, and every frame is drawn
// from Desktop.Draw.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/quadpane/internal/desktop"
)

type tickMsg time.Time

// App is the bubbletea model around one desktop.
type App struct {
	desk     *desktop.Desktop
	interval time.Duration
	keys     keyMap
	help     help.Model
	styles   styleCache
}

func New(desk *desktop.Desktop, interval time.Duration) *App {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	return &App{
		desk:     desk,
		interval: interval,
		keys:     newKeyMap(),
		help:     help.New(),
		styles:   styleCache{},
	}
}

func (a *App) Init() tea.Cmd {
	return a.tick()
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(m, a.keys.Quit) {
			return a, tea.Quit
		}
		for _, k := range a.keys.translate(m) {
			a.desk.HandleKey(k)
		}
	case tea.WindowSizeMsg:
		a.help.Width = m.Width
	case tickMsg:
		a.desk.Tick()
		return a, a.tick()
	}
	return a, nil
}

func (a *App) View() string {
	return renderScreen(a.desk.Draw(), a.styles) + "\n" + a.help.View(a.keys)
}
