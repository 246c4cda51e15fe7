// Package ui implements the interactive device browser for the devices
// subcommand.
package ui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"bindbutton/internal/x11"
)

var (
	cyanStyle     = gloss.NewStyle().Foreground(gloss.Color("14"))
	grayStyle     = gloss.NewStyle().Foreground(gloss.Color("8"))
	selectedStyle = gloss.NewStyle().Foreground(gloss.Color("15")).Bold(true)
)

// Model displays the discovered button devices.
type Model struct {
	devices []x11.Device
	cursor  int
}

func NewModel(devices []x11.Device) Model {
	return Model{devices: devices}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor -= 1
			}
		case "down", "j":
			if m.cursor < len(m.devices)-1 {
				m.cursor += 1
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	out := cyanStyle.Render("\n  ID   Buttons  Name    ")
	out += grayStyle.Render(fmt.Sprintf("%d devices\n", len(m.devices)))
	for i, dev := range m.devices {
		str := "  " + pad(strconv.Itoa(int(dev.Id)), 5)
		str += pad(strconv.Itoa(int(dev.Buttons)), 9)
		str += dev.Name + "\n"
		if i == m.cursor {
			out += selectedStyle.Render(str)
		} else {
			out += gloss.NewStyle().Render(str)
		}
	}
	out += grayStyle.Render("\n  q: quit    up/down: move\n\n")
	return out
}

func pad(str string, length int) string {
	toAdd := length - len(str)
	for i := 0; i < toAdd; i++ {
		str += " "
	}
	return str
}
