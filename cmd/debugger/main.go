// Command debugger is an interactive TUI for stepping the machine one CPU
// instruction at a time and inspecting registers, flags, RAM pages around
// the program counter, and a raw dump of the CPU state.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/samukallio/nes/pkg/cartridge"
	"github.com/samukallio/nes/pkg/machine"
)

var (
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type model struct {
	m       *machine.Machine
	romPath string

	prevPC uint16
	steps  uint64
	err    error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "j":
			m.prevPC = m.m.CPU.PC
			for i := 0; i < 1; i++ {
				m.m.Step1()
			}
			m.steps++

		case "f":
			m.m.RunUntilVerticalBlank()

		case "r":
			m.m.Reset()
			m.steps = 0
		}
	}
	return m, nil
}

// renderPage renders 16 bytes of CPU-visible memory as a line, with the
// byte at the program counter bracketed.
func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04X | ", start)
	for i := uint16(0); i < 16; i++ {
		b := m.m.Bus.Read(start + i)
		if start+i == m.m.CPU.PC {
			s += highlightStyle.Render(fmt.Sprintf("[%02X]", b)) + " "
		} else {
			s += fmt.Sprintf(" %02X  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	header := headerStyle.Render("page | " + strings.Repeat("  .  ", 16))
	lines := []string{header}

	base := m.m.CPU.PC &^ 0x00FF
	offsets := []uint16{0x0000, 0x0100, 0x0200, base, base + 0x10, base + 0x20}
	for _, off := range offsets {
		lines = append(lines, m.renderPage(off))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	c := m.m.CPU
	flagBit := func(set bool, ch string) string {
		if set {
			return ch
		}
		return "-"
	}
	flags := flagBit(c.N, "N") + flagBit(c.V, "V") + flagBit(c.D, "D") +
		flagBit(c.I, "I") + flagBit(c.Z, "Z") + flagBit(c.C, "C")

	return fmt.Sprintf(`
Steps: %d
PC: %04X (was %04X)
A: %02X  X: %02X  Y: %02X  SP: %02X
Flags: %s
Stall: %d
Scanline: %d  Dot: %d  Frame: %d
`,
		m.steps, c.PC, m.prevPC, c.A, c.X, c.Y, c.SP, flags, c.Stall,
		m.m.PPU.Scanline(), m.m.PPU.Dot(), m.m.PPU.Frame())
}

func (m model) View() string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), m.status()),
		"",
		spew.Sdump(m.m.CPU),
		"",
		"space/j: step one instruction   f: run to vblank   r: reset   q: quit",
	)
	if m.err != nil {
		body = errorStyle.Render(m.err.Error()) + "\n" + body
	}
	return body
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debugger <rom-file>")
		os.Exit(1)
	}

	cart, err := cartridge.LoadFromFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load ROM: %v\n", err)
		os.Exit(1)
	}

	mach := machine.New()
	mach.Load(cart, machine.DefaultSampleRate)

	p := tea.NewProgram(model{m: mach, romPath: os.Args[1]})
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "debugger exited with error: %v\n", err)
		os.Exit(1)
	}
}
