package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pilab/internal/config"
	"github.com/san-kum/pilab/internal/locale"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var (
	ErrInvalidChoice = errors.New("invalid choice")
	ErrAborted       = errors.New("menu aborted")
)

// Choice is what the user picked in the menu.
type Choice struct {
	Locale  locale.Locale
	Method  string
	Digits  int
	Samples int
}

type state int

const (
	stateLanguage state = iota
	stateMethod
	stateTier
	stateSamples
	stateDone
)

var methods = []string{config.MethodMonteCarlo, config.MethodSeries}

type model struct {
	state  state
	cursor int
	choice Choice

	tiers   []int
	editBuf string

	err error
}

func newModel(loc locale.Locale, tiers []int) model {
	m := model{
		state: stateLanguage,
		tiers: tiers,
	}
	m.choice.Locale = loc
	for i, l := range locale.All {
		if l == loc {
			m.cursor = i
		}
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m.fail(ErrAborted)
	}

	switch m.state {
	case stateLanguage:
		return m.listKey(msg, len(locale.All), m.pickLanguage)
	case stateMethod:
		return m.listKey(msg, len(methods), m.pickMethod)
	case stateTier:
		return m.listKey(msg, len(m.tiers), m.pickTier)
	case stateSamples:
		return m.samplesKey(msg)
	}
	return m, nil
}

// listKey moves the cursor over n entries. Digits pick an entry directly,
// counting from 1; a digit with no entry is an invalid choice.
func (m model) listKey(msg tea.KeyMsg, n int, pick func(int) (model, tea.Cmd)) (model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m.fail(ErrAborted)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter", " ":
		return pick(m.cursor)
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			i := int(key[0]-'0') - 1
			if i < 0 || i >= n {
				return m.fail(fmt.Errorf("%w: %s", ErrInvalidChoice, key))
			}
			return pick(i)
		}
	}
	return m, nil
}

func (m model) pickLanguage(i int) (model, tea.Cmd) {
	m.choice.Locale = locale.All[i]
	m.state = stateMethod
	m.cursor = 0
	return m, nil
}

func (m model) pickMethod(i int) (model, tea.Cmd) {
	m.choice.Method = methods[i]
	m.cursor = 0
	if m.choice.Method == config.MethodSeries {
		m.state = stateTier
	} else {
		m.state = stateSamples
	}
	return m, nil
}

func (m model) pickTier(i int) (model, tea.Cmd) {
	m.choice.Digits = m.tiers[i]
	m.state = stateDone
	return m, tea.Quit
}

func (m model) samplesKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		n, err := strconv.Atoi(strings.ReplaceAll(m.editBuf, "_", ""))
		if err != nil || n <= 0 {
			return m.fail(fmt.Errorf("%w: %q", ErrInvalidChoice, m.editBuf))
		}
		m.choice.Samples = n
		m.state = stateDone
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	case tea.KeyRunes:
		m.editBuf += string(msg.Runes)
	}
	return m, nil
}

func (m model) fail(err error) (model, tea.Cmd) {
	m.err = err
	m.state = stateDone
	return m, tea.Quit
}

func (m model) View() string {
	if m.state == stateDone {
		if m.err != nil && errors.Is(m.err, ErrInvalidChoice) {
			return "\n      " + red.Render(m.choice.Locale.T(locale.InvalidChoice)) + "\n"
		}
		return ""
	}

	loc := m.choice.Locale
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("      " + cyan.Render(loc.T(locale.SystemName)) + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	switch m.state {
	case stateLanguage:
		b.WriteString("      " + white.Render(loc.T(locale.SelectLanguage)) + "\n\n")
		items := make([]string, len(locale.All))
		for i, l := range locale.All {
			items[i] = l.DisplayName()
		}
		m.writeList(&b, items)
	case stateMethod:
		b.WriteString("      " + white.Render(loc.T(locale.SelectMethod)) + "\n\n")
		items := []string{loc.T(locale.MethodMonteCarlo), loc.T(locale.MethodSeries)}
		m.writeList(&b, items)
	case stateTier:
		b.WriteString("      " + white.Render(loc.T(locale.SelectPrecision)) + "\n\n")
		items := make([]string, len(m.tiers))
		for i, d := range m.tiers {
			items[i] = loc.TierLabel(d)
		}
		m.writeList(&b, items)
	case stateSamples:
		b.WriteString("      " + white.Render(loc.T(locale.EnterSamples)) + "\n\n")
		b.WriteString("      " + cyan.Render("▸ ") + magenta.Render(m.editBuf+"▋") + "\n")
		b.WriteString("\n")
		b.WriteString(dim.Render("      enter confirm   esc quit") + "\n")
	}

	return b.String()
}

func (m model) writeList(b *strings.Builder, items []string) {
	for i, item := range items {
		label := fmt.Sprintf("%d. %s", i+1, item)
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(label) + "\n")
		} else {
			b.WriteString("        " + dim.Render(label) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter confirm   q quit") + "\n")
}

// RunMenu asks for a language, a method and its parameter. It returns
// ErrInvalidChoice for an out-of-range selection and ErrAborted when the
// user quits.
func RunMenu(loc locale.Locale, tiers []int, opts ...tea.ProgramOption) (Choice, error) {
	p := tea.NewProgram(newModel(loc, tiers), opts...)
	final, err := p.Run()
	if err != nil {
		return Choice{}, err
	}
	m := final.(model)
	if m.err != nil {
		return m.choice, m.err
	}
	return m.choice, nil
}
