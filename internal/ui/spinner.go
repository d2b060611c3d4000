package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMoss500))

// Spinner shows progress of long running steps such as dependency installs.
// On a terminal it animates; otherwise each message is printed once.
type Spinner struct {
	mu      sync.Mutex
	out     io.Writer
	isTTY   bool
	program *tea.Program
	done    chan struct{}
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
}

type msgUpdate string
type msgQuit struct{}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = spinnerStyle
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case msgUpdate:
		m.message = string(msg)
		return m, nil
	case msgQuit:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), DimStyle.Render(m.message))
}

// NewSpinner writes to stderr.
func NewSpinner() *Spinner {
	return NewSpinnerTo(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewSpinnerTo writes to out; animate selects the terminal rendering.
func NewSpinnerTo(out io.Writer, animate bool) *Spinner {
	return &Spinner{out: out, isTTY: animate}
}

// Start shows message. Calling Start while running replaces the message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isTTY {
		fmt.Fprintln(s.out, DimStyle.Render(message))
		return
	}
	if s.program != nil {
		s.program.Send(msgUpdate(message))
		return
	}

	s.done = make(chan struct{})
	s.program = tea.NewProgram(newSpinnerModel(message), tea.WithOutput(s.out), tea.WithInput(nil))
	go func(p *tea.Program, done chan struct{}) {
		_, _ = p.Run()
		close(done)
	}(s.program, s.done)
}

// Update is Start for an already running spinner.
func (s *Spinner) Update(message string) {
	s.Start(message)
}

// Stop ends the animation and waits for the terminal to be restored.
func (s *Spinner) Stop() {
	s.mu.Lock()
	p, done := s.program, s.done
	s.program, s.done = nil, nil
	s.mu.Unlock()

	if p == nil {
		return
	}
	p.Send(msgQuit{})
	<-done
}

// Run shows message while fn runs.
func (s *Spinner) Run(message string, fn func() error) error {
	s.Start(message)
	defer s.Stop()
	return fn()
}

// WithSpinnerResult runs fn under a fresh stderr spinner and returns its
// result.
func WithSpinnerResult[T any](message string, fn func() (T, error)) (T, error) {
	s := NewSpinner()
	s.Start(message)
	defer s.Stop()
	return fn()
}
