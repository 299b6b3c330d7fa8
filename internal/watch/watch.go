// Package watch renders a live terminal view of a running check.
package watch

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/shipcheck/internal/checker"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	failureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// eventMsg wraps a checker event for the bubbletea update loop.
type eventMsg checker.Event

// closedMsg signals that the event stream ended.
type closedMsg struct{}

// Model is the bubbletea model for live check progress.
type Model struct {
	destination string
	container   string
	events      <-chan checker.Event

	spinner       spinner.Model
	attempt       int
	maxRetries    int
	waiting       bool
	transportErrs int
	lastErr       error

	done    bool
	outcome checker.Outcome
}

// NewModel creates a progress model fed by the given event stream.
func NewModel(destination, container string, events <-chan checker.Event) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	return Model{
		destination: destination,
		container:   container,
		events:      events,
		spinner:     s,
	}
}

// waitForEvent blocks on the event stream and returns the next message.
func waitForEvent(events <-chan checker.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(e)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		e := checker.Event(msg)
		m.maxRetries = e.MaxRetries
		switch e.Kind {
		case checker.EventAttempt:
			m.attempt = e.Attempt
			m.waiting = false
		case checker.EventWaiting:
			m.waiting = true
		case checker.EventTransportError:
			m.transportErrs++
			m.lastErr = e.Err
		case checker.EventDone:
			m.done = true
			m.outcome = e.Outcome
			return m, tea.Quit
		}
		return m, waitForEvent(m.events)

	case closedMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	header := titleStyle.Render(fmt.Sprintf("Checking %s on %s", m.container, m.destination))

	if m.done {
		switch m.outcome {
		case checker.OutcomeSuccess:
			return header + "\n" + successStyle.Render("✓ container started") + "\n"
		case checker.OutcomeFailure:
			return header + "\n" + failureStyle.Render("✗ failure pattern matched") + "\n"
		default:
			return header + "\n" + failureStyle.Render("✗ timed out waiting for startup") + "\n"
		}
	}

	status := fmt.Sprintf("attempt %d/%d", m.attempt+1, m.maxRetries)
	if m.waiting {
		status += " (waiting)"
	}

	body := fmt.Sprintf("%s %s", m.spinner.View(), status)
	if m.transportErrs > 0 {
		body += "\n" + dimStyle.Render(fmt.Sprintf("host unreachable %d time(s), retrying: %v",
			m.transportErrs, m.lastErr))
	}

	return header + "\n" + body + "\n"
}

// Outcome returns the terminal outcome once the model has quit.
func (m Model) Outcome() checker.Outcome {
	return m.outcome
}

// checkResult carries the checker's verdict across the UI goroutine.
type checkResult struct {
	outcome checker.Outcome
	err     error
}

// awaitResult waits for the checker to finish. The UI may have quit before
// the check did (ctrl+c, render error), so the event stream is drained here
// to keep the checker's notify sends from blocking on a full buffer.
func awaitResult(events <-chan checker.Event, resCh <-chan checkResult) (checker.Outcome, error) {
	go func() {
		for range events {
		}
	}()
	res := <-resCh
	return res.outcome, res.err
}

// Run renders the live view while fn executes the check. fn receives the
// notify callback to wire into the checker; Run returns fn's result after
// the view has shut down.
func Run(destination, container string, fn func(notify func(checker.Event)) (checker.Outcome, error)) (checker.Outcome, error) {
	events := make(chan checker.Event, 16)
	resCh := make(chan checkResult, 1)

	go func() {
		outcome, err := fn(func(e checker.Event) { events <- e })
		close(events)
		resCh <- checkResult{outcome, err}
	}()

	p := tea.NewProgram(NewModel(destination, container, events))
	_, uiErr := p.Run()

	outcome, err := awaitResult(events, resCh)
	if uiErr != nil {
		return checker.OutcomeFailure, uiErr
	}
	return outcome, err
}
