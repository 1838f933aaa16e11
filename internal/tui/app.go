package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minicodemonkey/notegen/internal/dataset"
)

// AppState represents the current state of the application.
type AppState int

const (
	StateRunning AppState = iota
	StateStopped
	StateComplete
	StateError
)

func (s AppState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	case StateComplete:
		return "Complete"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// NoteRowState is the progress of one note in the list.
type NoteRowState int

const (
	RowPending NoteRowState = iota
	RowActive
	RowDone
	RowSkipped
	RowFailed
)

// NoteRow is one line of the note list.
type NoteRow struct {
	Name     string
	State    NoteRowState
	Files    int
	NumFiles int
}

// RunFunc performs the generation. It must close the events channel the
// App listens on when it returns.
type RunFunc func(ctx context.Context) (*dataset.Result, error)

// EventMsg wraps a dataset event for the Bubble Tea model.
type EventMsg struct {
	Event dataset.Event
}

// FinishedMsg is sent when the run returns.
type FinishedMsg struct {
	Result *dataset.Result
	Err    error
}

// App is the Bubble Tea model that shows generation progress.
type App struct {
	title     string
	rows      []NoteRow
	index     map[string]int
	state     AppState
	startTime time.Time
	elapsed   time.Duration
	width     int
	height    int

	events <-chan dataset.Event
	run    RunFunc
	ctx    context.Context
	cancel context.CancelFunc

	result       *dataset.Result
	err          error
	lastActivity string
}

// NewApp creates an App for the given notes. run is started by Init with a
// context derived from ctx and reports progress on events.
func NewApp(ctx context.Context, title string, noteNames []string, events <-chan dataset.Event, run RunFunc) *App {
	ctx, cancel := context.WithCancel(ctx)

	rows := make([]NoteRow, len(noteNames))
	index := make(map[string]int, len(noteNames))
	for i, name := range noteNames {
		rows[i] = NoteRow{Name: name}
		index[name] = i
	}

	return &App{
		title:        title,
		rows:         rows,
		index:        index,
		state:        StateRunning,
		startTime:    time.Now(),
		events:       events,
		run:          run,
		ctx:          ctx,
		cancel:       cancel,
		lastActivity: "Starting...",
	}
}

// Init starts the run and begins listening for its events.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.runGeneration(),
		a.listenForEvents(),
	)
}

// Update handles messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case EventMsg:
		a.handleEvent(msg.Event)
		return a, a.listenForEvents()

	case FinishedMsg:
		a.handleFinished(msg)
		return a, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.cancel()
			if a.state == StateRunning {
				a.state = StateStopped
				a.lastActivity = "Stopped"
			}
			a.elapsed = time.Since(a.startTime)
			return a, tea.Quit
		}
	}

	return a, nil
}

// runGeneration runs the generation and signals completion.
func (a *App) runGeneration() tea.Cmd {
	if a.run == nil {
		return nil
	}
	return func() tea.Msg {
		res, err := a.run(a.ctx)
		return FinishedMsg{Result: res, Err: err}
	}
}

// listenForEvents listens for dataset events and returns them as messages.
func (a *App) listenForEvents() tea.Cmd {
	if a.events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-a.events
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

func (a *App) handleEvent(e dataset.Event) {
	i, ok := a.index[e.Note]
	if !ok {
		return
	}
	row := &a.rows[i]
	row.NumFiles = e.NumFiles

	switch e.Type {
	case dataset.EventNoteStarted:
		row.State = RowActive
		a.lastActivity = fmt.Sprintf("Generating %s (%d/%d)", e.Note, e.Index, e.Total)
	case dataset.EventFileWritten:
		row.Files = e.Files
		a.lastActivity = "Wrote " + e.Path
	case dataset.EventNoteSkipped:
		row.State = RowSkipped
		a.lastActivity = e.Note + " already generated"
	case dataset.EventNoteDone:
		row.State = RowDone
		row.Files = e.Files
	case dataset.EventNoteFailed:
		row.State = RowFailed
		row.Files = e.Files
		if e.Err != nil {
			a.lastActivity = fmt.Sprintf("Error: %s: %v", e.Note, e.Err)
		}
	}
}

func (a *App) handleFinished(msg FinishedMsg) {
	a.result = msg.Result
	a.err = msg.Err
	a.elapsed = time.Since(a.startTime)

	switch {
	case a.state == StateStopped:
	case msg.Err != nil:
		a.state = StateError
		a.lastActivity = "Error: " + msg.Err.Error()
	default:
		a.state = StateComplete
		if msg.Result != nil {
			a.lastActivity = fmt.Sprintf("Done: %d generated, %d skipped, %d failed",
				len(msg.Result.Generated), len(msg.Result.Skipped), len(msg.Result.Failed))
		}
	}
}

// View renders the TUI.
func (a *App) View() string {
	return a.renderDashboard()
}

// Result returns the run's result once it has finished.
func (a *App) Result() *dataset.Result {
	return a.result
}

// Err returns the run's error once it has finished.
func (a *App) Err() error {
	return a.err
}

// GetState returns the current app state.
func (a *App) GetState() AppState {
	return a.state
}

// GetRows returns the note list.
func (a *App) GetRows() []NoteRow {
	return a.rows
}

// GetElapsedTime returns the time since the run started, frozen once it ends.
func (a *App) GetElapsedTime() time.Duration {
	if a.state != StateRunning {
		return a.elapsed
	}
	return time.Since(a.startTime)
}

// GetCompletionPercentage returns the share of notes that are finished.
func (a *App) GetCompletionPercentage() float64 {
	if len(a.rows) == 0 {
		return 100.0
	}
	return float64(a.finishedCount()) / float64(len(a.rows)) * 100.0
}

func (a *App) finishedCount() int {
	n := 0
	for _, r := range a.rows {
		if r.State == RowDone || r.State == RowSkipped || r.State == RowFailed {
			n++
		}
	}
	return n
}

// GetLastActivity returns the last activity message.
func (a *App) GetLastActivity() string {
	return a.lastActivity
}
