package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wavesync/internal/middleware"
	"github.com/desertthunder/wavesync/internal/resolver"
	"github.com/desertthunder/wavesync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SourceListView ViewState = iota
	ConfirmView
	TaskView
	ResultView
)

// framesPerSecond is the scheduler tick rate while a task is active.
const framesPerSecond = 30

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	session     *tasks.Session
	resolver    *resolver.Resolver
	scheduler   *tasks.Scheduler
	width       int
	height      int
	sourceList  list.Model
	descriptors []middleware.SourceDescriptor

	progressChan chan tasks.ProgressUpdate
	messages     []string
	importTask   *tasks.ImportTask
	renderTask   *tasks.RenderTask

	err  error
	help help.Model
	keys keyMap
}

// sourceItem wraps [middleware.SourceDescriptor] to implement list.Item.
type sourceItem struct {
	descriptor middleware.SourceDescriptor
}

func (i sourceItem) FilterValue() string { return i.descriptor.Name }
func (i sourceItem) Title() string       { return i.descriptor.Name }
func (i sourceItem) Description() string { return i.descriptor.MiddlewarePath }

type sourcesResolvedMsg struct {
	descriptors []middleware.SourceDescriptor
	err         error
}

type frameTickMsg time.Time

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, session *tasks.Session, res *resolver.Resolver, scheduler *tasks.Scheduler) *Model {
	return &Model{
		ctx:       ctx,
		view:      SourceListView,
		session:   session,
		resolver:  res,
		scheduler: scheduler,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by resolving the middleware selection.
func (m *Model) Init() tea.Cmd {
	return m.resolveSources()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.sourceList.Width() == 0 {
			m.sourceList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SourceListView:
			return m.handleSourceListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		// TaskView ignores keys; there is no cancellation API.
		return m, nil

	case sourcesResolvedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.descriptors = msg.descriptors
		items := make([]list.Item, len(msg.descriptors))
		for i, descriptor := range msg.descriptors {
			items[i] = sourceItem{descriptor: descriptor}
		}
		m.sourceList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.sourceList.Title = "Middleware Selection"
		m.sourceList.SetSize(m.width-4, m.height-8)
		return m, nil

	case frameTickMsg:
		return m.tick()
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SourceListView:
		return m.renderSourceList()
	case ConfirmView:
		return m.renderConfirm()
	case TaskView:
		return m.renderTaskView()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSourceListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if len(m.descriptors) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	case "r":
		return m.startRender()
	case "R":
		return m, m.resolveSources()
	}

	var cmd tea.Cmd
	m.sourceList, cmd = m.sourceList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = SourceListView
		return m, nil
	case "y":
		return m.startImport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SourceListView
		m.err = nil
		return m, nil
	case "R":
		m.view = SourceListView
		m.err = nil
		return m, m.resolveSources()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == SourceListView {
		m.sourceList, cmd = m.sourceList.Update(msg)
	}
	return m, cmd
}

func (m *Model) resolveSources() tea.Cmd {
	return func() tea.Msg {
		descriptors, err := m.resolver.ResolveSelection(m.ctx)
		return sourcesResolvedMsg{descriptors: descriptors, err: err}
	}
}

// startImport starts an import task over the resolved descriptors and begins
// the frame tick loop that drives the scheduler.
func (m *Model) startImport() (tea.Model, tea.Cmd) {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.importTask = tasks.NewImportTask(m.session, m.descriptors, m.progressChan)
	m.renderTask = nil
	m.messages = nil

	if err := m.scheduler.Start(m.importTask); err != nil {
		m.err = err
		m.view = ResultView
		return m, nil
	}

	m.view = TaskView
	return m, m.frameTick()
}

// startRender starts a render task over the host's current selection.
func (m *Model) startRender() (tea.Model, tea.Cmd) {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.renderTask = tasks.NewRenderTask(m.session, m.progressChan)
	m.importTask = nil
	m.messages = nil

	if err := m.scheduler.Start(m.renderTask); err != nil {
		m.err = err
		m.view = ResultView
		return m, nil
	}

	m.view = TaskView
	return m, m.frameTick()
}

func (m *Model) frameTick() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// tick resumes the scheduler one step on the update-loop goroutine and
// drains any pending progress updates.
func (m *Model) tick() (tea.Model, tea.Cmd) {
	running := m.scheduler.Tick(m.ctx)
	m.drainProgress()

	if running {
		return m, m.frameTick()
	}

	m.err = m.scheduler.LastErr()
	m.view = ResultView
	return m, nil
}

// drainProgress moves buffered progress updates into the message log.
func (m *Model) drainProgress() {
	for {
		select {
		case update := <-m.progressChan:
			m.messages = append(m.messages, update.Message)
			if len(m.messages) > 8 {
				m.messages = m.messages[len(m.messages)-8:]
			}
		default:
			return
		}
	}
}

func (m *Model) renderSourceList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.render, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.sourceList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Import %d audio sources?", len(m.descriptors)))
	info := "\nStaged copies are placed on a new track; originals are untouched until render.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderTaskView() string {
	title := styles.title.Render(fmt.Sprintf("Running %s", m.scheduler.ActiveKind()))
	bar := progressBar(m.scheduler.ProgressFraction(), 40)
	status := m.scheduler.StatusText()

	var log string
	if len(m.messages) > 0 {
		log = "\n" + styles.help.Render(strings.Join(m.messages, "\n"))
	}

	return fmt.Sprintf("%s\n\n%s\n%s%s", title, bar, status, log)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Task failed: %v\n\nPress esc to go back, q to quit", m.err))
	}

	var summary string
	switch {
	case m.importTask != nil:
		report := m.importTask.Report()
		summary = fmt.Sprintf("\nImported: %d\nFailed: %d\nRegistry: %d records", report.Succeeded, report.Failed, m.session.Registry.Count())
	case m.renderTask != nil:
		report := m.renderTask.Report()
		summary = fmt.Sprintf("\nRendered: %d\nFailed: %d\nDirectories: %d", report.Succeeded, report.Failed, m.renderTask.Groups())
	}

	title := styles.ok.Render("✓ Done")
	helpKeys := []key.Binding{m.keys.back, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, summary, helpView)
}

// progressBar renders fraction as a fixed-width unicode bar.
func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(fraction * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %3.0f%%", styles.ok.Render(bar), fraction*100)
}
