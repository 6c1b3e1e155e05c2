package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

const (
	sidebarWidth = 34
	staticMax    = 100
)

// Sidebar rows, top to bottom. The species checkboxes follow fieldSpecies.
const (
	fieldAttribute = iota
	fieldInteractiveBins
	fieldStaticBins
	fieldSpecies
)

var fieldCount = fieldSpecies + len(penguin.AllSpecies)

type focus int

const (
	focusSidebar focus = iota
	focusPane
)

type invalidatedMsg []string

type closedMsg struct{}

// Model is the bubbletea model of the dashboard.
type Model struct {
	sess   *session.Session
	events <-chan []string
	cancel func()

	theme  Theme
	styles styles
	help   help.Model
	bins   textinput.Model
	grid   table.Model

	cursor  int
	focus   focus
	editing bool
	pane    int
	panes   []render.OutputSpec
	output  map[string]string
	err     error

	width  int
	height int
}

type Option func(*Model)

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// New builds the dashboard over sess and subscribes to its invalidations.
// Close releases the subscription.
func New(sess *session.Session, opts ...Option) Model {
	m := Model{
		sess:   sess,
		theme:  ThemeCyberpunk,
		help:   help.New(),
		panes:  render.Outputs(),
		output: make(map[string]string),
		width:  120,
		height: 36,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.styles = newStyles(m.theme)
	m.events, m.cancel = sess.Subscribe()

	m.bins = textinput.New()
	m.bins.Placeholder = "auto"
	m.bins.CharLimit = 8
	m.bins.Width = 8
	m.bins.SetValue(strconv.Itoa(sess.Inputs().InteractiveBins))

	cols := make([]table.Column, len(penguin.Header))
	for i, h := range penguin.Header {
		w := 9
		if i == 0 || i == 1 {
			w = 10
		}
		cols[i] = table.Column{Title: h, Width: w}
	}
	m.grid = table.New(
		table.WithColumns(cols),
		table.WithHeight(10),
	)
	m.grid.SetStyles(m.styles.table(m.theme))

	m.refresh(render.OutputNames()...)
	return m
}

// Close cancels the session subscription.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		outputs, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return invalidatedMsg(outputs)
	}
}

func (m Model) paneSize() render.Size {
	return render.Size{
		Width:  max(m.width-sidebarWidth-8, 30),
		Height: max(m.height-10, 8),
	}
}

// refresh re-renders the named outputs from the session.
func (m *Model) refresh(names ...string) {
	size := m.paneSize()
	for _, name := range names {
		a, err := m.sess.Output(name)
		if err != nil {
			m.err = err
			continue
		}
		if name == render.OutputDataGrid {
			t := a.(*render.Table)
			rows := make([]table.Row, len(t.Rows))
			for i, r := range t.Rows {
				rows[i] = table.Row(r)
			}
			m.grid.SetRows(rows)
			if m.grid.Cursor() >= len(rows) {
				m.grid.SetCursor(max(len(rows)-1, 0))
			}
			m.output[name] = ""
			continue
		}
		m.output[name] = render.Terminal(a, size)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.grid.SetHeight(max(m.height-12, 5))
		m.refresh(render.OutputNames()...)
		return m, nil

	case invalidatedMsg:
		m.refresh(msg...)
		return m, m.wait()

	case closedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Focus):
		if m.focus == focusSidebar {
			m.focus = focusPane
			m.grid.Focus()
		} else {
			m.focus = focusSidebar
			m.grid.Blur()
		}
		return m, nil
	case key.Matches(msg, keys.NextPane):
		m.pane = (m.pane + 1) % len(m.panes)
		return m, nil
	case key.Matches(msg, keys.PrevPane):
		m.pane = (m.pane + len(m.panes) - 1) % len(m.panes)
		return m, nil
	}

	if m.focus == focusPane {
		if m.panes[m.pane].Name == render.OutputDataGrid {
			var cmd tea.Cmd
			m.grid, cmd = m.grid.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m.sidebarKey(msg)
}

func (m Model) sidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	in := m.sess.Inputs()
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = (m.cursor + fieldCount - 1) % fieldCount
	case key.Matches(msg, keys.Down):
		m.cursor = (m.cursor + 1) % fieldCount
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		step := 1
		if key.Matches(msg, keys.Left) {
			step = -1
		}
		switch m.cursor {
		case fieldAttribute:
			m.write(session.InputAttribute, string(cycleColumn(in.Attribute, step)))
		case fieldInteractiveBins:
			n := max(in.InteractiveBins+step, 0)
			m.bins.SetValue(strconv.Itoa(n))
			m.write(session.InputInteractiveBins, strconv.Itoa(n))
		case fieldStaticBins:
			n := min(max(in.StaticBins+step, 0), staticMax)
			m.write(session.InputStaticBins, strconv.Itoa(n))
		default:
			m.toggleSpecies(in)
		}
	case key.Matches(msg, keys.Toggle):
		switch {
		case m.cursor == fieldInteractiveBins:
			m.editing = true
			m.bins.SetValue("")
			return m, m.bins.Focus()
		case m.cursor >= fieldSpecies:
			m.toggleSpecies(in)
		}
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.bins.Blur()
		m.write(session.InputInteractiveBins, m.bins.Value())
		m.bins.SetValue(strconv.Itoa(m.sess.Inputs().InteractiveBins))
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.bins.Blur()
		m.bins.SetValue(strconv.Itoa(m.sess.Inputs().InteractiveBins))
		return m, nil
	}
	var cmd tea.Cmd
	m.bins, cmd = m.bins.Update(msg)
	return m, cmd
}

func (m *Model) toggleSpecies(in session.Inputs) {
	sp := penguin.AllSpecies[m.cursor-fieldSpecies]
	m.write(session.InputSpecies, in.Species.Toggle(sp).Key())
}

// write sends one input to the session. Outputs refresh when the
// invalidation arrives.
func (m *Model) write(name, value string) {
	if _, err := m.sess.Set(name, value); err != nil {
		m.err = err
		return
	}
	m.err = nil
}

func cycleColumn(c penguin.Column, step int) penguin.Column {
	cols := penguin.NumericColumns
	for i, col := range cols {
		if col == c {
			return cols[(i+step+len(cols))%len(cols)]
		}
	}
	return cols[0]
}

// Run starts the dashboard on the terminal and blocks until it exits.
func Run(sess *session.Session, opts ...Option) error {
	m := New(sess, opts...)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
