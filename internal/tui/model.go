// Package tui is the terminal front end: a Bubble Tea model that renders one
// match-3 board, feeds player gestures to the engine and paces cascades so
// each phase is visible. It is hosted locally (`candymatch play`) or per SSH
// session (`candymatch ssh`).
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/candymatch/internal/config"
	"github.com/robalobadob/candymatch/internal/game"
	"github.com/robalobadob/candymatch/internal/leaderboard"
	"github.com/robalobadob/candymatch/internal/match3"
)

const topShown = 5

// Options configure a Model.
type Options struct {
	Game   config.Game
	Mode   game.Mode
	Player string
	Board  leaderboard.Board // may be nil: scores are then not posted
	Seed   int64             // classic seed; 0 picks one from the clock
	Now    func() time.Time
}

// stepMsg asks the model to run the next cascade phase.
type stepMsg struct{}

// clockMsg drives the countdown. gen ties a tick to the deal that started it.
type clockMsg struct {
	t   time.Time
	gen int
}

// submittedMsg reports the end-of-game leaderboard round trip.
type submittedMsg struct {
	top []leaderboard.Ranked
	err error
}

// effects is written by the engine hook and read by View. Models are copied
// by value, so it lives behind a pointer.
type effects struct {
	flash map[int]struct{}
}

// Model is a single-player board session.
type Model struct {
	opts      Options
	engine    *match3.Engine
	fx        *effects
	boardName string

	gen      int
	cursor   match3.Pos
	selected *match3.Pos
	hint     []match3.Pos

	deadline  time.Time
	now       time.Time
	over      bool
	submitted bool
	top       []leaderboard.Ranked
	submitErr error
	status    string

	keys     KeyMap
	help     help.Model
	quitting bool
}

// NewModel creates a model and deals the first board.
func NewModel(opts Options) (Model, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mode == "" {
		opts.Mode = game.ModeClassic
	}
	if opts.Player == "" {
		opts.Player = leaderboard.DefaultName
	}
	if opts.Game.Duration <= 0 {
		opts.Game.Duration = game.DefaultDuration
	}
	m := Model{
		opts: opts,
		fx:   &effects{},
		keys: DefaultKeyMap(),
		help: help.New(),
	}
	if err := m.deal(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// deal starts a fresh game: new engine, new deadline, cleared state.
func (m *Model) deal() error {
	now := m.opts.Now()
	seed, boardName, err := game.SeedFor(m.opts.Mode, now, m.opts.Game.DailySalt, m.opts.Seed)
	if err != nil {
		return err
	}
	m.boardName = boardName

	e, err := match3.NewEngine(m.opts.Game.Board(), match3.WithSeed(seed))
	if err != nil {
		return err
	}
	fx := m.fx
	e.OnCascadeStep(func(ev match3.StepEvent) {
		if ev.Phase != match3.PhaseClear {
			return
		}
		fx.flash = make(map[int]struct{}, len(ev.Indices))
		for _, i := range ev.Indices {
			fx.flash[i] = struct{}{}
		}
	})

	m.engine = e
	m.gen++
	m.fx.flash = nil
	m.cursor = match3.Pos{}
	m.selected = nil
	m.hint = nil
	m.now = now
	m.deadline = now.Add(m.opts.Game.Duration)
	m.over = false
	m.submitted = false
	m.top = nil
	m.submitErr = nil
	m.status = ""
	return nil
}

// Init starts the countdown.
func (m Model) Init() tea.Cmd {
	return m.clockCmd()
}

func (m Model) clockCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg{t: t, gen: gen} })
}

func (m Model) stepCmd() tea.Cmd {
	if m.opts.Game.StepDelay <= 0 {
		return func() tea.Msg { return stepMsg{} }
	}
	return tea.Tick(m.opts.Game.StepDelay, func(time.Time) tea.Msg { return stepMsg{} })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case stepMsg:
		return m.handleStep()
	case clockMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.handleClock(msg.t)
	case submittedMsg:
		m.top, m.submitErr = msg.top, msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Gestures are ignored while the board settles.
	if m.engine.IsSettling() {
		return m, nil
	}

	if key.Matches(msg, m.keys.New) {
		if err := m.deal(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.clockCmd()
	}
	if m.over {
		return m, nil
	}

	w := m.engine.Width()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor.Row = min(m.cursor.Row+1, w-1)
	case key.Matches(msg, m.keys.Left):
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursor.Col = min(m.cursor.Col+1, w-1)
	case key.Matches(msg, m.keys.Hint):
		if a, b, ok := m.engine.Hint(); ok {
			m.hint = []match3.Pos{a, b}
			m.status = ""
		} else {
			m.status = "no moves left, press n for a new board"
		}
	case key.Matches(msg, m.keys.Select):
		return m.handleSelect()
	}
	return m, nil
}

func (m Model) handleSelect() (tea.Model, tea.Cmd) {
	switch {
	case m.selected == nil:
		p := m.cursor
		m.selected = &p
		return m, nil
	case *m.selected == m.cursor:
		m.selected = nil
		return m, nil
	case !m.selected.Adjacent(m.cursor):
		p := m.cursor
		m.selected = &p
		return m, nil
	}

	a := *m.selected
	m.selected = nil
	if !m.engine.AttemptSwap(a, m.cursor) {
		m.status = "no match"
		return m, nil
	}
	m.status = ""
	m.hint = nil
	return m, m.stepCmd()
}

func (m Model) handleStep() (tea.Model, tea.Cmd) {
	if !m.engine.IsSettling() {
		return m, nil
	}
	m.engine.Step()
	if m.engine.IsSettling() {
		return m, m.stepCmd()
	}
	m.fx.flash = nil
	if chain := m.engine.Chain(); chain > 1 {
		m.status = fmt.Sprintf("chain x%d!", chain)
	}
	if m.over {
		return m.finish()
	}
	return m, nil
}

func (m Model) handleClock(t time.Time) (tea.Model, tea.Cmd) {
	if m.over {
		return m, nil
	}
	m.now = t
	if t.Before(m.deadline) {
		return m, m.clockCmd()
	}
	m.over = true
	m.selected = nil
	m.hint = nil
	if m.engine.IsSettling() {
		// the running cascade still scores; finish once it settles
		return m, nil
	}
	return m.finish()
}

// finish posts the score once and fetches the top of the board.
func (m Model) finish() (tea.Model, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	m.submitted = true
	if m.opts.Board == nil {
		return m, nil
	}
	board, boardName := m.opts.Board, m.boardName
	entry := leaderboard.Entry{Name: m.opts.Player, Score: m.engine.Score(), TS: m.opts.Now().UnixMilli()}
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := board.Submit(ctx, boardName, entry); err != nil {
			log.Warn().Err(err).Str("player", entry.Name).Msg("submit score")
			return submittedMsg{err: err}
		}
		top, err := board.Top(ctx, boardName, topShown)
		return submittedMsg{top: top, err: err}
	}
}

// View renders the board.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	remaining := m.deadline.Sub(m.now)
	if remaining < 0 || m.over {
		remaining = 0
	}
	header := fmt.Sprintf("%s  score %s  time %d:%02d  %s",
		titleStyle.Render("candymatch"),
		scoreStyle.Render(fmt.Sprint(m.engine.Score())),
		int(remaining.Minutes()), int(remaining.Seconds())%60,
		statusStyle.Render(m.boardName),
	)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(boardStyle.Render(m.renderGrid()))
	b.WriteString("\n")
	if m.over {
		b.WriteString(m.renderOver())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderGrid() string {
	g := m.engine.Grid()
	w := g.Width()
	rows := make([]string, w)
	for r := 0; r < w; r++ {
		cells := make([]string, w)
		for c := 0; c < w; c++ {
			p := match3.Pos{Row: r, Col: c}
			cells[c] = m.renderCell(g, p)
		}
		rows[r] = strings.Join(cells, " ")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(g *match3.Grid, p match3.Pos) string {
	s := g.At(p)
	glyph, style := candyGlyph, candyStyle(s)
	if s == match3.Empty {
		glyph = emptyGlyph
	}
	if _, ok := m.fx.flash[g.Index(p)]; ok {
		glyph, style = flashGlyph, flashStyle
	}
	for _, h := range m.hint {
		if h == p {
			style = style.Inherit(hintStyle)
		}
	}
	if m.selected != nil && *m.selected == p {
		style = style.Inherit(selectedStyle)
	}
	if p == m.cursor && !m.over {
		style = style.Inherit(cursorStyle)
	}
	return style.Render(glyph)
}

func (m Model) renderOver() string {
	var b strings.Builder
	fmt.Fprintf(&b, "time's up, %s scored %d\n", m.opts.Player, m.engine.Score())
	switch {
	case m.opts.Board == nil:
		b.WriteString("(no leaderboard configured)")
	case m.submitErr != nil:
		b.WriteString("could not reach the leaderboard, score not posted")
	case m.top == nil:
		b.WriteString("posting score…")
	default:
		for _, r := range m.top {
			fmt.Fprintf(&b, "%2d. %-16s %6d\n", r.Rank, r.Name, r.Score)
		}
	}
	b.WriteString("\npress n to play again")
	return overStyle.Render(b.String())
}

// Score returns the current score.
func (m Model) Score() int { return m.engine.Score() }

// Over reports whether the countdown has ended.
func (m Model) Over() bool { return m.over }
