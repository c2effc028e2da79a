package watch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/fastlog/pkg/app"
	"tableflip.dev/fastlog/pkg/entry"
	"tableflip.dev/fastlog/pkg/fasting"
	"tableflip.dev/fastlog/pkg/kv"
	"tableflip.dev/fastlog/pkg/printers"
	"tableflip.dev/fastlog/pkg/stats"
	"tableflip.dev/fastlog/pkg/store"
	"tableflip.dev/fastlog/pkg/timeutil"
)

type prompt int

const (
	promptNone prompt = iota
	promptFood
	promptWater
)

var weekdays = [stats.DaysPerWeek]string{"S", "M", "T", "W", "T", "F", "S"}

// messages
type progressMsg struct{ p fasting.Progress }
type tickStoppedMsg struct{}
type goalMsg struct{ session entry.FastingSession }
type celebrationOverMsg struct{}

type watchStartedMsg struct {
	ch     <-chan kv.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct{ event kv.Event }
type watchStoppedMsg struct{}

// Model is the live dashboard.
type Model struct {
	svc      *app.Service
	ctx      context.Context
	interval time.Duration

	progress fasting.Progress
	dash     stats.Dashboard
	status   string
	goal     *entry.FastingSession

	input  textinput.Model
	prompt prompt

	ticking     bool
	tickCh      <-chan fasting.Progress
	watchCh     <-chan kv.Event
	watchCancel context.CancelFunc
}

// New builds a dashboard over svc. The tick loop and store watch stop when
// ctx is done.
func New(ctx context.Context, svc *app.Service, interval time.Duration) Model {
	if interval <= 0 {
		interval = fasting.DefaultTickInterval
	}
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = "> "
	m := Model{svc: svc, ctx: ctx, interval: interval, input: ti}
	m.recompute()
	return m
}

// Init starts the tick loop, the store watch and the goal listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startTick(), startWatchCmd(m.ctx, m.svc), m.waitForGoal())
}

func (m *Model) recompute() {
	m.progress = m.svc.Status()
	m.dash = m.svc.Dashboard()
}

func (m *Model) startTick() tea.Cmd {
	if m.ctx.Err() != nil || m.svc.Tracker.State() != fasting.Active {
		return nil
	}
	m.ticking = true
	m.tickCh = m.svc.Tracker.Tick(m.ctx, m.interval)
	return m.waitForTick()
}

func (m *Model) waitForTick() tea.Cmd {
	if m.tickCh == nil {
		return nil
	}
	ch := m.tickCh
	return func() tea.Msg {
		if p, ok := <-ch; ok {
			return progressMsg{p}
		}
		return tickStoppedMsg{}
	}
}

func (m *Model) waitForGoal() tea.Cmd {
	goals := m.svc.Tracker.Goals()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case s := <-goals:
			return goalMsg{s}
		case <-ctx.Done():
			return nil
		}
	}
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) openPrompt(p prompt) tea.Cmd {
	m.prompt = p
	m.input.Reset()
	switch p {
	case promptFood:
		m.input.Placeholder = "What did you eat?"
	case promptWater:
		m.input.Placeholder = "Ounces"
	}
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

// submitPrompt logs the prompt's value. The prompt stays open on bad input.
func (m *Model) submitPrompt() {
	value := strings.TrimSpace(m.input.Value())
	switch m.prompt {
	case promptFood:
		f, err := m.svc.AddFood(m.ctx, store.FoodInput{Name: value})
		if err != nil {
			m.status = "ERR: " + err.Error()
			return
		}
		m.status = "Logged " + f.Name
	case promptWater:
		oz, err := strconv.ParseFloat(value, 64)
		if err != nil || oz <= 0 {
			m.status = fmt.Sprintf("ERR: invalid amount %q", value)
			return
		}
		w, err := m.svc.AddWater(m.ctx, oz)
		if err != nil {
			m.status = "ERR: " + err.Error()
			return
		}
		m.status = "Logged " + printers.FormatOunces(w.Amount)
	}
	m.closePrompt()
	m.recompute()
}

func (m Model) updatePrompt(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submitPrompt()
		return m, nil
	case "esc":
		m.closePrompt()
		return m, nil
	case "ctrl+c":
		m.stopWatch()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case progressMsg:
		m.progress = msg.p
		m.dash = m.svc.Dashboard()
		cmds = append(cmds, m.waitForTick())
	case tickStoppedMsg:
		m.ticking = false
		m.tickCh = nil
		m.recompute()
		// A fast adopted from another process needs a fresh loop.
		cmds = append(cmds, m.startTick())
	case goalMsg:
		s := msg.session
		m.goal = &s
		m.status = fmt.Sprintf("Goal reached: %s fast of %s", entry.ProtocolLabel(s.Protocol),
			timeutil.FormatClock(time.Duration(s.Duration)*time.Millisecond))
		cmds = append(cmds, m.waitForGoal(), tea.Tick(fasting.CelebrationDuration, func(time.Time) tea.Msg {
			return celebrationOverMsg{}
		}))
	case celebrationOverMsg:
		m.goal = nil
	case watchStartedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, app.ErrWatchUnsupported) {
				m.status = "ERR: watch " + msg.err.Error()
			}
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchEventMsg:
		m.svc.Refresh(m.ctx)
		m.recompute()
		if !m.ticking {
			cmds = append(cmds, m.startTick())
		}
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchStoppedMsg:
		m.stopWatch()
	case tea.KeyPressMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.stopWatch()
			return m, tea.Quit
		case "s":
			if _, err := m.svc.StartFast(m.ctx, ""); err != nil {
				m.status = "ERR: " + err.Error()
				break
			}
			m.status = "Fast started"
			m.recompute()
			if !m.ticking {
				cmds = append(cmds, m.startTick())
			}
		case "e":
			session, ok, err := m.svc.EndFast(m.ctx)
			switch {
			case err != nil:
				m.status = "ERR: " + err.Error()
			case !ok:
				m.status = "No fast in progress"
			default:
				m.status = "Fast ended after " + timeutil.FormatClock(time.Duration(session.Duration)*time.Millisecond)
			}
			m.recompute()
		case "w":
			w, err := m.svc.AddWater(m.ctx, 0)
			if err != nil {
				m.status = "ERR: " + err.Error()
				break
			}
			m.status = "Logged " + printers.FormatOunces(w.Amount)
			m.recompute()
		case "W":
			cmds = append(cmds, m.openPrompt(promptWater))
		case "f":
			cmds = append(cmds, m.openPrompt(promptFood))
		case "r":
			m.svc.Refresh(m.ctx)
			m.recompute()
			m.status = "Reloaded"
			if !m.ticking {
				cmds = append(cmds, m.startTick())
			}
		}
	}

	return m, tea.Batch(cmds...)
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	goalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	todayStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const barWidth = 24

// View renders the fast, today's totals and the week.
func (m Model) View() string {
	var fast strings.Builder
	fast.WriteString(titleStyle.Render("Fast") + "\n")
	if !m.progress.Active {
		fast.WriteString(labelStyle.Render("not fasting"))
	} else {
		style := barStyle
		if m.progress.GoalReached {
			style = goalStyle
		}
		fmt.Fprintf(&fast, "%s  %s\n", entry.ProtocolLabel(m.progress.Protocol), timeutil.FormatClock(m.progress.Elapsed))
		fmt.Fprintf(&fast, "%s %3.0f%%\n", style.Render(printers.Bar(m.progress.Percent, barWidth)), m.progress.Percent)
		if m.progress.GoalReached {
			fast.WriteString(goalStyle.Render("goal reached"))
		} else {
			fast.WriteString(labelStyle.Render("remaining " + timeutil.FormatClock(m.progress.Remaining)))
		}
	}
	if m.goal != nil {
		fast.WriteString("\n" + goalStyle.Render("🎉 goal reached!"))
	}

	var today strings.Builder
	today.WriteString(titleStyle.Render("Today") + "\n")
	fmt.Fprintf(&today, "%s %d\n", labelStyle.Render("calories"), m.dash.TodayCalories)
	fmt.Fprintf(&today, "%s %s / %s\n", labelStyle.Render("water"),
		printers.FormatOunces(m.dash.TodayWaterOz), printers.FormatOunces(m.dash.WaterGoal))
	water := barStyle
	if m.dash.WaterGoalMetToday {
		water = goalStyle
	}
	today.WriteString(water.Render(printers.Bar(m.dash.HydrationPercent, barWidth/2)))

	var week strings.Builder
	week.WriteString(titleStyle.Render("Week") + "\n")
	for i := range stats.DaysPerWeek {
		day := weekdays[i]
		if i == m.dash.FastingWeek.TodayIndex {
			day = todayStyle.Render(day)
		}
		value := "  ·"
		if !m.dash.FastingWeek.Empty(i) {
			value = fmt.Sprintf("%3.0f", m.dash.FastingWeek.Values[i])
		}
		fmt.Fprintf(&week, "%s%s ", day, value)
	}
	week.WriteString("\n" + labelStyle.Render(fmt.Sprintf("best %.1fh  avg %.1fh", m.dash.FastingWeek.Best(), m.dash.FastingWeek.Average())))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(fast.String()),
		panelStyle.Render(today.String()),
	)
	body = lipgloss.JoinVertical(lipgloss.Left, body, panelStyle.Render(week.String()))

	if m.prompt != promptNone {
		label := "Log food"
		if m.prompt == promptWater {
			label = "Log water (oz)"
		}
		body = lipgloss.JoinVertical(lipgloss.Left, body,
			panelStyle.Render(titleStyle.Render(label)+"\n"+m.input.View()))
		help := "enter save · esc cancel"
		return body + "\n" + statusStyle.Render(m.status) + "\n" + labelStyle.Render(help)
	}

	help := "s start · e end · w water · W amount · f food · r reload · q quit"
	return body + "\n" + statusStyle.Render(m.status) + "\n" + labelStyle.Render(help)
}
