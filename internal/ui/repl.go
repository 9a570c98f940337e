// Package ui holds the interactive terminal front-ends: a query REPL with
// live validation and an optional scoring pass per submitted query.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"iql/internal/eval"
	"iql/internal/template"
	"iql/internal/validate"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

const maxHistory = 20

type historyEntry struct {
	query string
	lines []string
}

// ReplModel is a Bubble Tea model for the interactive query prompt. Every
// keystroke runs the fast string-level check; Enter runs the full parse
// and, when an evaluator and corpus are configured, a scoring pass.
type ReplModel struct {
	input     textinput.Model
	spinner   spinner.Model
	registry  *template.Registry
	evaluator *eval.Evaluator
	corpus    string

	history []historyEntry
	live    string
	scoring bool
	width   int
}

type evalDoneMsg struct {
	query string
	match eval.MatchResult
	err   error
}

// NewReplModel builds the REPL. evaluator and corpus may be empty; the
// prompt then only validates.
func NewReplModel(registry *template.Registry, evaluator *eval.Evaluator, corpus string) *ReplModel {
	in := textinput.New()
	in.Placeholder = `{IS confidentiality clause} AND NOT {IS termination clause}`
	in.Prompt = "iql> "
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &ReplModel{
		input:     in,
		spinner:   sp,
		registry:  registry,
		evaluator: evaluator,
		corpus:    corpus,
		width:     80,
	}
}

func (m *ReplModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ReplModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.scoring {
				return m, nil
			}
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			return m.submit(query)
		}
	case evalDoneMsg:
		m.scoring = false
		m.push(msg.query, m.renderEval(msg))
		return m, nil
	case spinner.TickMsg:
		if !m.scoring {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshLive()
	return m, cmd
}

// refreshLive reruns the fast check against the current input.
func (m *ReplModel) refreshLive() {
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		m.live = ""
		return
	}
	res := validate.Fast(q)
	if res.Valid {
		m.live = okStyle.Render("ok")
		return
	}
	m.live = errStyle.Render(res.Error.Message)
}

func (m *ReplModel) submit(query string) (tea.Model, tea.Cmd) {
	res := validate.Full(query, m.registry)
	if !res.Valid {
		lines := []string{errStyle.Render("error: " + res.Error.Message)}
		if len(res.Suggestions) > 0 {
			lines = append(lines, dimStyle.Render("did you mean: "+strings.Join(res.Suggestions, ", ")+"?"))
		}
		m.push(query, lines)
		m.input.Reset()
		m.live = ""
		return m, nil
	}

	var lines []string
	for _, w := range res.Warnings {
		lines = append(lines, warnStyle.Render("warning: "+w))
	}

	if m.evaluator == nil || m.corpus == "" {
		lines = append(lines, okStyle.Render("valid"))
		m.push(query, lines)
		m.input.Reset()
		m.live = ""
		return m, nil
	}

	m.scoring = true
	m.input.Reset()
	m.live = ""
	if len(lines) > 0 {
		m.push(query, lines)
	}
	return m, tea.Batch(m.spinner.Tick, m.score(query))
}

func (m *ReplModel) score(query string) tea.Cmd {
	return func() tea.Msg {
		q, res := validate.ParseQuery(query, m.registry)
		if q == nil {
			return evalDoneMsg{query: query, err: fmt.Errorf("%s", res.Error.Message)}
		}
		match, err := m.evaluator.Evaluate(context.Background(), q, m.corpus)
		return evalDoneMsg{query: query, match: match, err: err}
	}
}

func (m *ReplModel) renderEval(msg evalDoneMsg) []string {
	if msg.err != nil {
		return []string{errStyle.Render("error: " + msg.err.Error())}
	}
	lines := []string{
		scoreStyle.Render(fmt.Sprintf("score %.3f", msg.match.Score)) +
			dimStyle.Render(fmt.Sprintf("  (%d spans)", len(msg.match.Spans))),
	}
	for _, w := range msg.match.Warnings {
		lines = append(lines, warnStyle.Render("warning: "+w))
	}
	return lines
}

func (m *ReplModel) push(query string, lines []string) {
	m.history = append(m.history, historyEntry{query: query, lines: lines})
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *ReplModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("iql repl"))
	b.WriteString(dimStyle.Render("  (esc to quit)"))
	b.WriteString("\n\n")

	for _, h := range m.history {
		b.WriteString(dimStyle.Render("iql> "))
		b.WriteString(truncate(h.query, m.width-6))
		b.WriteString("\n")
		for _, line := range h.lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.scoring {
		b.WriteString(m.spinner.View())
		b.WriteString(dimStyle.Render(" scoring..."))
	} else if m.live != "" {
		b.WriteString("  ")
		b.WriteString(m.live)
	}
	b.WriteString("\n")
	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
