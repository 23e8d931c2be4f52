// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/hackerinthewoods/sitectl/internal/log"
)

// ErrDeclined is returned when the operator answers no.
var ErrDeclined = errors.New("declined")

var (
	promptStyle = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

type confirmModel struct {
	prompt   string
	answered bool
	yes      bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch strings.ToLower(key.String()) {
		case "y":
			m.answered, m.yes = true, true
			return m, tea.Quit
		case "n", "enter", "esc", "q", "ctrl+c":
			m.answered, m.yes = true, false
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		answer := "no"
		if m.yes {
			answer = "yes"
		}
		return promptStyle.Render(m.prompt) + " " + answer + "\n"
	}
	return promptStyle.Render(m.prompt) + " [y/N] "
}

// Confirm asks a yes/no question. Anything other than y is a no.
func Confirm(ctx context.Context, prompt string, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(confirmModel{prompt: prompt},
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out))
	m, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return m.(confirmModel).yes, nil
}

type statusMsg string

type doneMsg struct{ err error }

type spinnerModel struct {
	spinner spinner.Model
	title   string
	status  string
	done    bool
	err     error
}

func newSpinnerModel(title string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd { return m.spinner.Tick }

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case doneMsg:
		m.done, m.err = true, msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	switch {
	case m.done && m.err != nil:
		return failStyle.Render("✗ "+m.title) + "\n"
	case m.done:
		return doneStyle.Render("✓ "+m.title) + "\n"
	}
	line := m.spinner.View() + " " + m.title
	if m.status != "" {
		line += " " + statusStyle.Render(m.status)
	}
	return line + "\n"
}

// Spin runs fn while showing a spinner titled title on out. fn reports
// progress through status. Without a terminal the spinner is skipped and
// status lines are logged instead.
func Spin(ctx context.Context, title string, out io.Writer, fn func(status func(string)) error) error {
	if !Interactive() {
		return fn(func(s string) { log.Infof("%s: %s", title, s) })
	}

	p := tea.NewProgram(newSpinnerModel(title),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil))

	go func() {
		err := fn(func(s string) { p.Send(statusMsg(s)) })
		p.Send(doneMsg{err: err})
	}()

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("spinner failed: %w", err)
	}
	return m.(spinnerModel).err
}
