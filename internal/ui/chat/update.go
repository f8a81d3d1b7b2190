// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/quizbot-tui/internal/api"
)

// Init starts the spinner and the initial session list refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		refreshCmd(m.deps.Sessions),
		textinput.Blink,
	)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.pending {
			// Re-sync while a turn is in flight so the optimistic user
			// entry shows up before the reply arrives.
			m.syncViewport()
			m.viewport.GotoBottom()
		}
		return m, cmd

	case submitDoneMsg:
		m.pending = false
		m.syncViewport()
		m.viewport.GotoBottom()
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			m.banner = "Couldn't load your conversations: " + api.UserReason(msg.err)
		}
		m.clampSelection()
		return m, nil

	case loadDoneMsg:
		if msg.err != nil {
			m.banner = "Couldn't open that conversation: " + api.UserReason(msg.err)
			return m, nil
		}
		m.focus = focusInput
		m.input.Focus()
		m.syncViewport()
		m.viewport.GotoBottom()
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.banner = "Couldn't delete that conversation: " + api.UserReason(msg.err)
			return m, nil
		}
		// Deleting the open conversation resets the transcript to a
		// fresh, unpersisted one.
		m.deps.Engine.DropIfActive(msg.chatID)
		m.clampSelection()
		m.syncViewport()
		return m, nil

	case signOutDoneMsg:
		if msg.err != nil {
			m.banner = "Sign-out failed: " + msg.err.Error()
			return m, nil
		}
		m.focus = focusInput
		m.input.Focus()
		m.selected = 0
		m.syncViewport()
		return m, nil

	default:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	contentWidth := m.transcriptWidth()
	contentHeight := m.height - chromeHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
	}
	m.input.Width = m.width - 6
	m.syncViewport()
	m.viewport.GotoBottom()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Delete confirmation intercepts everything until resolved.
	if m.confirmDelete != "" {
		switch msg.String() {
		case "y", "Y":
			id := m.confirmDelete
			m.confirmDelete = ""
			return m, deleteCmd(m.deps.Sessions, id)
		case "n", "N", "esc":
			m.confirmDelete = ""
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.signedIn() {
			if m.focus == focusInput {
				m.focus = focusSidebar
				m.input.Blur()
			} else {
				m.focus = focusInput
				m.input.Focus()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		if err := m.deps.Engine.Reset(); err == nil {
			m.banner = ""
			m.focus = focusInput
			m.input.Focus()
			m.syncViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.signedIn() {
			return m, refreshCmd(m.deps.Sessions)
		}
		return m, nil

	case key.Matches(msg, m.keys.SignOut):
		if m.signedIn() && !m.pending {
			return m, signOutCmd(m.deps.SignOut)
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.deps.Sessions.Len()-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		// Switching is disabled while a reply is in flight.
		if m.pending {
			return m, nil
		}
		if summary, ok := m.selectedSummary(); ok {
			m.banner = ""
			return m, loadCmd(m.deps.Engine, summary.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.pending {
			return m, nil
		}
		if summary, ok := m.selectedSummary(); ok {
			m.confirmDelete = summary.ID
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.pending {
			return m, nil
		}

		if strings.HasPrefix(text, "/attach") {
			return m.handleAttach(strings.TrimSpace(strings.TrimPrefix(text, "/attach"))), nil
		}

		m.pending = true
		m.banner = ""
		m.input.Reset()

		cmd := submitCmd(m.deps.Engine, text)
		if m.attachment != "" {
			cmd = submitWithFileCmd(m.deps.Engine, text, m.attachment)
			m.attachment = ""
		}

		// The optimistic user entry appears inside Submit; render as
		// soon as the command starts by re-syncing on the next tick.
		return m, tea.Batch(cmd, m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleAttach stages a file for the next submitted message.
func (m Model) handleAttach(path string) Model {
	m.input.Reset()
	if path == "" {
		m.banner = "Usage: /attach <path>"
		return m
	}
	if _, err := os.Stat(path); err != nil {
		m.banner = "Cannot read " + path
		return m
	}
	m.attachment = path
	m.banner = ""
	return m
}
