// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/quizbot-tui/internal/model"
	"github.com/jeranaias/quizbot-tui/internal/session"
	"github.com/jeranaias/quizbot-tui/internal/util"
)

// chromeHeight is the vertical space taken by the header, input line,
// and status bar around the transcript viewport.
const chromeHeight = 5

// View renders the full interface.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	transcript := m.viewport.View()
	if m.signedIn() {
		sidebar := m.renderSidebar(m.viewport.Height)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebar, transcript))
	} else {
		b.WriteString(transcript)
	}
	b.WriteString("\n")

	if m.confirmDelete != "" {
		b.WriteString(m.theme.ConfirmBox.Render("Delete this conversation? It cannot be undone.  [y/n]"))
	} else if m.banner != "" {
		b.WriteString(m.theme.Banner.Render(m.banner))
	} else {
		b.WriteString(m.renderInputLine())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Quizbot")

	var mode string
	if id, ok := m.deps.Identity(); ok {
		name := id.User.Name
		if name == "" {
			name = id.User.Email
		}
		mode = m.theme.HeaderMode.Render(name)
	} else {
		mode = m.theme.HeaderMode.Render("guest - conversations are not saved")
	}

	conv := ""
	if t := m.deps.Engine.Title(); t != "" && t != "New Conversation" {
		conv = m.theme.Timestamp.Render("  " + util.TruncateRunes(t, 40))
	}

	line := title + "  " + mode + conv
	return m.theme.Header.Width(m.width).Render(line)
}

func (m Model) renderInputLine() string {
	if m.pending {
		return m.theme.InputContainer.Width(m.width).Render(
			m.spinner.View() + m.theme.WelcomeText.Render(" thinking..."))
	}
	line := m.input.View()
	if m.attachment != "" {
		line = m.theme.Timestamp.Render("["+filepath.Base(m.attachment)+"] ") + line
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}

func (m Model) renderStatusBar() string {
	sep := m.theme.ShortcutDesc.Render(" · ")
	parts := []string{
		m.shortcut("enter", "send"),
		m.shortcut("C-n", "new"),
	}
	if m.signedIn() {
		parts = append(parts,
			m.shortcut("tab", "sessions"),
			m.shortcut("C-r", "refresh"),
			m.shortcut("C-o", "sign out"),
		)
	}
	parts = append(parts, m.shortcut("C-c", "quit"))
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) shortcut(keyLabel, desc string) string {
	return m.theme.ShortcutKey.Render(keyLabel) + m.theme.ShortcutDesc.Render(" "+desc)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) renderSidebar(height int) string {
	width := m.deps.SidebarWidth
	var lines []string
	lines = append(lines, m.theme.SidebarTitle.Render("Conversations"))

	summaries := m.deps.Sessions.Summaries()
	if len(summaries) == 0 {
		lines = append(lines, m.theme.SidebarEmpty.Render("Nothing saved yet"))
	}

	activeID := m.deps.Engine.ActiveID()
	for i, s := range summaries {
		if len(lines) >= height {
			break
		}
		title := util.TruncateWidth(s.DisplayTitle(), width-4)
		marker := "  "
		if s.ID == activeID {
			marker = "• "
		}

		style := m.theme.SidebarItem
		if m.focus == focusSidebar && i == m.selected {
			style = m.theme.SidebarSelected
		}
		lines = append(lines, style.Render(marker+title))
		if len(lines) < height {
			lines = append(lines, m.theme.SidebarAge.Render("    "+session.RelativeAge(s.Touched())))
		}
	}

	body := strings.Join(lines, "\n")
	return m.theme.Sidebar.Width(width).Height(height).Render(body)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// transcriptWidth is the viewport width after the sidebar is accounted
// for.
func (m Model) transcriptWidth() int {
	width := m.width
	if m.signedIn() {
		width -= m.deps.SidebarWidth + 2
	}
	if width < 20 {
		width = 20
	}
	return width
}

// syncViewport re-renders the transcript into the viewport.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.Width = m.transcriptWidth()
	m.viewport.SetContent(m.renderTranscript())
}

func (m *Model) renderTranscript() string {
	msgs := m.deps.Engine.Messages()
	if len(msgs) == 0 {
		return m.theme.WelcomeText.Render(m.welcomeText())
	}

	width := m.transcriptWidth() - 2
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg model.Message, width int) string {
	label := m.theme.AssistantLabel.Render(msg.Role.DisplayName())
	bubble := m.theme.AssistantBubble
	if msg.Role == model.RoleUser {
		label = m.theme.UserLabel.Render(msg.Role.DisplayName())
		bubble = m.theme.UserBubble
	}
	if msg.IsError {
		bubble = m.theme.ErrorBubble
	}

	header := label
	if m.deps.ShowTimestamps && !msg.CreatedAt.IsZero() {
		header += m.theme.Timestamp.Render("  " + msg.CreatedAt.Format("15:04"))
	}

	return fmt.Sprintf("%s\n%s", header, bubble.Width(width).Render(msg.Content))
}

func (m *Model) welcomeText() string {
	if m.signedIn() {
		return "\n  Ask anything. This conversation will be saved to your account.\n"
	}
	return "\n  Ask anything. You're chatting as a guest; sign in with\n  `quizbot login` to keep your conversations.\n"
}
