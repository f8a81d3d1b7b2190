// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/quizbot-tui/internal/engine"
	"github.com/jeranaias/quizbot-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// submitDoneMsg reports a resolved turn. The outcome (reply or absorbed
// error entry) is already in the engine's transcript.
type submitDoneMsg struct{}

// refreshDoneMsg reports a completed session list refresh.
type refreshDoneMsg struct {
	err error
}

// loadDoneMsg reports a completed conversation load.
type loadDoneMsg struct {
	chatID string
	err    error
}

// deleteDoneMsg reports a completed conversation deletion.
type deleteDoneMsg struct {
	chatID string
	err    error
}

// signOutDoneMsg reports a completed sign-out.
type signOutDoneMsg struct {
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// submitCmd runs one engine turn. Timeouts live in the HTTP client, so
// the context here only guards against total stalls.
func submitCmd(eng *engine.Engine, text string) tea.Cmd {
	return func() tea.Msg {
		eng.Submit(context.Background(), text)
		return submitDoneMsg{}
	}
}

// submitWithFileCmd runs one engine turn carrying a staged attachment.
func submitWithFileCmd(eng *engine.Engine, text, filePath string) tea.Cmd {
	return func() tea.Msg {
		eng.SubmitWithFile(context.Background(), text, filePath)
		return submitDoneMsg{}
	}
}

// refreshCmd reloads the session list.
func refreshCmd(sessions *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: sessions.Refresh(context.Background())}
	}
}

// loadCmd fetches a saved conversation into the engine.
func loadCmd(eng *engine.Engine, chatID string) tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{chatID: chatID, err: eng.Load(context.Background(), chatID)}
	}
}

// deleteCmd removes a saved conversation.
func deleteCmd(sessions *session.Controller, chatID string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{chatID: chatID, err: sessions.Delete(context.Background(), chatID)}
	}
}

// signOutCmd clears the identity and per-account state.
func signOutCmd(signOut func() error) tea.Cmd {
	return func() tea.Msg {
		return signOutDoneMsg{err: signOut()}
	}
}
