// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jeranaias/quizbot-tui/internal/engine"
	"github.com/jeranaias/quizbot-tui/internal/model"
	"github.com/jeranaias/quizbot-tui/internal/session"
	"github.com/jeranaias/quizbot-tui/internal/ui/styles"
)

// focusArea identifies which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Deps are the collaborators the TUI binds together.
type Deps struct {
	Engine   *engine.Engine
	Sessions *session.Controller

	// Identity reports the current sign-in state; the sidebar only
	// exists while it returns true.
	Identity func() (model.Identity, bool)

	// SignOut clears the persisted identity and all per-account state.
	SignOut func() error

	SidebarWidth   int
	ShowTimestamps bool
}

// Model is the Bubble Tea model for the quizbot TUI.
type Model struct {
	deps  Deps
	theme *styles.Theme
	keys  KeyMap

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Layout
	width  int
	height int
	ready  bool

	// Interaction state
	focus    focusArea
	selected int

	// pending mirrors the engine's in-flight gate for rendering; the
	// engine itself is the authority.
	pending bool

	// banner holds a surfaced (non-absorbed) failure: list refresh,
	// load, or delete problems.
	banner string

	// attachment is a file staged by /attach, consumed by the next
	// submitted message.
	attachment string

	// confirmDelete holds the chat ID awaiting y/n confirmation, empty
	// when no confirmation is in progress.
	confirmDelete string
}

// New creates the TUI model.
func New(deps Deps) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask anything..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	if deps.SidebarWidth <= 0 {
		deps.SidebarWidth = 28
	}

	return Model{
		deps:    deps,
		theme:   theme,
		keys:    DefaultKeyMap(),
		input:   input,
		spinner: sp,
		focus:   focusInput,
	}
}

// signedIn reports whether the sidebar (and saved conversations) exist.
func (m Model) signedIn() bool {
	_, ok := m.deps.Identity()
	return ok
}

// selectedSummary returns the sidebar selection, if any.
func (m Model) selectedSummary() (model.ChatSummary, bool) {
	summaries := m.deps.Sessions.Summaries()
	if m.selected < 0 || m.selected >= len(summaries) {
		return model.ChatSummary{}, false
	}
	return summaries[m.selected], true
}

// clampSelection keeps the sidebar cursor inside the list after
// mutations.
func (m *Model) clampSelection() {
	n := m.deps.Sessions.Len()
	if n == 0 {
		m.selected = 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}
