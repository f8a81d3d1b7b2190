// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render.go - Markdown and styled output for CLI responses.
package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/quizbot-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	titleStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	ageStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant replies for terminal display.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Plain text fallback
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content, returning the original text
// when rendering is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a reply, rendering markdown only on a styled
// TTY so piped output and NO_COLOR sessions stay clean.
func displayResponse(response string) {
	if IsStdoutTTY() && ColorEnabled() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}
