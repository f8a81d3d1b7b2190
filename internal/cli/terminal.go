// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and handling for the quizbot CLI.
//
// These utilities keep behavior sane across interactive terminals,
// piped output, and CI environments (NO_COLOR respected).
package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal. Interactive prompts are only
// possible when this holds.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// TERMINAL WIDTH
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width used for wrapping
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the current terminal width, clamped to a
// usable minimum.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT
// =============================================================================

var (
	colorOnce    sync.Once
	colorProfile termenv.Profile
)

// ColorProfile returns the detected terminal color profile. Piped output
// and NO_COLOR both collapse to Ascii.
func ColorProfile() termenv.Profile {
	colorOnce.Do(func() {
		if !IsStdoutTTY() || os.Getenv("NO_COLOR") != "" {
			colorProfile = termenv.Ascii
			return
		}
		colorProfile = termenv.ColorProfile()
	})
	return colorProfile
}

// ColorEnabled reports whether styled output should be produced.
func ColorEnabled() bool {
	return ColorProfile() != termenv.Ascii
}
