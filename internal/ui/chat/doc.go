// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the full-screen TUI for quizbot.
//
// The model binds the conversation engine and the session list
// controller to the terminal: the sidebar shows saved conversations for
// signed-in users, the main pane shows the active transcript, and the
// input line feeds the engine. All network work runs as Bubble Tea
// commands so the interface never blocks; the single-in-flight gate in
// the engine keeps double submissions out even when keys are mashed.
package chat
