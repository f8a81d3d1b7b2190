// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for quizbot.
//
// The helpers fall into two groups:
//
//   - String handling that is safe for UTF-8: rune-aware truncation and
//     display-width measurement (CJK characters occupy two columns).
//   - Atomic file writes used for everything quizbot persists locally
//     (credentials, configuration).
package util
