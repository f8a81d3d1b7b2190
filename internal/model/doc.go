// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: the active transcript; unpersisted until the backend
//     assigns it an ID on the first authenticated message
//   - Message: single transcript entry with role, content and timestamp
//   - ChatSummary: lightweight sidebar projection of a conversation
//   - Identity: authenticated user (bearer token + profile)
//
// Messages are immutable once appended and ordering is strictly insertion
// order; nothing in the application reorders or merges a transcript.
package model
