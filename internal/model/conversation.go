// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/jeranaias/quizbot-tui/internal/util"
)

// TitleMaxRunes is the maximum length of an auto-derived conversation
// title, matching what the backend stores for a chat.
const TitleMaxRunes = 50

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the active transcript and its backend identity.
//
// A conversation with an empty ID is unpersisted: it exists only in memory
// and becomes persisted exactly once, when the first user message is sent
// while authenticated. Once assigned, the ID never changes.
type Conversation struct {
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// NewConversation creates a fresh, unpersisted conversation with an empty
// transcript.
func NewConversation() *Conversation {
	return &Conversation{
		Messages: make([]Message, 0),
	}
}

// Persisted reports whether the backend has assigned this conversation an ID.
func (c *Conversation) Persisted() bool {
	return c.ID != ""
}

// Append adds a message to the end of the transcript.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// Last returns the most recent message and true, or a zero Message and
// false when the transcript is empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages in the transcript.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if the transcript has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// =============================================================================
// GUEST HISTORY PROJECTION
// =============================================================================

// HistoryEntry is the role+content projection of a message sent as guest
// conversation context. IDs, timestamps and error flags never leave the
// client in guest mode.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History returns the transcript as guest conversation context, excluding
// synthesized error entries. When maxMessages is positive, only the most
// recent maxMessages entries are returned; the backend has no truncation
// policy of its own, so the cap keeps resent history bounded.
func (c *Conversation) History(maxMessages int) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.IsError {
			continue
		}
		entries = append(entries, HistoryEntry{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	if maxMessages > 0 && len(entries) > maxMessages {
		entries = entries[len(entries)-maxMessages:]
	}
	return entries
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle builds a conversation title from the first user message:
// the first TitleMaxRunes runes, with an ellipsis marker when truncated.
func DeriveTitle(content string) string {
	content = util.CollapseNewlines(content)
	if util.RuneLen(content) <= TitleMaxRunes {
		return content
	}
	return util.TruncateRunesNoEllipsis(content, TitleMaxRunes) + "..."
}

// =============================================================================
// CHAT SUMMARY
// =============================================================================

// ChatSummary is the sidebar's lightweight projection of a conversation.
// It never carries message bodies.
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touched returns the most relevant activity timestamp: updated_at when
// the backend sent one, otherwise created_at. May be the zero time when
// the backend sent neither.
func (s ChatSummary) Touched() time.Time {
	if !s.UpdatedAt.IsZero() {
		return s.UpdatedAt
	}
	return s.CreatedAt
}

// DisplayTitle returns the title or a fallback for untitled chats.
func (s ChatSummary) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return "Untitled Chat"
}
