// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/quizbot-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// The ID is either server-issued (authenticated conversations, once
// confirmed) or client-generated (guest mode, and the optimistic echo of a
// user message before the backend confirms it). Messages are never mutated
// after creation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// IsError marks a synthesized assistant entry describing a failed
	// submission. Error messages exist only in the local transcript and
	// are never sent back to the backend.
	IsError bool `json:"is_error,omitempty"`
}

// NewUserMessage creates a user message with a client-generated ID and the
// current timestamp. This is the optimistic entry inserted before any
// network round-trip.
func NewUserMessage(content string) Message {
	return Message{
		ID:        newLocalID(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a client-generated
// ID and the current timestamp. Used in guest mode, where the backend never
// issues message IDs.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        newLocalID(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewErrorMessage creates the synthetic assistant entry appended to the
// transcript when a submission fails. The reason is embedded verbatim.
func NewErrorMessage(reason string) Message {
	return Message{
		ID:        newLocalID(),
		Role:      RoleAssistant,
		Content:   "Sorry, I encountered an error: " + reason + ". Please try again.",
		CreatedAt: time.Now(),
		IsError:   true,
	}
}

// Preview returns a single-line truncated preview of the message content.
func (m Message) Preview(maxRunes int) string {
	return util.TruncateRunes(util.CollapseNewlines(m.Content), maxRunes)
}

// newLocalID generates a client-side message ID. Local IDs are only ever
// compared with each other; the backend's IDs replace them on reload.
func newLocalID() string {
	return "local_" + uuid.NewString()
}
