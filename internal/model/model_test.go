// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %v, want %v", msg.Role, RoleUser)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "hello")
	}
	if !strings.HasPrefix(msg.ID, "local_") {
		t.Errorf("ID = %q, want local_ prefix", msg.ID)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if msg.IsError {
		t.Error("user message should not be an error entry")
	}
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("connection refused")

	if msg.Role != RoleAssistant {
		t.Errorf("Role = %v, want %v", msg.Role, RoleAssistant)
	}
	if !msg.IsError {
		t.Error("IsError should be true")
	}
	if !strings.Contains(msg.Content, "connection refused") {
		t.Errorf("Content = %q, want failure reason embedded", msg.Content)
	}
}

func TestMessageIDs_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("x")
		if seen[msg.ID] {
			t.Fatalf("duplicate message ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_Persisted(t *testing.T) {
	conv := NewConversation()
	if conv.Persisted() {
		t.Error("fresh conversation should be unpersisted")
	}

	conv.ID = "chat_42"
	if !conv.Persisted() {
		t.Error("conversation with ID should be persisted")
	}
}

func TestConversation_AppendPreservesOrder(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserMessage("first"))
	conv.Append(NewAssistantMessage("second"))
	conv.Append(NewUserMessage("third"))

	want := []string{"first", "second", "third"}
	for i, msg := range conv.Messages {
		if msg.Content != want[i] {
			t.Errorf("Messages[%d].Content = %q, want %q", i, msg.Content, want[i])
		}
	}
}

func TestConversation_History(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserMessage("question"))
	conv.Append(NewAssistantMessage("answer"))
	conv.Append(NewErrorMessage("boom"))

	history := conv.History(0)

	// Error entries never leave the client
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "question" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "answer" {
		t.Errorf("history[1] = %+v", history[1])
	}
}

func TestConversation_HistoryCap(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < 10; i++ {
		conv.Append(NewUserMessage("msg"))
	}

	history := conv.History(4)
	if len(history) != 4 {
		t.Errorf("len(history) = %d, want 4", len(history))
	}
}

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short message", "hello", "hello"},
		{"exactly fifty", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"truncated with marker", strings.Repeat("a", 60), strings.Repeat("a", 50) + "..."},
		{"newlines collapsed", "line one\nline two", "line one line two"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveTitle(tc.input); got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// =============================================================================
// SUMMARY TESTS
// =============================================================================

func TestChatSummary_Touched(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s := ChatSummary{CreatedAt: created, UpdatedAt: updated}
	if !s.Touched().Equal(updated) {
		t.Error("Touched should prefer updated_at")
	}

	s = ChatSummary{CreatedAt: created}
	if !s.Touched().Equal(created) {
		t.Error("Touched should fall back to created_at")
	}

	s = ChatSummary{}
	if !s.Touched().IsZero() {
		t.Error("Touched should be zero when backend sent neither timestamp")
	}
}

// =============================================================================
// IDENTITY TESTS
// =============================================================================

func TestIdentity_Valid(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{"token and profile", Identity{Token: "t", User: User{ID: "1", Email: "a@b.c"}}, true},
		{"token only", Identity{Token: "t"}, false},
		{"profile only", Identity{User: User{ID: "1"}}, false},
		{"empty", Identity{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.id.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}
