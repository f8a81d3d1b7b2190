// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jeranaias/quizbot-tui/internal/api"
	"github.com/jeranaias/quizbot-tui/internal/model"
)

// fakeGateway records calls and plays back scripted responses.
type fakeGateway struct {
	createCalls atomic.Int32
	getCalls    atomic.Int32
	deleteCalls atomic.Int32
	sendCalls   atomic.Int32
	guestCalls  atomic.Int32

	createErr error
	sendErr   error
	guestErr  error

	lastHistory []model.HistoryEntry
	lastChatID  string

	// onSend runs inside SendMessage/SendGuestMessage, letting tests
	// observe engine state mid-flight.
	onSend func()
}

func (f *fakeGateway) CreateChat(ctx context.Context, title string) (model.ChatSummary, error) {
	f.createCalls.Add(1)
	if f.createErr != nil {
		return model.ChatSummary{}, f.createErr
	}
	return model.ChatSummary{ID: "chat-1", Title: title}, nil
}

func (f *fakeGateway) GetChat(ctx context.Context, chatID string) (*model.Conversation, error) {
	f.getCalls.Add(1)
	conv := &model.Conversation{ID: chatID, Title: "Loaded"}
	conv.Append(model.Message{ID: "srv-1", Role: model.RoleUser, Content: "old question"})
	conv.Append(model.Message{ID: "srv-2", Role: model.RoleAssistant, Content: "old answer"})
	return conv, nil
}

func (f *fakeGateway) SendMessage(ctx context.Context, chatID, content string) (api.AssistantReply, error) {
	f.sendCalls.Add(1)
	f.lastChatID = chatID
	if f.onSend != nil {
		f.onSend()
	}
	if f.sendErr != nil {
		return api.AssistantReply{}, f.sendErr
	}
	return api.AssistantReply{ID: "srv-99", Content: "authenticated answer"}, nil
}

func (f *fakeGateway) SendMessageWithFile(ctx context.Context, chatID, content, filePath string) (api.AssistantReply, error) {
	return f.SendMessage(ctx, chatID, content)
}

func (f *fakeGateway) SendGuestMessage(ctx context.Context, content string, history []model.HistoryEntry) (api.AssistantReply, error) {
	f.guestCalls.Add(1)
	f.lastHistory = history
	if f.onSend != nil {
		f.onSend()
	}
	if f.guestErr != nil {
		return api.AssistantReply{}, f.guestErr
	}
	return api.AssistantReply{Content: "guest answer"}, nil
}

func (f *fakeGateway) SendGuestMessageWithFile(ctx context.Context, content, filePath string, history []model.HistoryEntry) (api.AssistantReply, error) {
	return f.SendGuestMessage(ctx, content, history)
}

func guest() (model.Identity, bool) {
	return model.Identity{}, false
}

func signedIn() (model.Identity, bool) {
	return model.Identity{Token: "tok", User: model.User{ID: "7"}}, true
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_OptimisticInsertBeforeNetwork(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, guest, 0)

	var seenAtSend int
	gw.onSend = func() {
		seenAtSend = len(eng.Messages())
	}

	if ok := eng.Submit(context.Background(), "  hello  "); !ok {
		t.Fatal("Submit returned false")
	}

	if seenAtSend != 1 {
		t.Errorf("transcript had %d messages when the network call ran, want 1", seenAtSend)
	}

	msgs := eng.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want user + assistant", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "hello" {
		t.Errorf("optimistic message = %+v, want trimmed user text", msgs[0])
	}
	if msgs[1].Content != "guest answer" {
		t.Errorf("assistant content = %q", msgs[1].Content)
	}
	if eng.Pending() {
		t.Error("pending should be false after the turn resolves")
	}
}

func TestSubmit_EmptyTextIsNoOp(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, guest, 0)

	for _, text := range []string{"", "   ", "\n\t"} {
		if eng.Submit(context.Background(), text) {
			t.Errorf("Submit(%q) = true, want no-op", text)
		}
	}
	if len(eng.Messages()) != 0 {
		t.Error("no-op submits must not touch the transcript")
	}
	if gw.guestCalls.Load() != 0 {
		t.Error("no-op submits must not hit the network")
	}
}

func TestSubmit_ReentrantWhilePendingIsNoOp(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, guest, 0)

	var inner bool
	gw.onSend = func() {
		inner = eng.Submit(context.Background(), "second")
	}

	eng.Submit(context.Background(), "first")

	if inner {
		t.Error("submit while pending must be a no-op")
	}
	if gw.guestCalls.Load() != 1 {
		t.Errorf("guest calls = %d, want 1", gw.guestCalls.Load())
	}

	msgs := eng.Messages()
	users := 0
	for _, m := range msgs {
		if m.Role == model.RoleUser {
			users++
		}
	}
	if users != 1 {
		t.Errorf("user messages = %d, want 1", users)
	}
}

// =============================================================================
// GUEST MODE TESTS
// =============================================================================

func TestSubmit_GuestNeverAcquiresServerIDs(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, guest, 0)

	eng.Submit(context.Background(), "one")
	eng.Submit(context.Background(), "two")

	for _, m := range eng.Messages() {
		if !strings.HasPrefix(m.ID, "local_") {
			t.Errorf("guest message carries non-local id %q", m.ID)
		}
	}
	if eng.ActiveID() != "" {
		t.Error("guest conversation must stay unpersisted")
	}
}

func TestSubmit_GuestResendsPriorHistory(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, guest, 0)
	ctx := context.Background()

	eng.Submit(ctx, "first question")
	eng.Submit(ctx, "second question")

	// The second turn's history is the prior two messages; the new text
	// rides in the content field.
	if len(gw.lastHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(gw.lastHistory))
	}
	if gw.lastHistory[0].Content != "first question" || gw.lastHistory[1].Content != "guest answer" {
		t.Errorf("history = %+v", gw.lastHistory)
	}
}

func TestSubmit_GuestHistoryCapKeepsMostRecent(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, guest, 4)
	ctx := context.Background()

	for _, q := range []string{"q1", "q2", "q3", "q4"} {
		eng.Submit(ctx, q)
	}

	if len(gw.lastHistory) != 4 {
		t.Fatalf("history length = %d, want cap of 4", len(gw.lastHistory))
	}
	// Six prior messages capped to the most recent four: q2, a2, q3, a3.
	// The fourth question itself travels in the content field.
	if gw.lastHistory[0].Content != "q2" {
		t.Errorf("oldest kept entry = %q, want q2", gw.lastHistory[0].Content)
	}
	if gw.lastHistory[3].Content != "guest answer" {
		t.Errorf("newest kept entry = %q", gw.lastHistory[3].Content)
	}
}

func TestSubmit_GuestErrorEntriesExcludedFromHistory(t *testing.T) {
	gw := &fakeGateway{guestErr: errors.New("boom")}
	eng := New(gw, guest, 0)
	ctx := context.Background()

	eng.Submit(ctx, "fails")

	gw.guestErr = nil
	eng.Submit(ctx, "works")

	for _, h := range gw.lastHistory {
		if strings.Contains(h.Content, "Sorry, I encountered an error") {
			t.Error("synthesized error entries must never be resent as history")
		}
	}
}

func TestResetThenGuestSubmits_NeverTouchChatEndpoints(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, guest, 0)
	ctx := context.Background()

	if err := eng.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	eng.Submit(ctx, "one")
	eng.Submit(ctx, "two")

	if n := gw.createCalls.Load() + gw.getCalls.Load() + gw.deleteCalls.Load() + gw.sendCalls.Load(); n != 0 {
		t.Errorf("chat endpoints saw %d calls in guest mode, want 0", n)
	}
}

// =============================================================================
// AUTHENTICATED MODE TESTS
// =============================================================================

func TestSubmit_AuthenticatedCreatesOnceThenSends(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, signedIn, 0)
	ctx := context.Background()

	var createdEvents []model.ChatSummary
	eng.OnCreated(func(s model.ChatSummary) {
		createdEvents = append(createdEvents, s)
	})

	eng.Submit(ctx, "What is the capital of France and why is it culturally significant?")
	eng.Submit(ctx, "And of Spain?")

	if gw.createCalls.Load() != 1 {
		t.Errorf("create calls = %d, want exactly 1", gw.createCalls.Load())
	}
	if gw.sendCalls.Load() != 2 {
		t.Errorf("send calls = %d, want 2", gw.sendCalls.Load())
	}
	if eng.ActiveID() != "chat-1" {
		t.Errorf("ActiveID = %q", eng.ActiveID())
	}

	if len(createdEvents) != 1 {
		t.Fatalf("created events = %d, want 1", len(createdEvents))
	}
	// Title derives from the first message, capped at 50 runes.
	title := createdEvents[0].Title
	if !strings.HasSuffix(title, "...") {
		t.Errorf("long first message should yield truncated title, got %q", title)
	}
	if got := len([]rune(strings.TrimSuffix(title, "..."))); got != model.TitleMaxRunes {
		t.Errorf("title rune length = %d, want %d", got, model.TitleMaxRunes)
	}
}

func TestSubmit_AuthenticatedRepliesCarryServerID(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, signedIn, 0)

	eng.Submit(context.Background(), "hello")

	msgs := eng.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len = %d", len(msgs))
	}
	if msgs[1].ID != "srv-99" {
		t.Errorf("assistant ID = %q, want server-issued srv-99", msgs[1].ID)
	}
}

func TestSubmit_CreateOnceEvenWhenSendFails(t *testing.T) {
	gw := &fakeGateway{sendErr: errors.New("model overloaded")}
	eng := New(gw, signedIn, 0)
	ctx := context.Background()

	eng.Submit(ctx, "first try")

	if eng.ActiveID() != "chat-1" {
		t.Fatal("conversation should be persisted even though send failed")
	}

	// Retry on the now-persisted conversation must not create again.
	gw.sendErr = nil
	eng.Submit(ctx, "second try")

	if gw.createCalls.Load() != 1 {
		t.Errorf("create calls = %d, want exactly 1 across retry", gw.createCalls.Load())
	}
	if gw.lastChatID != "chat-1" {
		t.Errorf("retry sent to %q, want chat-1", gw.lastChatID)
	}
}

func TestSubmit_CreateFailureAbsorbedAndOnCreatedNotFired(t *testing.T) {
	gw := &fakeGateway{createErr: errors.New("quota exceeded")}
	eng := New(gw, signedIn, 0)

	fired := false
	eng.OnCreated(func(model.ChatSummary) { fired = true })

	eng.Submit(context.Background(), "hello")

	if fired {
		t.Error("OnCreated must not fire when creation fails")
	}
	if eng.ActiveID() != "" {
		t.Error("conversation must stay unpersisted after create failure")
	}
	if gw.sendCalls.Load() != 0 {
		t.Error("send must not be attempted when creation fails")
	}

	last, ok := lastMessage(eng)
	if !ok || !last.IsError {
		t.Fatal("expected a synthesized error entry")
	}
}

// =============================================================================
// FAILURE ABSORPTION TESTS
// =============================================================================

func TestSubmit_FailureAppendsExactlyOneErrorEntry(t *testing.T) {
	gw := &fakeGateway{guestErr: &api.APIError{Status: 400, Reason: "Message too long"}}
	eng := New(gw, guest, 0)

	eng.Submit(context.Background(), "hello")

	if eng.Pending() {
		t.Error("pending must return to false after a failure")
	}

	msgs := eng.Messages()
	errCount := 0
	for _, m := range msgs {
		if m.IsError {
			errCount++
		}
	}
	if errCount != 1 {
		t.Fatalf("error entries = %d, want exactly 1", errCount)
	}

	last, _ := lastMessage(eng)
	want := "Sorry, I encountered an error: Message too long. Please try again."
	if last.Content != want {
		t.Errorf("error entry = %q, want %q", last.Content, want)
	}
	if last.Role != model.RoleAssistant {
		t.Error("error entry should render as an assistant message")
	}
}

func TestSubmit_TransportFailureGetsGenericReason(t *testing.T) {
	gw := &fakeGateway{guestErr: errors.New("dial tcp 10.0.0.1: i/o timeout")}
	eng := New(gw, guest, 0)

	eng.Submit(context.Background(), "hello")

	last, _ := lastMessage(eng)
	if strings.Contains(last.Content, "dial tcp") {
		t.Errorf("raw transport error leaked into transcript: %q", last.Content)
	}
	if !strings.Contains(last.Content, "could not reach the server") {
		t.Errorf("error entry = %q", last.Content)
	}
}

// =============================================================================
// LOAD / RESET TESTS
// =============================================================================

func TestLoad_ReplacesTranscriptWholesale(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, signedIn, 0)
	ctx := context.Background()

	eng.Submit(ctx, "about to be replaced")

	if err := eng.Load(ctx, "chat-42"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if eng.ActiveID() != "chat-42" {
		t.Errorf("ActiveID = %q", eng.ActiveID())
	}
	msgs := eng.Messages()
	if len(msgs) != 2 || msgs[0].Content != "old question" {
		t.Errorf("transcript not replaced: %+v", msgs)
	}
}

func TestLoadAndReset_RefusedWhilePending(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, guest, 0)

	var loadErr, resetErr error
	gw.onSend = func() {
		loadErr = eng.Load(context.Background(), "chat-1")
		resetErr = eng.Reset()
	}

	eng.Submit(context.Background(), "hello")

	if !errors.Is(loadErr, ErrBusy) {
		t.Errorf("Load while pending = %v, want ErrBusy", loadErr)
	}
	if !errors.Is(resetErr, ErrBusy) {
		t.Errorf("Reset while pending = %v, want ErrBusy", resetErr)
	}
}

func TestDropIfActive(t *testing.T) {
	gw := &fakeGateway{}
	eng := New(gw, signedIn, 0)
	ctx := context.Background()

	eng.Submit(ctx, "hello")
	if eng.ActiveID() != "chat-1" {
		t.Fatal("setup: conversation should be persisted")
	}

	if eng.DropIfActive("other-chat") {
		t.Error("dropping a different chat must not reset the transcript")
	}
	if !eng.DropIfActive("chat-1") {
		t.Error("dropping the active chat should reset")
	}
	if eng.ActiveID() != "" || len(eng.Messages()) != 0 {
		t.Error("transcript should be empty and unpersisted after drop")
	}
}

func lastMessage(e *Engine) (model.Message, bool) {
	msgs := e.Messages()
	if len(msgs) == 0 {
		return model.Message{}, false
	}
	return msgs[len(msgs)-1], true
}
