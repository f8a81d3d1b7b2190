// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine implements the conversation core: the in-memory
// transcript for the active conversation, guest-vs-authenticated
// branching, optimistic insertion, and error absorption.
//
// The engine exclusively owns the active conversation's message
// sequence. Everything it knows about the outside world arrives through
// two injected collaborators: a Gateway for the backend operations and
// an IdentityFunc for the current sign-in state. Mode (guest vs
// authenticated) is re-derived from the identity on every operation and
// never cached.
package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/quizbot-tui/internal/api"
	"github.com/jeranaias/quizbot-tui/internal/model"
)

// ErrBusy is returned by Load and Reset while a submission is in flight.
// The transcript cannot be replaced out from under an unresolved turn.
var ErrBusy = errors.New("a message is still in flight")

// Gateway is the backend surface the engine needs. *api.Client satisfies
// it; tests substitute a fake.
type Gateway interface {
	CreateChat(ctx context.Context, title string) (model.ChatSummary, error)
	GetChat(ctx context.Context, chatID string) (*model.Conversation, error)
	SendMessage(ctx context.Context, chatID, content string) (api.AssistantReply, error)
	SendMessageWithFile(ctx context.Context, chatID, content, filePath string) (api.AssistantReply, error)
	SendGuestMessage(ctx context.Context, content string, history []model.HistoryEntry) (api.AssistantReply, error)
	SendGuestMessageWithFile(ctx context.Context, content, filePath string, history []model.HistoryEntry) (api.AssistantReply, error)
}

// IdentityFunc reports the current sign-in state. Presence of an
// identity selects authenticated behavior for the operation in progress.
type IdentityFunc func() (model.Identity, bool)

// Engine drives the active conversation.
type Engine struct {
	mu      sync.Mutex
	conv    *model.Conversation
	pending bool

	gateway      Gateway
	identity     IdentityFunc
	historyLimit int
	log          *zap.Logger

	// onCreated fires after a conversation is first persisted, so the
	// session list can learn about it. Called outside the engine lock.
	onCreated func(model.ChatSummary)
}

// New creates an engine with an empty, unpersisted conversation.
// historyLimit caps the guest history resent each turn; zero disables
// the cap.
func New(gateway Gateway, identity IdentityFunc, historyLimit int) *Engine {
	return &Engine{
		conv:         model.NewConversation(),
		gateway:      gateway,
		identity:     identity,
		historyLimit: historyLimit,
		log:          zap.NewNop(),
	}
}

// WithLogger sets the structured logger.
func (e *Engine) WithLogger(log *zap.Logger) *Engine {
	if log != nil {
		e.log = log
	}
	return e
}

// OnCreated registers the callback fired when a conversation is first
// persisted.
func (e *Engine) OnCreated(fn func(model.ChatSummary)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onCreated = fn
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// Pending reports whether a submission is in flight.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Messages returns a snapshot of the transcript.
func (e *Engine) Messages() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Message, len(e.conv.Messages))
	copy(out, e.conv.Messages)
	return out
}

// ActiveID returns the active conversation's backend ID, or empty when
// the conversation is unpersisted.
func (e *Engine) ActiveID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv.ID
}

// Title returns the active conversation's display title.
func (e *Engine) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv.GetTitle()
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit sends one user turn. The trimmed text is appended to the
// transcript before any network activity; the assistant reply (or a
// synthesized error entry) is appended when the round-trip resolves.
//
// Returns false without side effects when the text is empty after
// trimming or another submission is already in flight. Gateway failures
// are absorbed into the transcript, never returned: whatever happens,
// the conversation stays usable and pending returns to false.
func (e *Engine) Submit(ctx context.Context, text string) bool {
	return e.submit(ctx, text, "")
}

// SubmitWithFile sends one user turn with a file attachment.
func (e *Engine) SubmitWithFile(ctx context.Context, text, filePath string) bool {
	return e.submit(ctx, text, filePath)
}

func (e *Engine) submit(ctx context.Context, text, filePath string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	e.mu.Lock()
	if e.pending {
		e.mu.Unlock()
		return false
	}
	e.pending = true

	// Guest context is the transcript before this turn; the new text
	// travels in the content field, not the history.
	history := e.conv.History(e.historyLimit)
	e.conv.Append(model.NewUserMessage(text))
	e.mu.Unlock()

	_, signedIn := e.identity()

	var created *model.ChatSummary
	var reply api.AssistantReply
	var err error
	if signedIn {
		created, reply, err = e.submitAuthenticated(ctx, text, filePath)
	} else {
		reply, err = e.submitGuest(ctx, text, filePath, history)
	}

	e.mu.Lock()
	if err != nil {
		e.log.Warn("submit failed", zap.Error(err))
		e.conv.Append(model.NewErrorMessage(api.UserReason(err)))
	} else if signedIn {
		msg := model.NewAssistantMessage(reply.Content)
		if reply.ID != "" {
			msg.ID = reply.ID
		}
		if !reply.CreatedAt.IsZero() {
			msg.CreatedAt = reply.CreatedAt
		}
		e.conv.Append(msg)
	} else {
		e.conv.Append(model.NewAssistantMessage(reply.Content))
	}
	e.pending = false
	onCreated := e.onCreated
	e.mu.Unlock()

	if created != nil && onCreated != nil {
		onCreated(*created)
	}
	return true
}

// submitAuthenticated lazily persists the conversation on its first
// turn, then sends the message to it. Creation happens at most once: the
// ID is committed before the send, so a failed send leaves a persisted
// conversation that a retried submit reuses.
func (e *Engine) submitAuthenticated(ctx context.Context, text, filePath string) (*model.ChatSummary, api.AssistantReply, error) {
	var created *model.ChatSummary

	e.mu.Lock()
	chatID := e.conv.ID
	e.mu.Unlock()

	if chatID == "" {
		summary, err := e.gateway.CreateChat(ctx, model.DeriveTitle(text))
		if err != nil {
			return nil, api.AssistantReply{}, err
		}

		e.mu.Lock()
		e.conv.ID = summary.ID
		if e.conv.Title == "" {
			e.conv.Title = summary.Title
		}
		e.mu.Unlock()

		chatID = summary.ID
		created = &summary
		e.log.Info("conversation created", zap.String("chat_id", summary.ID))
	}

	var reply api.AssistantReply
	var err error
	if filePath != "" {
		reply, err = e.gateway.SendMessageWithFile(ctx, chatID, text, filePath)
	} else {
		reply, err = e.gateway.SendMessage(ctx, chatID, text)
	}
	return created, reply, err
}

// submitGuest sends one stateless turn carrying the prior transcript.
func (e *Engine) submitGuest(ctx context.Context, text, filePath string, history []model.HistoryEntry) (api.AssistantReply, error) {
	if filePath != "" {
		return e.gateway.SendGuestMessageWithFile(ctx, text, filePath, history)
	}
	return e.gateway.SendGuestMessage(ctx, text, history)
}

// =============================================================================
// LOAD / RESET
// =============================================================================

// Load replaces the active transcript with a persisted conversation
// fetched from the backend. On failure the existing transcript is left
// untouched and the error is surfaced to the caller.
func (e *Engine) Load(ctx context.Context, chatID string) error {
	e.mu.Lock()
	if e.pending {
		e.mu.Unlock()
		return ErrBusy
	}
	e.mu.Unlock()

	conv, err := e.gateway.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending {
		return ErrBusy
	}
	e.conv = conv
	return nil
}

// Reset discards the active transcript and starts a fresh, unpersisted
// conversation. No backend call is made.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending {
		return ErrBusy
	}
	e.conv = model.NewConversation()
	return nil
}

// DropIfActive resets the transcript when the given conversation is the
// active one. Used after a deletion so the view never shows a transcript
// whose backing chat is gone.
func (e *Engine) DropIfActive(chatID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending || chatID == "" || e.conv.ID != chatID {
		return false
	}
	e.conv = model.NewConversation()
	return true
}
