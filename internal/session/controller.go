// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session maintains the ordered list of a user's past
// conversations and the relative-age labels the sidebar renders.
//
// The controller exclusively owns the summary collection. It learns
// about new conversations through explicit Upsert calls (wired to the
// engine's created event) and never reaches into the engine's
// transcript.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/quizbot-tui/internal/model"
)

// Gateway is the backend surface the controller needs. *api.Client
// satisfies it; tests substitute a fake.
type Gateway interface {
	ListChats(ctx context.Context) ([]model.ChatSummary, error)
	DeleteChat(ctx context.Context, chatID string) error
}

// IdentityFunc reports the current sign-in state. The list only exists
// for signed-in users; guests always see an empty list.
type IdentityFunc func() (model.Identity, bool)

// Controller owns the session list.
type Controller struct {
	mu        sync.Mutex
	summaries []model.ChatSummary

	gateway  Gateway
	identity IdentityFunc
	log      *zap.Logger
}

// NewController creates a controller with an empty list.
func NewController(gateway Gateway, identity IdentityFunc) *Controller {
	return &Controller{
		summaries: make([]model.ChatSummary, 0),
		gateway:   gateway,
		identity:  identity,
		log:       zap.NewNop(),
	}
}

// WithLogger sets the structured logger.
func (c *Controller) WithLogger(log *zap.Logger) *Controller {
	if log != nil {
		c.log = log
	}
	return c
}

// Summaries returns a snapshot of the list, newest first.
func (c *Controller) Summaries() []model.ChatSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChatSummary, len(c.summaries))
	copy(out, c.summaries)
	return out
}

// Len returns the number of listed conversations.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.summaries)
}

// Refresh reloads the list from the backend. Without a signed-in
// identity it short-circuits to an empty list and makes no network
// call. On failure the existing list is left untouched and the error is
// surfaced for boundary-level display.
func (c *Controller) Refresh(ctx context.Context) error {
	if _, ok := c.identity(); !ok {
		c.mu.Lock()
		c.summaries = c.summaries[:0]
		c.mu.Unlock()
		return nil
	}

	summaries, err := c.gateway.ListChats(ctx)
	if err != nil {
		c.log.Warn("session list refresh failed", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.summaries = summaries
	c.mu.Unlock()
	c.log.Debug("session list refreshed", zap.Int("count", len(summaries)))
	return nil
}

// Upsert records a conversation in the list. A new ID is inserted at the
// head (newest first); an existing ID has its entry replaced in place, so
// repeated creation events for the same conversation never duplicate it.
func (c *Controller) Upsert(summary model.ChatSummary) {
	if summary.ID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.summaries {
		if c.summaries[i].ID == summary.ID {
			c.summaries[i] = summary
			return
		}
	}
	c.summaries = append([]model.ChatSummary{summary}, c.summaries...)
}

// Delete removes a conversation on the backend and, on success, from the
// list. On failure the list is left untouched and the error is surfaced.
func (c *Controller) Delete(ctx context.Context, chatID string) error {
	if err := c.gateway.DeleteChat(ctx, chatID); err != nil {
		c.log.Warn("delete failed", zap.String("chat_id", chatID), zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.summaries {
		if c.summaries[i].ID == chatID {
			c.summaries = append(c.summaries[:i], c.summaries[i+1:]...)
			break
		}
	}
	return nil
}

// Clear empties the list without touching the backend. Used on sign-out.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries = c.summaries[:0]
}
