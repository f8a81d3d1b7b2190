// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared state for quizbot CLI command handlers.
package cli

import (
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/quizbot-tui/internal/api"
	"github.com/jeranaias/quizbot-tui/internal/auth"
	"github.com/jeranaias/quizbot-tui/internal/config"
	"github.com/jeranaias/quizbot-tui/internal/engine"
	"github.com/jeranaias/quizbot-tui/internal/model"
	"github.com/jeranaias/quizbot-tui/internal/session"
)

// App wires the collaborators every command handler needs: configuration,
// the credential store, the backend client, and the conversation core.
// main constructs one App and dispatches onto it.
type App struct {
	Config   *config.Config
	Store    *auth.Store
	Client   *api.Client
	Engine   *engine.Engine
	Sessions *session.Controller
	Log      *zap.Logger

	mu       sync.Mutex
	identity model.Identity
	signedIn bool
}

// NewApp builds the full dependency graph. The persisted identity is
// loaded up front; everything downstream derives mode from it through
// Identity().
func NewApp(cfg *config.Config, store *auth.Store, log *zap.Logger) *App {
	app := &App{
		Config: cfg,
		Store:  store,
		Log:    log,
	}

	app.Client = api.NewClient(cfg.API.BaseURL).
		WithTimeout(cfg.Timeout()).
		WithLogger(log)

	if id, ok := store.Load(); ok {
		app.identity = id
		app.signedIn = true
		app.Client.SetToken(id.Token)
	}

	app.Engine = engine.New(app.Client, app.Identity, cfg.Chat.GuestHistoryLimit).
		WithLogger(log)
	app.Sessions = session.NewController(app.Client, app.Identity).
		WithLogger(log)

	// A conversation persisted mid-chat shows up in the list immediately.
	app.Engine.OnCreated(app.Sessions.Upsert)

	// A 401 on a bearer-carrying call means the stored session is dead.
	app.Client.OnAuthFailure(app.handleSessionExpired)

	return app
}

// handleSessionExpired destroys the identity after the backend rejected
// the bearer token, the same as an explicit sign-out except the active
// transcript is left alone: the rejection may arrive mid-turn, and the
// engine re-derives guest mode from the identity on its next operation.
func (a *App) handleSessionExpired() {
	a.mu.Lock()
	wasSignedIn := a.signedIn
	a.identity = model.Identity{}
	a.signedIn = false
	a.mu.Unlock()
	if !wasSignedIn {
		return
	}

	a.Client.SetToken("")
	a.Sessions.Clear()
	if err := a.Store.Clear(); err != nil {
		a.Log.Warn("failed to clear stored credentials", zap.Error(err))
	}
	a.Log.Info("session expired, switched to guest mode")
}

// Identity reports the current sign-in state. Satisfies both the
// engine's and the session controller's IdentityFunc.
func (a *App) Identity() (model.Identity, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity, a.signedIn
}

// SignIn persists the identity and switches the client onto its token.
func (a *App) SignIn(id model.Identity) error {
	if err := a.Store.Save(id); err != nil {
		return err
	}
	a.mu.Lock()
	a.identity = id
	a.signedIn = true
	a.mu.Unlock()
	a.Client.SetToken(id.Token)
	return nil
}

// SignOut clears the persisted identity, drops the client token, and
// resets all per-account state.
func (a *App) SignOut() error {
	if err := a.Store.Clear(); err != nil {
		return err
	}
	a.mu.Lock()
	a.identity = model.Identity{}
	a.signedIn = false
	a.mu.Unlock()

	a.Client.SetToken("")
	a.Sessions.Clear()
	if err := a.Engine.Reset(); err != nil {
		return err
	}
	return nil
}
