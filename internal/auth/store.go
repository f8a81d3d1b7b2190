// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth persists the authenticated identity across process restarts.
//
// The store is a single JSON file under ~/.quizbot/ holding the bearer
// token and the user profile it was issued for. It is the terminal
// equivalent of the browser's localStorage entry: both pieces are written
// together on sign-in and removed together on sign-out.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/quizbot-tui/internal/model"
	"github.com/jeranaias/quizbot-tui/internal/util"
)

// credentialsFile is the filename under the quizbot home directory.
const credentialsFile = "credentials.json"

// ErrNoIdentity is returned by Save when given an identity that would not
// round-trip as signed-in.
var ErrNoIdentity = errors.New("identity has no token or profile")

// Store persists the current Identity. The zero value is not usable;
// construct with NewStore or NewStoreWithPath.
type Store struct {
	path string
}

// NewStore creates a store rooted at ~/.quizbot/.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewStoreWithPath(filepath.Join(home, ".quizbot", credentialsFile)), nil
}

// NewStoreWithPath creates a store backed by an explicit file path.
// Tests use this with a temp directory.
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted Identity and true, or a zero Identity and
// false when no usable identity exists. A corrupt file, or a token whose
// profile is missing, is treated as signed-out rather than an error: the
// caller cannot do anything useful with half an identity.
func (s *Store) Load() (model.Identity, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Identity{}, false
	}

	var id model.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return model.Identity{}, false
	}
	if !id.Valid() {
		return model.Identity{}, false
	}
	return id, true
}

// Save persists the identity atomically. The file is user-only: it holds
// a live bearer token.
func (s *Store) Save(id model.Identity) error {
	if !id.Valid() {
		return ErrNoIdentity
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	return util.AtomicWriteFile(s.path, data, 0o600)
}

// Clear removes the persisted identity. Clearing an absent identity is
// not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
