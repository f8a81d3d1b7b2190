// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/quizbot-tui/internal/model"
)

func testIdentity() model.Identity {
	return model.Identity{
		Token: "jwt-token-abc",
		User: model.User{
			ID:    "user_1",
			Name:  "Ada",
			Email: "ada@example.com",
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStoreWithPath(filepath.Join(t.TempDir(), "credentials.json"))

	_, ok := store.Load()
	assert.False(t, ok, "fresh store should have no identity")

	require.NoError(t, store.Save(testIdentity()))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "jwt-token-abc", loaded.Token)
	assert.Equal(t, "ada@example.com", loaded.User.Email)
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewStoreWithPath(path)

	require.NoError(t, store.Save(testIdentity()))
	require.NoError(t, store.Clear())

	_, ok := store.Load()
	assert.False(t, ok, "identity should be gone after Clear")

	// Clearing twice is fine
	require.NoError(t, store.Clear())
}

func TestStore_CorruptFileTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewStoreWithPath(path)
	_, ok := store.Load()
	assert.False(t, ok, "corrupt file should read as signed-out")
}

func TestStore_TokenWithoutProfileTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"abc","user":{}}`), 0o600))

	store := NewStoreWithPath(path)
	_, ok := store.Load()
	assert.False(t, ok, "token with empty profile should read as signed-out")
}

func TestStore_SaveRejectsInvalidIdentity(t *testing.T) {
	store := NewStoreWithPath(filepath.Join(t.TempDir(), "credentials.json"))

	err := store.Save(model.Identity{Token: "only-a-token"})
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewStoreWithPath(path)
	require.NoError(t, store.Save(testIdentity()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "credentials must be user-only")
}
