// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// IDENTITY
// =============================================================================

// User is the backend's profile for an authenticated account.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Identity ties a bearer token to the user profile it was issued for.
//
// Presence of an Identity is what switches the client between guest and
// authenticated behavior; the mode is re-derived from it on every
// operation and never cached separately.
type Identity struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the identity is usable: a token alone with a
// missing profile is treated as absent rather than half-authenticated.
func (id Identity) Valid() bool {
	if id.Token == "" {
		return false
	}
	return id.User.ID != "" || id.User.Email != ""
}
