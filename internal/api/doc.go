// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the Quizbot backend.
//
// The client is a stateless request/response mapping: every method is one
// backend operation, taking a context and returning domain types from the
// model package. It owns error normalization (the backend reports failures
// as {"detail": "..."}), response size limiting, and the bearer-token
// handshake for authenticated endpoints. Nothing here holds conversation
// state; that belongs to the engine package.
//
// Endpoints come in two families:
//
//   - Authenticated: /users/* and /chats/* require a bearer token and fail
//     fast with ErrUnauthenticated when none is set; no network call is
//     made for an operation that cannot succeed.
//   - Guest: /chats/guest/message and /guest/message/upload take no
//     credential and carry the full conversation history on every call.
package api
