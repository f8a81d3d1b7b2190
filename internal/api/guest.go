// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jeranaias/quizbot-tui/internal/model"
)

// =============================================================================
// GUEST ENDPOINTS (unauthenticated)
// =============================================================================

// guestMessageRequest is the stateless guest turn. The backend holds no
// conversation for guests, so the full prior transcript rides along.
type guestMessageRequest struct {
	Content             string               `json:"content"`
	ConversationHistory []model.HistoryEntry `json:"conversation_history"`
}

// SendGuestMessage sends one guest turn and returns the assistant reply
// text. No credential is attached and no server-issued IDs come back.
func (c *Client) SendGuestMessage(ctx context.Context, content string, history []model.HistoryEntry) (AssistantReply, error) {
	if err := c.guestLimiter.Wait(ctx); err != nil {
		return AssistantReply{}, err
	}

	body := guestMessageRequest{
		Content:             content,
		ConversationHistory: history,
	}
	if body.ConversationHistory == nil {
		body.ConversationHistory = []model.HistoryEntry{}
	}

	var resp assistantReplyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chats/guest/message", body, &resp, false); err != nil {
		return AssistantReply{}, err
	}
	return AssistantReply{Content: resp.AssistantMessage.Content}, nil
}

// SendGuestMessageWithFile sends one guest turn with an attachment. The
// multipart form carries the message text, the conversation history as a
// JSON text field, and the file contents.
func (c *Client) SendGuestMessageWithFile(ctx context.Context, content, filePath string, history []model.HistoryEntry) (AssistantReply, error) {
	if err := c.guestLimiter.Wait(ctx); err != nil {
		return AssistantReply{}, err
	}

	req, err := c.newUploadRequest(ctx, "/guest/message/upload", content, filePath, history)
	if err != nil {
		return AssistantReply{}, err
	}
	c.setHeaders(req, false)

	var resp assistantReplyResponse
	if err := c.do(req, &resp, false); err != nil {
		return AssistantReply{}, err
	}
	return AssistantReply{Content: resp.AssistantMessage.Content}, nil
}

// =============================================================================
// MULTIPART UPLOAD
// =============================================================================

// newUploadRequest builds a multipart POST carrying a message and a file.
// When history is non-nil it is serialized as a JSON text field, matching
// the guest upload contract. The file is read fully up front; attachments
// are capped at MaxUploadSize.
func (c *Client) newUploadRequest(ctx context.Context, path, content, filePath string, history []model.HistoryEntry) (*http.Request, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, filepath.Base(filePath), info.Size())
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if err := form.WriteField("message", content); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if history != nil {
		encoded, err := json.Marshal(history)
		if err != nil {
			return nil, fmt.Errorf("failed to encode history: %w", err)
		}
		if err := form.WriteField("conversation_history", string(encoded)); err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
	}

	part, err := form.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req, nil
}
