// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/jeranaias/quizbot-tui/internal/model"
)

// =============================================================================
// CHAT ENDPOINTS (authenticated)
// =============================================================================

// wireChatSummary is the backend's chat list entry.
type wireChatSummary struct {
	ID        wireID `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (w wireChatSummary) toModel() model.ChatSummary {
	return model.ChatSummary{
		ID:        w.ID.String(),
		Title:     w.Title,
		CreatedAt: parseAPITime(w.CreatedAt),
		UpdatedAt: parseAPITime(w.UpdatedAt),
	}
}

// wireMessage is the backend's message shape inside a chat detail.
type wireMessage struct {
	ID        wireID `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// wireChatDetail is the backend's full-chat response.
type wireChatDetail struct {
	ID       wireID        `json:"id"`
	Title    string        `json:"title"`
	Messages []wireMessage `json:"messages"`
}

// assistantReplyResponse is the send-message envelope.
type assistantReplyResponse struct {
	AssistantMessage struct {
		ID        wireID `json:"id"`
		Content   string `json:"content"`
		CreatedAt string `json:"created_at"`
	} `json:"assistant_message"`
}

// AssistantReply is the backend's answer to a sent message. In guest
// mode only Content is populated; the backend issues no IDs there.
type AssistantReply struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// ListChats fetches the user's chat list, newest first as the backend
// orders it. The response shape is normalized; an unrecognized shape
// degrades to an empty list rather than an error.
func (c *Client) ListChats(ctx context.Context) ([]model.ChatSummary, error) {
	if c.token == "" {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/chats", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, true)

	var raw json.RawMessage
	if err := c.do(req, &raw, true); err != nil {
		return nil, err
	}
	return normalizeChatList(raw), nil
}

// normalizeChatList maps the three shapes the backend has shipped over
// time onto one summary slice: a bare array, {"chats": [...]}, and
// {"data": [...]}. Anything else yields an empty list; a malformed
// list response must degrade, not fail the session view.
func normalizeChatList(raw json.RawMessage) []model.ChatSummary {
	var entries []wireChatSummary

	if err := json.Unmarshal(raw, &entries); err != nil {
		var wrapped struct {
			Chats []wireChatSummary `json:"chats"`
			Data  []wireChatSummary `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return []model.ChatSummary{}
		}
		switch {
		case wrapped.Chats != nil:
			entries = wrapped.Chats
		case wrapped.Data != nil:
			entries = wrapped.Data
		default:
			return []model.ChatSummary{}
		}
	}

	summaries := make([]model.ChatSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, e.toModel())
	}
	return summaries
}

// CreateChat creates an empty persisted chat with the given title and
// returns its summary.
func (c *Client) CreateChat(ctx context.Context, title string) (model.ChatSummary, error) {
	body := map[string]string{"title": title}

	var resp wireChatSummary
	if err := c.doJSON(ctx, http.MethodPost, "/chats", body, &resp, true); err != nil {
		return model.ChatSummary{}, err
	}
	return resp.toModel(), nil
}

// GetChat fetches a chat's full transcript.
func (c *Client) GetChat(ctx context.Context, chatID string) (*model.Conversation, error) {
	var resp wireChatDetail
	if err := c.doJSON(ctx, http.MethodGet, "/chats/"+url.PathEscape(chatID), nil, &resp, true); err != nil {
		return nil, err
	}

	conv := &model.Conversation{
		ID:       chatID,
		Title:    resp.Title,
		Messages: make([]model.Message, 0, len(resp.Messages)),
	}
	if resp.ID != "" {
		conv.ID = resp.ID.String()
	}
	for _, m := range resp.Messages {
		conv.Append(model.Message{
			ID:        m.ID.String(),
			Role:      model.Role(m.Role),
			Content:   m.Content,
			CreatedAt: parseAPITime(m.CreatedAt),
		})
	}
	return conv, nil
}

// DeleteChat removes a chat and its messages.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/chats/"+url.PathEscape(chatID), nil, nil, true)
}

// SendMessage appends a user message to a persisted chat and returns the
// generated assistant reply, carrying the server-issued message ID.
func (c *Client) SendMessage(ctx context.Context, chatID, content string) (AssistantReply, error) {
	body := map[string]string{"content": content}

	var resp assistantReplyResponse
	path := "/chats/" + url.PathEscape(chatID) + "/messages"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp, true); err != nil {
		return AssistantReply{}, err
	}
	return AssistantReply{
		ID:        resp.AssistantMessage.ID.String(),
		Content:   resp.AssistantMessage.Content,
		CreatedAt: parseAPITime(resp.AssistantMessage.CreatedAt),
	}, nil
}

// SendMessageWithFile appends a user message with an attachment to a
// persisted chat. The multipart form carries the message text and the
// file contents.
func (c *Client) SendMessageWithFile(ctx context.Context, chatID, content, filePath string) (AssistantReply, error) {
	if c.token == "" {
		return AssistantReply{}, ErrUnauthenticated
	}

	path := "/chats/" + url.PathEscape(chatID) + "/messages/upload"
	req, err := c.newUploadRequest(ctx, path, content, filePath, nil)
	if err != nil {
		return AssistantReply{}, err
	}
	c.setHeaders(req, true)

	var resp assistantReplyResponse
	if err := c.do(req, &resp, true); err != nil {
		return AssistantReply{}, err
	}
	return AssistantReply{
		ID:        resp.AssistantMessage.ID.String(),
		Content:   resp.AssistantMessage.Content,
		CreatedAt: parseAPITime(resp.AssistantMessage.CreatedAt),
	}, nil
}
