package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/medml/medcli/internal/client/models"
)

func roomPath(id string, suffix string) string {
	return "/api/v1/chat/rooms/" + url.PathEscape(id) + "/" + suffix
}

// ListChatUsers lists the users one can open a room with.
func (c *Client) ListChatUsers(ctx context.Context, q models.PageQuery) (*models.Page[models.ChatUser], error) {
	var out models.Page[models.ChatUser]
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/chat/users/", Query: q.Params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListRooms(ctx context.Context, q models.PageQuery) (*models.Page[models.ChatRoom], error) {
	var out models.Page[models.ChatRoom]
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/chat/rooms/", Query: q.Params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRoom(ctx context.Context, id string) (*models.ChatRoom, error) {
	var out models.ChatRoom
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: roomPath(id, "")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRoom(ctx context.Context, room models.NewRoom) (*models.ChatRoom, error) {
	var out models.ChatRoom
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/chat/rooms/", Body: JSONBody{Value: room}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMessages(ctx context.Context, roomID string, q models.PageQuery) (*models.Page[models.Message], error) {
	var out models.Page[models.Message]
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: roomPath(roomID, "messages/"), Query: q.Params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendMessage(ctx context.Context, roomID, content string) (*models.Message, error) {
	var out models.Message
	body := JSONBody{Value: map[string]string{"content": content}}
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: roomPath(roomID, "messages/"), Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkRead marks the given messages of a room as read by the caller.
func (c *Client) MarkRead(ctx context.Context, roomID string, messageIDs []string) error {
	if messageIDs == nil {
		messageIDs = []string{}
	}
	body := JSONBody{Value: map[string][]string{"message_ids": messageIDs}}
	return c.Do(ctx, Request{Method: http.MethodPost, Path: roomPath(roomID, "read/"), Body: body}, nil)
}

// UnreadCount returns the number of unread messages across all rooms.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out models.UnreadCount
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/chat/unread-count/"}, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}
