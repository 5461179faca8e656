package models

import "time"

// Room kinds.
const (
	RoomDirect = "direct"
	RoomGroup  = "group"
)

// ChatUser is the short user card used in chat.
type ChatUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

type LastMessage struct {
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatRoom struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	RoomType    string       `json:"room_type"`
	Members     []ChatUser   `json:"members"`
	Patient     *int64       `json:"patient"`
	CreatedBy   *int64       `json:"created_by"`
	LastMessage *LastMessage `json:"last_message"`
	UnreadCount int          `json:"unread_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewRoom is the room creation body.
type NewRoom struct {
	Name      string  `json:"name"`
	RoomType  string  `json:"room_type,omitempty"`
	MemberIDs []int64 `json:"member_ids"`
	Patient   *int64  `json:"patient,omitempty"`
}

type Message struct {
	ID            string    `json:"id"`
	Room          string    `json:"room"`
	Sender        ChatUser  `json:"sender"`
	Content       string    `json:"content"`
	AttachmentURL string    `json:"attachment_url"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type UnreadCount struct {
	UnreadCount int `json:"unread_count"`
}
