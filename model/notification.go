package model

import "time"

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationFeed is the per-user listing split by read state.
type NotificationFeed struct {
	ReadNotifications   []Notification `json:"read_notifications"`
	UnreadNotifications []Notification `json:"unread_notifications"`
	AllCount            int            `json:"all_notifications_count"`
	ReadCount           int            `json:"read_notifications_count"`
	UnreadCount         int            `json:"unread_notifications_count"`
}
