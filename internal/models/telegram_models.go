package models

import "time"

// Post is a channel message together with its discussion thread.
type Post struct {
	ID           int       `json:"id"`
	Date         time.Time `json:"date"`
	Text         string    `json:"text"`
	Views        int       `json:"views"`
	Forwards     int       `json:"forwards"`
	Replies      int       `json:"replies"`
	Channel      string    `json:"channel"`
	ChannelTitle string    `json:"channel_title"`
	Comments     []Comment `json:"comments"`
}

type Comment struct {
	ID      int       `json:"id"`
	Date    time.Time `json:"date"`
	Text    string    `json:"text"`
	UserID  int64     `json:"user_id,omitempty"`
	ReplyTo int       `json:"reply_to,omitempty"`
}
