package chat

import "time"

// Message is a single entry in a conversation, as sent by the frontend: the
// proxy only cares about role and content, while persisted chats keep the
// full record
type Message struct {
	Id        string     `json:"id,omitempty"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Request is the body of a POST to the chat proxy
type Request struct {
	Messages []Message `json:"messages"`
}

// Record is a persisted conversation, owned by the user who saved it
type Record struct {
	Id       string    `json:"id"`
	UserId   string    `json:"userId"`
	Title    string    `json:"title,omitempty"`
	Messages []Message `json:"messages"`
}
