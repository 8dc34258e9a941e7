package session

import "time"

// ChatMessage is one entry of the append-only session chat. The author name
// is a snapshot taken at send time.
type ChatMessage struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
