package models

import "time"

// Message is a direct message between two users
type Message struct {
	ID            int64     `db:"id"`
	SenderID      int64     `db:"sender_id"`
	ReceiverID    int64     `db:"receiver_id"`
	RelatedPostID *int64    `db:"related_post_id"`
	Content       string    `db:"content"`
	Read          bool      `db:"read"`
	CreatedAt     time.Time `db:"created_at"`

	// Joined for inbox views
	SenderName       string  `db:"sender_name"`
	RelatedPostTitle *string `db:"related_post_title"`
}

// Counterpart returns the other participant from userID's point of view.
func (m *Message) Counterpart(userID int64) int64 {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}
