package models

import "time"

// Event is a campus event listing
type Event struct {
	ID           int64     `db:"id"`
	CreatedBy    int64     `db:"created_by"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	EventType    string    `db:"event_type"`
	EventDate    time.Time `db:"event_date"`
	EventTime    string    `db:"event_time"`
	Location     string    `db:"location"`
	Venue        string    `db:"venue"`
	Website      string    `db:"website"`
	MaxAttendees *int32    `db:"max_attendees"`
	Tags         []string  `db:"tags"`
	CoverURL     string    `db:"cover_url"`
	CoverKey     string    `db:"cover_key"`
	IsFeatured   bool      `db:"is_featured"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	// Aggregates computed per request
	RegistrationsCount int64  `db:"registrations_count"`
	LikesCount         int64  `db:"likes_count"`
	IsRegistered       bool   `db:"is_registered"`
	IsLiked            bool   `db:"is_liked"`
	OrganizerName      string `db:"organizer_name"`
}

// EventDateLayout is the wire format of event dates.
const EventDateLayout = "2006-01-02"
