package models

import "time"

// Note is a shared study file
type Note struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	Title          string    `db:"title"`
	Subject        string    `db:"subject"`
	Description    string    `db:"description"`
	FileURL        string    `db:"file_url"`
	FileKey        string    `db:"file_key"`
	ViewsCount     int64     `db:"views_count"`
	DownloadsCount int64     `db:"downloads_count"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`

	// Joined from profiles
	UploaderName  string  `db:"uploader_name"`
	UploaderPhoto *string `db:"uploader_photo"`
}
