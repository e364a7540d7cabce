package models

import "time"

// Profile is the public face of a user. The primary key is the user id.
type Profile struct {
	UserID          int64     `json:"id" db:"user_id"`
	Email           string    `json:"email" db:"email"`
	FullName        string    `json:"fullName" db:"full_name"`
	CollegeName     string    `json:"collegeName" db:"college_name"`
	Bio             string    `json:"bio" db:"bio"`
	Location        string    `json:"location" db:"location"`
	Skills          []string  `json:"skills" db:"skills"`
	Interests       []string  `json:"interests" db:"interests"`
	AvatarURL       *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	ProfilePhotoURL *string   `json:"profilePhotoUrl,omitempty" db:"profile_photo_url"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// PhotoURL returns the best picture available for the profile.
func (p *Profile) PhotoURL() *string {
	if p.ProfilePhotoURL != nil && *p.ProfilePhotoURL != "" {
		return p.ProfilePhotoURL
	}
	return p.AvatarURL
}

// ProfileStats counts a user's activity across the boards.
type ProfileStats struct {
	Notes              int64
	TeamPosts          int64
	EventRegistrations int64
	AnonymousPosts     int64
	AnonymousComments  int64
	AnonymousScore     int64
}
