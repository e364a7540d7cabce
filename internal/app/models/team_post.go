package models

import "time"

// Project types offered by the team finder.
const (
	ProjectTypeHackathon = "hackathon"
	ProjectTypeStartup   = "startup"
	ProjectTypeAcademic  = "academic"
)

// TeamFinderPost advertises a team looking for members
type TeamFinderPost struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	RequiredSkills []string  `db:"required_skills"`
	TeamSize       int32     `db:"team_size"`
	ProjectType    string    `db:"project_type"`
	CreatedAt      time.Time `db:"created_at"`

	OwnerName    string `db:"owner_name"`
	OwnerCollege string `db:"owner_college"`
}
