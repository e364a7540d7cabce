package models

import "time"

// MemberRole is a user's role inside a community
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// Community is a user-created group
type Community struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedBy   int64     `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`

	MemberCount int64 `db:"member_count"`
	IsMember    bool  `db:"is_member"`
}

// CommunityMember joins a user to a community
type CommunityMember struct {
	CommunityID int64      `db:"community_id"`
	UserID      int64      `db:"user_id"`
	Role        MemberRole `db:"role"`
	JoinedAt    time.Time  `db:"joined_at"`

	FullName  string  `db:"full_name"`
	AvatarURL *string `db:"avatar_url"`
}
