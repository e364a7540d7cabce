package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/filestorage"
)

// The interfaces below are what the services need from the repositories; the
// *repositories types satisfy them and tests substitute mocks.

// UserStore reads and creates accounts
type UserStore interface {
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// TokenStore persists refresh tokens
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiry time.Time) error
	GetToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RotateToken(ctx context.Context, oldToken, newToken string, userID int64, expiry time.Time) error
}

// ProfileStore persists profiles
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error)
	Ensure(ctx context.Context, userID int64, email string) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	SetPhotoURL(ctx context.Context, userID int64, column, url string) (*string, error)
	Stats(ctx context.Context, userID int64) (*models.ProfileStats, error)
}

// NoteStore persists notes and downloads
type NoteStore interface {
	List(ctx context.Context, f repositories.NoteListFilter) ([]*models.Note, int64, error)
	Stats(ctx context.Context, userID int64, since time.Time) (*repositories.NoteStats, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	View(ctx context.Context, id int64) (*models.Note, error)
	Create(ctx context.Context, n *models.Note) error
	Update(ctx context.Context, n *models.Note) error
	Delete(ctx context.Context, id int64) error
	RecordDownload(ctx context.Context, noteID, userID int64) (string, int64, error)
}

// EventStore persists events, registrations and likes
type EventStore interface {
	List(ctx context.Context, f repositories.EventListFilter) ([]*models.Event, int64, error)
	GetByID(ctx context.Context, id, viewerID int64) (*models.Event, error)
	ListRegisteredBy(ctx context.Context, userID int64) ([]*models.Event, error)
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id int64) error
	Register(ctx context.Context, eventID, userID int64) error
	Unregister(ctx context.Context, eventID, userID int64) error
	RegistrationsCount(ctx context.Context, eventID int64) (int64, error)
	ToggleLike(ctx context.Context, eventID, userID int64) (bool, int64, error)
}

// CommunityStore persists communities and memberships
type CommunityStore interface {
	List(ctx context.Context, viewerID int64, search string) ([]*models.Community, error)
	ListForMember(ctx context.Context, userID int64) ([]*models.Community, error)
	GetByID(ctx context.Context, id, viewerID int64) (*models.Community, error)
	CreateWithOwner(ctx context.Context, c *models.Community) error
	Update(ctx context.Context, c *models.Community) error
	Delete(ctx context.Context, id int64) error
	Join(ctx context.Context, communityID, userID int64) error
	MemberRole(ctx context.Context, communityID, userID int64) (models.MemberRole, error)
	Leave(ctx context.Context, communityID, userID int64) error
	Members(ctx context.Context, communityID int64) ([]*models.CommunityMember, error)
}

// TeamPostStore persists team finder posts
type TeamPostStore interface {
	List(ctx context.Context, f repositories.TeamPostListFilter) ([]*models.TeamFinderPost, error)
	GetByID(ctx context.Context, id int64) (*models.TeamFinderPost, error)
	Create(ctx context.Context, p *models.TeamFinderPost) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*repositories.TeamPostStats, error)
}

// AnonymousStore persists the anonymous board
type AnonymousStore interface {
	ListPosts(ctx context.Context, viewerID int64, sort string, offset, limit uint64) ([]*models.AnonymousPost, int64, error)
	GetPost(ctx context.Context, id, viewerID int64) (*models.AnonymousPost, error)
	CreatePost(ctx context.Context, p *models.AnonymousPost) error
	DeletePost(ctx context.Context, id int64) error
	Vote(ctx context.Context, postID, userID int64, value int16) (*models.VoteTally, error)
	ListComments(ctx context.Context, postID, viewerID int64) ([]*models.AnonymousComment, error)
	GetCommentAuthor(ctx context.Context, commentID int64) (int64, error)
	CreateComment(ctx context.Context, c *models.AnonymousComment) error
	DeleteComment(ctx context.Context, id int64) error
	ToggleCommentLike(ctx context.Context, commentID, userID int64) (bool, int64, error)
}

// MessageStore persists direct messages
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	ListInvolving(ctx context.Context, userID int64) ([]*models.Message, error)
	Thread(ctx context.Context, userID, otherID int64) ([]*models.Message, error)
	Inbox(ctx context.Context, userID int64) ([]*models.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID int64) (int64, error)
	UnreadBySender(ctx context.Context, userID int64) (map[int64]int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// CollegeStore persists the college directory
type CollegeStore interface {
	List(ctx context.Context) ([]*models.College, error)
	GetByID(ctx context.Context, id int64) (*models.College, error)
	Create(ctx context.Context, c *models.College) error
	Delete(ctx context.Context, id int64) error
}

// FileUploader validates and stores multipart uploads
type FileUploader interface {
	Upload(ctx context.Context, bucket, prefix string, fh *multipart.FileHeader) (filestorage.Object, error)
	Storage() filestorage.Storage
}

// UnreadCache caches unread message counts
type UnreadCache interface {
	Get(ctx context.Context, userID int64) (int64, bool, error)
	Set(ctx context.Context, userID, count int64) error
	Invalidate(ctx context.Context, userID int64) error
}
