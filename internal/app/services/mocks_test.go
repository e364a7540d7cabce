package services

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/auth"
	"github.com/yigit/campusconnect/internal/pkg/email"
	"github.com/yigit/campusconnect/internal/pkg/eventbus"
	"github.com/yigit/campusconnect/internal/pkg/filestorage"
)

type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) (int64, error) {
	args := m.Called(ctx, user, profile)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockTokenStore struct{ mock.Mock }

func (m *MockTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiry time.Time) error {
	return m.Called(ctx, token, userID, expiry).Error(0)
}

func (m *MockTokenStore) GetToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockTokenStore) RevokeToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenStore) RotateToken(ctx context.Context, oldToken, newToken string, userID int64, expiry time.Time) error {
	return m.Called(ctx, oldToken, newToken, userID, expiry).Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) GenerateTokenPair(userID int64, email string) (*auth.TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) GetRefreshTokenExpiry() time.Time {
	return m.Called().Get(0).(time.Time)
}

type MockProfileStore struct{ mock.Mock }

func (m *MockProfileStore) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileStore) GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*models.Profile), args.Error(1)
}

func (m *MockProfileStore) Ensure(ctx context.Context, userID int64, email string) (*models.Profile, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileStore) Update(ctx context.Context, p *models.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileStore) SetPhotoURL(ctx context.Context, userID int64, column, url string) (*string, error) {
	args := m.Called(ctx, userID, column, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockProfileStore) Stats(ctx context.Context, userID int64) (*models.ProfileStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileStats), args.Error(1)
}

type MockNoteStore struct{ mock.Mock }

func (m *MockNoteStore) List(ctx context.Context, f repositories.NoteListFilter) ([]*models.Note, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*models.Note), args.Get(1).(int64), args.Error(2)
}

func (m *MockNoteStore) Stats(ctx context.Context, userID int64, since time.Time) (*repositories.NoteStats, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.NoteStats), args.Error(1)
}

func (m *MockNoteStore) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteStore) View(ctx context.Context, id int64) (*models.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteStore) Create(ctx context.Context, n *models.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteStore) Update(ctx context.Context, n *models.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNoteStore) RecordDownload(ctx context.Context, noteID, userID int64) (string, int64, error) {
	args := m.Called(ctx, noteID, userID)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

type MockEventStore struct{ mock.Mock }

func (m *MockEventStore) List(ctx context.Context, f repositories.EventListFilter) ([]*models.Event, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*models.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventStore) GetByID(ctx context.Context, id, viewerID int64) (*models.Event, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventStore) ListRegisteredBy(ctx context.Context, userID int64) ([]*models.Event, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventStore) Create(ctx context.Context, e *models.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventStore) Update(ctx context.Context, e *models.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEventStore) Register(ctx context.Context, eventID, userID int64) error {
	return m.Called(ctx, eventID, userID).Error(0)
}

func (m *MockEventStore) Unregister(ctx context.Context, eventID, userID int64) error {
	return m.Called(ctx, eventID, userID).Error(0)
}

func (m *MockEventStore) RegistrationsCount(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventStore) ToggleLike(ctx context.Context, eventID, userID int64) (bool, int64, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

type MockCommunityStore struct{ mock.Mock }

func (m *MockCommunityStore) List(ctx context.Context, viewerID int64, search string) ([]*models.Community, error) {
	args := m.Called(ctx, viewerID, search)
	return args.Get(0).([]*models.Community), args.Error(1)
}

func (m *MockCommunityStore) ListForMember(ctx context.Context, userID int64) ([]*models.Community, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Community), args.Error(1)
}

func (m *MockCommunityStore) GetByID(ctx context.Context, id, viewerID int64) (*models.Community, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityStore) CreateWithOwner(ctx context.Context, c *models.Community) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommunityStore) Update(ctx context.Context, c *models.Community) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommunityStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCommunityStore) Join(ctx context.Context, communityID, userID int64) error {
	return m.Called(ctx, communityID, userID).Error(0)
}

func (m *MockCommunityStore) MemberRole(ctx context.Context, communityID, userID int64) (models.MemberRole, error) {
	args := m.Called(ctx, communityID, userID)
	return args.Get(0).(models.MemberRole), args.Error(1)
}

func (m *MockCommunityStore) Leave(ctx context.Context, communityID, userID int64) error {
	return m.Called(ctx, communityID, userID).Error(0)
}

func (m *MockCommunityStore) Members(ctx context.Context, communityID int64) ([]*models.CommunityMember, error) {
	args := m.Called(ctx, communityID)
	return args.Get(0).([]*models.CommunityMember), args.Error(1)
}

type MockTeamPostStore struct{ mock.Mock }

func (m *MockTeamPostStore) List(ctx context.Context, f repositories.TeamPostListFilter) ([]*models.TeamFinderPost, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*models.TeamFinderPost), args.Error(1)
}

func (m *MockTeamPostStore) GetByID(ctx context.Context, id int64) (*models.TeamFinderPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamFinderPost), args.Error(1)
}

func (m *MockTeamPostStore) Create(ctx context.Context, p *models.TeamFinderPost) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockTeamPostStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTeamPostStore) Stats(ctx context.Context) (*repositories.TeamPostStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.TeamPostStats), args.Error(1)
}

type MockAnonymousStore struct{ mock.Mock }

func (m *MockAnonymousStore) ListPosts(ctx context.Context, viewerID int64, sort string, offset, limit uint64) ([]*models.AnonymousPost, int64, error) {
	args := m.Called(ctx, viewerID, sort, offset, limit)
	return args.Get(0).([]*models.AnonymousPost), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnonymousStore) GetPost(ctx context.Context, id, viewerID int64) (*models.AnonymousPost, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnonymousPost), args.Error(1)
}

func (m *MockAnonymousStore) CreatePost(ctx context.Context, p *models.AnonymousPost) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockAnonymousStore) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAnonymousStore) Vote(ctx context.Context, postID, userID int64, value int16) (*models.VoteTally, error) {
	args := m.Called(ctx, postID, userID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteTally), args.Error(1)
}

func (m *MockAnonymousStore) ListComments(ctx context.Context, postID, viewerID int64) ([]*models.AnonymousComment, error) {
	args := m.Called(ctx, postID, viewerID)
	return args.Get(0).([]*models.AnonymousComment), args.Error(1)
}

func (m *MockAnonymousStore) GetCommentAuthor(ctx context.Context, commentID int64) (int64, error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnonymousStore) CreateComment(ctx context.Context, c *models.AnonymousComment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockAnonymousStore) DeleteComment(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAnonymousStore) ToggleCommentLike(ctx context.Context, commentID, userID int64) (bool, int64, error) {
	args := m.Called(ctx, commentID, userID)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

type MockMessageStore struct{ mock.Mock }

func (m *MockMessageStore) Create(ctx context.Context, msg *models.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMessageStore) ListInvolving(ctx context.Context, userID int64) ([]*models.Message, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageStore) Thread(ctx context.Context, userID, otherID int64) ([]*models.Message, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageStore) Inbox(ctx context.Context, userID int64) ([]*models.Message, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageStore) MarkRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	args := m.Called(ctx, receiverID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageStore) UnreadBySender(ctx context.Context, userID int64) (map[int64]int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *MockMessageStore) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCollegeStore struct{ mock.Mock }

func (m *MockCollegeStore) List(ctx context.Context) ([]*models.College, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.College), args.Error(1)
}

func (m *MockCollegeStore) GetByID(ctx context.Context, id int64) (*models.College, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.College), args.Error(1)
}

func (m *MockCollegeStore) Create(ctx context.Context, c *models.College) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCollegeStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Put(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) (filestorage.Object, error) {
	args := m.Called(ctx, bucket, key, contentType, body, size)
	return args.Get(0).(filestorage.Object), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, bucket, key string) error {
	return m.Called(ctx, bucket, key).Error(0)
}

func (m *MockStorage) URL(bucket, key string) string {
	return "https://files.test/" + bucket + "/" + key
}

type MockUploader struct {
	mock.Mock
	storage *MockStorage
}

func newMockUploader() *MockUploader {
	return &MockUploader{storage: new(MockStorage)}
}

func (m *MockUploader) Upload(ctx context.Context, bucket, prefix string, fh *multipart.FileHeader) (filestorage.Object, error) {
	args := m.Called(ctx, bucket, prefix, fh)
	return args.Get(0).(filestorage.Object), args.Error(1)
}

func (m *MockUploader) Storage() filestorage.Storage {
	return m.storage
}

type MockUnreadCache struct{ mock.Mock }

func (m *MockUnreadCache) Get(ctx context.Context, userID int64) (int64, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockUnreadCache) Set(ctx context.Context, userID, count int64) error {
	return m.Called(ctx, userID, count).Error(0)
}

func (m *MockUnreadCache) Invalidate(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, ev eventbus.Event) error {
	return m.Called(ctx, ev).Error(0)
}

type MockMessageSender struct{ mock.Mock }

func (m *MockMessageSender) Send(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	args := m.Called(ctx, senderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyTeamRequest(ctx context.Context, req email.TeamRequest) error {
	return m.Called(ctx, req).Error(0)
}

func objectFor(bucket, key string) filestorage.Object {
	return filestorage.Object{Bucket: bucket, Key: key, URL: "https://files.test/" + bucket + "/" + key}
}
