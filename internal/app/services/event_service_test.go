package services

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

func newEventFixture() (*EventService, *MockEventStore, *MockUploader) {
	events, uploader := new(MockEventStore), newMockUploader()
	svc := NewEventService(events, uploader, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 15, 30, 0, 0, time.UTC) }
	return svc, events, uploader
}

func TestEventService_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	svc, events, _ := newEventFixture()

	events.On("List", ctx, mock.MatchedBy(func(f repositories.EventListFilter) bool {
		return f.UpcomingFrom != nil &&
			f.UpcomingFrom.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)) &&
			f.Type == "workshop" && f.Limit == 20 && f.Offset == 0
	})).Return([]*models.Event{{ID: 1, CreatedBy: 2, EventDate: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)}}, int64(1), nil)

	resp, err := svc.List(ctx, 2, &dto.EventFilterRequest{Type: "workshop", Upcoming: true})
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "2025-05-02", resp.Events[0].Date)
	assert.True(t, resp.Events[0].IsMine)
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	cover := &multipart.FileHeader{Filename: "cover.png", Size: 100}
	req := &dto.CreateEventRequest{
		Title: "Spring Hackathon", Description: "48h", EventType: "hackathon",
		Date: "2025-05-10", Tags: "ai, web ,AI,,mobile",
	}

	t.Run("stores event with parsed date and tags", func(t *testing.T) {
		svc, events, uploader := newEventFixture()
		obj := objectFor(models.BucketEventCovers, "1700-abc.png")
		uploader.On("Upload", ctx, models.BucketEventCovers, "", cover).Return(obj, nil)
		events.On("Create", ctx, mock.MatchedBy(func(e *models.Event) bool {
			return e.EventDate.Equal(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)) &&
				assert.ObjectsAreEqual([]string{"ai", "web", "mobile"}, e.Tags) &&
				e.CoverKey == obj.Key
		})).Run(func(args mock.Arguments) { args.Get(1).(*models.Event).ID = 12 }).Return(nil)
		events.On("GetByID", ctx, int64(12), int64(4)).Return(&models.Event{ID: 12, CreatedBy: 4, Title: "Spring Hackathon"}, nil)

		resp, err := svc.Create(ctx, 4, req, cover)
		require.NoError(t, err)
		assert.Equal(t, int64(12), resp.ID)
	})

	t.Run("cover is required", func(t *testing.T) {
		svc, _, uploader := newEventFixture()
		_, err := svc.Create(ctx, 4, req, nil)
		assert.ErrorIs(t, err, apperrors.ErrFileRequired)
		uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad date", func(t *testing.T) {
		svc, _, _ := newEventFixture()
		bad := *req
		bad.Date = "10/05/2025"
		_, err := svc.Create(ctx, 4, &bad, cover)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestEventService_Registration(t *testing.T) {
	ctx := context.Background()

	t.Run("register returns new count", func(t *testing.T) {
		svc, events, _ := newEventFixture()
		events.On("Register", ctx, int64(3), int64(9)).Return(nil)
		events.On("RegistrationsCount", ctx, int64(3)).Return(int64(43), nil)

		resp, err := svc.Register(ctx, 3, 9)
		require.NoError(t, err)
		assert.Equal(t, dto.RegistrationResponse{Registered: true, RegistrationsCount: 43}, *resp)
	})

	for _, sentinel := range []error{apperrors.ErrAlreadyRegistered, apperrors.ErrEventFull} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			svc, events, _ := newEventFixture()
			events.On("Register", ctx, int64(3), int64(9)).Return(sentinel)

			_, err := svc.Register(ctx, 3, 9)
			assert.ErrorIs(t, err, sentinel)
		})
	}

	t.Run("unregister when not registered", func(t *testing.T) {
		svc, events, _ := newEventFixture()
		events.On("Unregister", ctx, int64(3), int64(9)).Return(apperrors.ErrNotRegistered)

		_, err := svc.Unregister(ctx, 3, 9)
		assert.ErrorIs(t, err, apperrors.ErrNotRegistered)
	})
}

func TestEventService_ToggleLikeTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	svc, events, _ := newEventFixture()
	events.On("ToggleLike", ctx, int64(1), int64(2)).Return(true, int64(5), nil).Once()
	events.On("ToggleLike", ctx, int64(1), int64(2)).Return(false, int64(4), nil).Once()

	first, err := svc.ToggleLike(ctx, 1, 2)
	require.NoError(t, err)
	second, err := svc.ToggleLike(ctx, 1, 2)
	require.NoError(t, err)

	assert.True(t, first.Liked)
	assert.False(t, second.Liked)
	assert.Equal(t, first.LikesCount-1, second.LikesCount)
}

func TestEventService_DeleteOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, events, uploader := newEventFixture()
	events.On("GetByID", ctx, int64(1), mock.Anything).Return(&models.Event{ID: 1, CreatedBy: 2, CoverKey: "c.png"}, nil)

	err := svc.Delete(ctx, 1, 3)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	events.On("Delete", ctx, int64(1)).Return(nil)
	uploader.storage.On("Delete", ctx, models.BucketEventCovers, "c.png").Return(nil)
	require.NoError(t, svc.Delete(ctx, 1, 2))
	events.AssertExpectations(t)
}

func TestEventService_UpdateCapacityFloor(t *testing.T) {
	ctx := context.Background()
	capacity := func(n int32) *int32 { return &n }
	request := func(max *int32) *dto.UpdateEventRequest {
		return &dto.UpdateEventRequest{
			Title:        "Spring Hackathon",
			Description:  "24 hours of building",
			EventType:    "hackathon",
			Date:         "2025-06-01",
			Tags:         []string{"AI", "ai", "web"},
			MaxAttendees: max,
		}
	}

	t.Run("below registrations", func(t *testing.T) {
		svc, events, _ := newEventFixture()
		events.On("GetByID", ctx, int64(3), int64(2)).Return(&models.Event{ID: 3, CreatedBy: 2, MaxAttendees: capacity(50)}, nil)
		events.On("RegistrationsCount", ctx, int64(3)).Return(int64(12), nil)

		_, err := svc.Update(ctx, 3, 2, request(capacity(11)))
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Contains(t, apperrors.UserMessage(err, ""), "12 registrations")
		events.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("equal to registrations", func(t *testing.T) {
		svc, events, _ := newEventFixture()
		events.On("GetByID", ctx, int64(3), int64(2)).Return(&models.Event{ID: 3, CreatedBy: 2, MaxAttendees: capacity(50)}, nil)
		events.On("RegistrationsCount", ctx, int64(3)).Return(int64(12), nil)
		events.On("Update", ctx, mock.MatchedBy(func(e *models.Event) bool {
			return *e.MaxAttendees == 12 &&
				e.EventDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) &&
				assert.ObjectsAreEqual([]string{"AI", "web"}, e.Tags)
		})).Return(nil)

		_, err := svc.Update(ctx, 3, 2, request(capacity(12)))
		require.NoError(t, err)
		events.AssertExpectations(t)
	})

	t.Run("unlimited skips the count", func(t *testing.T) {
		svc, events, _ := newEventFixture()
		events.On("GetByID", ctx, int64(3), int64(2)).Return(&models.Event{ID: 3, CreatedBy: 2, MaxAttendees: capacity(50)}, nil)
		events.On("Update", ctx, mock.MatchedBy(func(e *models.Event) bool { return e.MaxAttendees == nil })).Return(nil)

		_, err := svc.Update(ctx, 3, 2, request(nil))
		require.NoError(t, err)
		events.AssertNotCalled(t, "RegistrationsCount", mock.Anything, mock.Anything)
	})
}
