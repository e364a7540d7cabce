//go:build integration

package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/testutil"
)

func newTestEvent(t *testing.T, events *EventRepository, ownerID int64, capacity *int32) *models.Event {
	t.Helper()
	ev := &models.Event{
		CreatedBy:    ownerID,
		Title:        "Spring hackathon",
		Description:  "Build something in 24 hours",
		EventType:    "hackathon",
		EventDate:    time.Now().AddDate(0, 1, 0),
		MaxAttendees: capacity,
	}
	require.NoError(t, events.Create(context.Background(), ev))
	return ev
}

func TestIntegration_EventLikeToggle(t *testing.T) {
	pool := testutil.NewPostgres(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, pool, "owner@campus.edu")
	fan := testutil.CreateUser(t, pool, "fan@campus.edu")
	events := NewEventRepository(pool)
	ev := newTestEvent(t, events, owner, nil)

	liked, count, err := events.ToggleLike(ctx, ev.ID, owner)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, count)

	liked, count, err = events.ToggleLike(ctx, ev.ID, fan)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 2, count)

	liked, count, err = events.ToggleLike(ctx, ev.ID, fan)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 1, count)
	assert.EqualValues(t, 1, testutil.CountRows(t, pool, "event_likes", "event_id", ev.ID))

	_, _, err = events.ToggleLike(ctx, ev.ID+1000, fan)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestIntegration_CommentLikeToggle(t *testing.T) {
	pool := testutil.NewPostgres(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, pool, "author@campus.edu")
	reader := testutil.CreateUser(t, pool, "reader@campus.edu")
	board := NewAnonymousRepository(pool)

	post := &models.AnonymousPost{AuthorID: author, Content: "exam week survival tips?"}
	require.NoError(t, board.CreatePost(ctx, post))
	comment := &models.AnonymousComment{PostID: post.ID, AuthorID: reader, Content: "coffee"}
	require.NoError(t, board.CreateComment(ctx, comment))

	for i, want := range []bool{true, false, true} {
		liked, count, err := board.ToggleCommentLike(ctx, comment.ID, reader)
		require.NoError(t, err, "toggle %d", i)
		assert.Equal(t, want, liked, "toggle %d", i)
		wantCount := int64(0)
		if want {
			wantCount = 1
		}
		assert.Equal(t, wantCount, count, "toggle %d", i)
		assert.Equal(t, wantCount, testutil.CountRows(t, pool, "anonymous_comment_likes", "comment_id", comment.ID))
	}
}

func TestIntegration_VoteStates(t *testing.T) {
	pool := testutil.NewPostgres(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, pool, "author@campus.edu")
	voter := testutil.CreateUser(t, pool, "voter@campus.edu")
	other := testutil.CreateUser(t, pool, "other@campus.edu")
	board := NewAnonymousRepository(pool)

	post := &models.AnonymousPost{AuthorID: author, Content: "is the library open on sundays?"}
	require.NoError(t, board.CreatePost(ctx, post))

	_, err := board.Vote(ctx, post.ID, other, models.VoteUp)
	require.NoError(t, err)

	steps := []struct {
		name      string
		value     int16
		myVote    int16
		upvotes   int64
		downvotes int64
	}{
		{"first upvote", models.VoteUp, models.VoteUp, 2, 0},
		{"same value clears", models.VoteUp, models.VoteNone, 1, 0},
		{"downvote after clear", models.VoteDown, models.VoteDown, 1, 1},
		{"switch to upvote", models.VoteUp, models.VoteUp, 2, 0},
		{"clear again", models.VoteUp, models.VoteNone, 1, 0},
	}
	for _, s := range steps {
		tally, err := board.Vote(ctx, post.ID, voter, s.value)
		require.NoError(t, err, s.name)
		assert.Equal(t, s.myVote, tally.MyVote, s.name)
		assert.Equal(t, s.upvotes, tally.Upvotes, s.name)
		assert.Equal(t, s.downvotes, tally.Downvotes, s.name)

		stored, err := board.GetPost(ctx, post.ID, voter)
		require.NoError(t, err, s.name)
		assert.Equal(t, s.myVote, stored.MyVote, s.name)
	}

	// One row per voter, whatever the number of toggles.
	assert.EqualValues(t, 2, testutil.CountRows(t, pool, "anonymous_votes", "post_id", post.ID))

	_, err = board.Vote(ctx, post.ID+1000, voter, models.VoteUp)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestIntegration_RegisterCapacity(t *testing.T) {
	pool := testutil.NewPostgres(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, pool, "owner@campus.edu")
	first := testutil.CreateUser(t, pool, "first@campus.edu")
	second := testutil.CreateUser(t, pool, "second@campus.edu")
	events := NewEventRepository(pool)

	capacity := int32(1)
	ev := newTestEvent(t, events, owner, &capacity)

	require.NoError(t, events.Register(ctx, ev.ID, first))
	assert.ErrorIs(t, events.Register(ctx, ev.ID, first), apperrors.ErrAlreadyRegistered)
	assert.ErrorIs(t, events.Register(ctx, ev.ID, second), apperrors.ErrEventFull)
	assert.EqualValues(t, 1, testutil.CountRows(t, pool, "event_registrations", "event_id", ev.ID))

	require.NoError(t, events.Unregister(ctx, ev.ID, first))
	require.NoError(t, events.Register(ctx, ev.ID, second))
	assert.ErrorIs(t, events.Unregister(ctx, ev.ID, first), apperrors.ErrNotRegistered)

	assert.ErrorIs(t, events.Register(ctx, ev.ID+1000, first), apperrors.ErrResourceNotFound)
}

func TestIntegration_RegisterConcurrentNeverOverfills(t *testing.T) {
	pool := testutil.NewPostgres(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, pool, "owner@campus.edu")
	events := NewEventRepository(pool)

	capacity := int32(3)
	ev := newTestEvent(t, events, owner, &capacity)

	const attendees = 10
	users := make([]int64, attendees)
	for i := range users {
		users[i] = testutil.CreateUser(t, pool, fmt.Sprintf("attendee%d@campus.edu", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, attendees)
	for i, id := range users {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			errs[i] = events.Register(ctx, ev.ID, id)
		}(i, id)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, apperrors.ErrEventFull):
			full++
		}
	}
	assert.Equal(t, int(capacity), ok)
	assert.Equal(t, attendees-int(capacity), full)
	assert.EqualValues(t, capacity, testutil.CountRows(t, pool, "event_registrations", "event_id", ev.ID))
}

func TestIntegration_RecordDownloadCountsOncePerUser(t *testing.T) {
	pool := testutil.NewPostgres(t)
	ctx := context.Background()
	uploader := testutil.CreateUser(t, pool, "uploader@campus.edu")
	reader := testutil.CreateUser(t, pool, "reader@campus.edu")
	notes := NewNoteRepository(pool)

	note := &models.Note{UserID: uploader, Title: "Linear algebra", FileURL: "http://files/la.pdf", FileKey: "la.pdf"}
	require.NoError(t, notes.Create(ctx, note))

	url, count, err := notes.RecordDownload(ctx, note.ID, reader)
	require.NoError(t, err)
	assert.Equal(t, "http://files/la.pdf", url)
	assert.EqualValues(t, 1, count)

	_, count, err = notes.RecordDownload(ctx, note.ID, reader)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "a repeat download is not counted")

	_, count, err = notes.RecordDownload(ctx, note.ID, uploader)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	stored, err := notes.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.DownloadsCount)
	assert.EqualValues(t, 2, testutil.CountRows(t, pool, "notes_downloads", "note_id", note.ID))

	_, _, err = notes.RecordDownload(ctx, note.ID+1000, reader)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
