package services

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

func TestAnonymousService_ListSort(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		requested string
		want      string
	}{
		{"", repositories.AnonymousSortNew},
		{"top", repositories.AnonymousSortTop},
		{"bogus", repositories.AnonymousSortNew},
	}
	for _, tt := range tests {
		t.Run("sort="+tt.requested, func(t *testing.T) {
			board := new(MockAnonymousStore)
			svc := NewAnonymousService(board, zerolog.Nop())
			board.On("ListPosts", ctx, int64(1), tt.want, uint64(0), uint64(20)).
				Return([]*models.AnonymousPost{{ID: 1, AuthorID: 1, Upvotes: 3, Downvotes: 1}}, int64(1), nil)

			resp, err := svc.List(ctx, 1, &dto.AnonymousFilterRequest{Sort: tt.requested})
			require.NoError(t, err)
			require.Len(t, resp.Posts, 1)
			assert.Equal(t, int64(2), resp.Posts[0].Score)
			assert.True(t, resp.Posts[0].IsMine)
		})
	}
}

func TestAnonymousService_CreateNormalizesTags(t *testing.T) {
	ctx := context.Background()
	board := new(MockAnonymousStore)
	svc := NewAnonymousService(board, zerolog.Nop())
	content := gofakeit.Sentence(8)

	board.On("CreatePost", ctx, mock.MatchedBy(func(p *models.AnonymousPost) bool {
		return p.AuthorID == 3 && p.Content == content && assert.ObjectsAreEqual([]string{"exams", "stress"}, p.Tags)
	})).Run(func(args mock.Arguments) { args.Get(1).(*models.AnonymousPost).ID = 8 }).Return(nil)

	resp, err := svc.Create(ctx, 3, &dto.CreateAnonymousPostRequest{Content: content, Tags: []string{"exams", " stress ", "Exams"}})
	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.ID)

	_, err = svc.Create(ctx, 3, &dto.CreateAnonymousPostRequest{Content: "\t"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAnonymousService_Vote(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects zero", func(t *testing.T) {
		board := new(MockAnonymousStore)
		svc := NewAnonymousService(board, zerolog.Nop())
		_, err := svc.Vote(ctx, 1, 2, 0)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		board.AssertNotCalled(t, "Vote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repeat vote clears it", func(t *testing.T) {
		board := new(MockAnonymousStore)
		svc := NewAnonymousService(board, zerolog.Nop())
		board.On("Vote", ctx, int64(1), int64(2), models.VoteUp).Return(&models.VoteTally{MyVote: models.VoteUp, Upvotes: 4, Downvotes: 1}, nil).Once()
		board.On("Vote", ctx, int64(1), int64(2), models.VoteUp).Return(&models.VoteTally{MyVote: models.VoteNone, Upvotes: 3, Downvotes: 1}, nil).Once()

		first, err := svc.Vote(ctx, 1, 2, models.VoteUp)
		require.NoError(t, err)
		assert.Equal(t, dto.VoteResponse{MyVote: 1, Upvotes: 4, Downvotes: 1, Score: 3}, *first)

		second, err := svc.Vote(ctx, 1, 2, models.VoteUp)
		require.NoError(t, err)
		assert.Equal(t, dto.VoteResponse{MyVote: 0, Upvotes: 3, Downvotes: 1, Score: 2}, *second)
	})
}

func TestAnonymousService_AuthorOnlyDeletes(t *testing.T) {
	ctx := context.Background()
	board := new(MockAnonymousStore)
	svc := NewAnonymousService(board, zerolog.Nop())

	board.On("GetPost", ctx, int64(1), int64(9)).Return(&models.AnonymousPost{ID: 1, AuthorID: 2}, nil)
	assert.ErrorIs(t, svc.Delete(ctx, 1, 9), apperrors.ErrPermissionDenied)

	board.On("GetCommentAuthor", ctx, int64(5)).Return(int64(2), nil)
	assert.ErrorIs(t, svc.DeleteComment(ctx, 5, 9), apperrors.ErrPermissionDenied)

	board.On("DeleteComment", ctx, int64(5)).Return(nil)
	require.NoError(t, svc.DeleteComment(ctx, 5, 2))

	board.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
	board.AssertNumberOfCalls(t, "DeleteComment", 1)
}

func TestAnonymousService_Comments(t *testing.T) {
	ctx := context.Background()
	board := new(MockAnonymousStore)
	svc := NewAnonymousService(board, zerolog.Nop())

	board.On("GetPost", ctx, int64(404), int64(1)).Return(nil, apperrors.NewResourceNotFoundError("post not found"))
	_, err := svc.Comments(ctx, 404, 1)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	board.On("GetPost", ctx, int64(1), int64(1)).Return(&models.AnonymousPost{ID: 1}, nil)
	board.On("ListComments", ctx, int64(1), int64(1)).Return([]*models.AnonymousComment{
		{ID: 1, PostID: 1, AuthorID: 1, LikesCount: 2, IsLiked: true},
		{ID: 2, PostID: 1, AuthorID: 7},
	}, nil)

	comments, err := svc.Comments(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.True(t, comments[0].IsMine)
	assert.True(t, comments[0].IsLiked)
	assert.False(t, comments[1].IsMine)
}

func TestAnonymousService_ToggleCommentLike(t *testing.T) {
	ctx := context.Background()
	board := new(MockAnonymousStore)
	svc := NewAnonymousService(board, zerolog.Nop())
	board.On("ToggleCommentLike", ctx, int64(3), int64(1)).Return(true, int64(1), nil)

	resp, err := svc.ToggleCommentLike(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, dto.ToggleResponse{Liked: true, LikesCount: 1}, *resp)
}
