package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

const callerID int64 = 42

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterCustomValidators(); err != nil {
		panic(err)
	}
}

// newRouter authenticates every request as callerID
func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, callerID)
		c.Next()
	})
	return r
}

func serve(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) dto.APIResponse {
	t.Helper()
	var raw struct {
		dto.APIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.APIResponse
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, token string) (*dto.TokenResponse, error) {
	args := m.Called(ctx, token)
	resp, _ := args.Get(0).(*dto.TokenResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, userID int64, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func TestAuthController_Register(t *testing.T) {
	email := gofakeit.Email()
	valid := dto.RegisterRequest{Email: email, Password: "Passw0rd1", FullName: gofakeit.Name()}

	tests := []struct {
		name    string
		body    dto.RegisterRequest
		svcErr  error
		called  bool
		status  int
		errCode dto.ErrorCode
	}{
		{name: "created", body: valid, called: true, status: http.StatusCreated},
		{name: "weak password", body: dto.RegisterRequest{Email: email, Password: "password", FullName: "Ada"}, status: http.StatusBadRequest, errCode: dto.ErrorCodeValidationFailed},
		{name: "blank name", body: dto.RegisterRequest{Email: email, Password: "Passw0rd1", FullName: "   "}, status: http.StatusBadRequest, errCode: dto.ErrorCodeValidationFailed},
		{name: "duplicate email", body: valid, svcErr: apperrors.ErrEmailAlreadyExists, called: true, status: http.StatusConflict, errCode: dto.ErrorCodeResourceAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{}
			if tt.called {
				var resp *dto.AuthResponse
				if tt.svcErr == nil {
					resp = &dto.AuthResponse{}
				}
				svc.On("Register", mock.Anything, mock.MatchedBy(func(r *dto.RegisterRequest) bool {
					return r.Email == tt.body.Email
				})).Return(resp, tt.svcErr).Once()
			}
			r := newRouter()
			r.POST("/auth/register", NewAuthController(svc, zerolog.Nop()).Register)

			w := serve(r, http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w, nil)
			if tt.errCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.errCode, resp.Error.Code)
			} else {
				assert.True(t, resp.Success)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthController_LogoutUsesCaller(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Logout", mock.Anything, callerID, "refresh-1").Return(nil).Once()
	r := newRouter()
	r.POST("/auth/logout", NewAuthController(svc, zerolog.Nop()).Logout)

	w := serve(r, http.MethodPost, "/auth/logout", dto.RefreshTokenRequest{RefreshToken: "refresh-1"})

	assert.Equal(t, http.StatusOK, w.Code)
	var ack dto.SuccessResponse
	decode(t, w, &ack)
	assert.Equal(t, "Logged out successfully", ack.Message)
	svc.AssertExpectations(t)
}

type stubNoteService struct {
	NoteService
	gotFile   *multipart.FileHeader
	gotReq    *dto.CreateNoteRequest
	createErr error
}

func (s *stubNoteService) Create(_ context.Context, _ int64, req *dto.CreateNoteRequest, fh *multipart.FileHeader) (*dto.NoteResponse, error) {
	s.gotReq, s.gotFile = req, fh
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.NoteResponse{ID: 1, Title: req.Title}, nil
}

func (s *stubNoteService) Get(_ context.Context, id, _ int64) (*dto.NoteResponse, error) {
	return nil, apperrors.NewResourceNotFoundError("note not found")
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestNoteController_CreateNote(t *testing.T) {
	t.Run("passes form and file", func(t *testing.T) {
		svc := &stubNoteService{}
		r := newRouter()
		r.POST("/notes", NewNoteController(svc, zerolog.Nop()).CreateNote)

		body, ct := multipartBody(t, map[string]string{"title": "Linear Algebra", "subject": "Math"}, "file", "la.pdf", []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/notes", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, svc.gotFile)
		assert.Equal(t, "la.pdf", svc.gotFile.Filename)
		assert.Equal(t, "Math", svc.gotReq.Subject)
	})

	t.Run("missing file reaches service as nil", func(t *testing.T) {
		svc := &stubNoteService{createErr: apperrors.ErrFileRequired}
		r := newRouter()
		r.POST("/notes", NewNoteController(svc, zerolog.Nop()).CreateNote)

		body, ct := multipartBody(t, map[string]string{"title": "Notes"}, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/notes", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.gotFile)
		resp := decode(t, w, nil)
		assert.Equal(t, dto.ErrorCodeBadRequest, resp.Error.Code)
	})
}

func TestNoteController_GetNoteByID(t *testing.T) {
	r := newRouter()
	r.GET("/notes/:id", NewNoteController(&stubNoteService{}, zerolog.Nop()).GetNoteByID)

	tests := []struct {
		path   string
		status int
	}{
		{"/notes/abc", http.StatusBadRequest},
		{"/notes/0", http.StatusBadRequest},
		{"/notes/9", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusBadRequest {
				resp := decode(t, w, nil)
				assert.Equal(t, "id", resp.Error.Field)
				assert.Equal(t, "Invalid note ID", resp.Error.Message)
			}
		})
	}
}

type stubAnonymousService struct {
	AnonymousService
	votes []int16
}

func (s *stubAnonymousService) Vote(_ context.Context, _, _ int64, value int16) (*dto.VoteResponse, error) {
	s.votes = append(s.votes, value)
	return &dto.VoteResponse{MyVote: value, Upvotes: 0, Downvotes: 1, Score: -1}, nil
}

func TestAnonymousController_Vote(t *testing.T) {
	svc := &stubAnonymousService{}
	r := newRouter()
	r.POST("/anonymous/posts/:id/vote", NewAnonymousController(svc, zerolog.Nop()).Vote)

	for _, body := range []string{`{"value":0}`, `{"value":2}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/anonymous/posts/3/vote", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, svc.votes)

	w := serve(r, http.MethodPost, "/anonymous/posts/3/vote", dto.VoteRequest{Value: -1})
	assert.Equal(t, http.StatusOK, w.Code)
	var vote dto.VoteResponse
	decode(t, w, &vote)
	assert.Equal(t, int16(-1), vote.MyVote)
	assert.Equal(t, []int16{-1}, svc.votes)
}

type stubCommunityService struct {
	CommunityService
	leaveErr error
}

func (s *stubCommunityService) Leave(context.Context, int64, int64) error { return s.leaveErr }

func TestCommunityController_Leave(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{apperrors.ErrOwnerCannotLeave, http.StatusBadRequest},
		{apperrors.ErrNotMember, http.StatusNotFound},
	}
	for _, tt := range tests {
		r := newRouter()
		r.DELETE("/communities/:id/join", NewCommunityController(&stubCommunityService{leaveErr: tt.err}, zerolog.Nop()).LeaveCommunity)
		w := serve(r, http.MethodDelete, "/communities/5/join", nil)
		assert.Equal(t, tt.status, w.Code)
	}
}

type stubMessageService struct {
	MessageService
	threadArgs [2]int64
}

func (s *stubMessageService) Thread(_ context.Context, userID, otherID int64) ([]dto.MessageResponse, error) {
	s.threadArgs = [2]int64{userID, otherID}
	return []dto.MessageResponse{{ID: 1, SenderID: otherID, ReceiverID: userID, Content: "hi"}}, nil
}

func (s *stubMessageService) Send(_ context.Context, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if req.ReceiverID == senderID {
		return nil, apperrors.ErrSelfMessage
	}
	return &dto.MessageResponse{ID: 2, SenderID: senderID, ReceiverID: req.ReceiverID, Content: req.Content}, nil
}

func TestMessageController(t *testing.T) {
	svc := &stubMessageService{}
	ctrl := NewMessageController(svc, zerolog.Nop())
	r := newRouter()
	r.POST("/messages", ctrl.SendMessage)
	r.GET("/messages/with/:userId", ctrl.GetThread)

	t.Run("thread", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/messages/with/7", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var msgs []dto.MessageResponse
		decode(t, w, &msgs)
		require.Len(t, msgs, 1)
		assert.Equal(t, [2]int64{callerID, 7}, svc.threadArgs)
	})

	t.Run("send", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/messages", dto.SendMessageRequest{ReceiverID: 7, Content: "hello"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("send to self", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/messages", dto.SendMessageRequest{ReceiverID: callerID, Content: "me"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank content", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/messages", dto.SendMessageRequest{ReceiverID: 7, Content: "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthController(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		db     Pinger
		redis  Pinger
		status int
		want   dto.HealthResponse
	}{
		{"all up", up, up, http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up", Redis: "up"}},
		{"redis disabled", up, nil, http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up", Redis: "disabled"}},
		{"redis down", up, down, http.StatusOK, dto.HealthResponse{Status: "degraded", Database: "up", Redis: "down"}},
		{"db down", down, nil, http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "down", Redis: "disabled"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(tt.db, tt.redis, zerolog.Nop()).Health)

			w := serve(r, http.MethodGet, "/health", nil)

			assert.Equal(t, tt.status, w.Code)
			var got dto.HealthResponse
			decode(t, w, &got)
			assert.Equal(t, tt.want, got)
		})
	}
}
