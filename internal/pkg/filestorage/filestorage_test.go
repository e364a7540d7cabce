package filestorage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

// smallest valid PNG header DetectContentType recognises
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestGenerateKey(t *testing.T) {
	now := time.UnixMilli(1714000000123)

	key := GenerateKey("42", "Lecture Notes.PDF", now)
	assert.Regexp(t, regexp.MustCompile(`^42/1714000000123-[0-9a-f]{8}\.pdf$`), key)

	key = GenerateKey("", "cover.JPG", now)
	assert.Regexp(t, regexp.MustCompile(`^1714000000123-[0-9a-f]{8}\.jpg$`), key)

	key = GenerateKey("/7/", "README", now)
	assert.Regexp(t, regexp.MustCompile(`^7/1714000000123-[0-9a-f]{8}$`), key)

	assert.NotEqual(t, GenerateKey("", "a.png", now), GenerateKey("", "a.png", now))
}

func TestValidKey(t *testing.T) {
	assert.True(t, validKey("1/abc.pdf"))
	assert.False(t, validKey(""))
	assert.False(t, validKey("/abs"))
	assert.False(t, validKey("../escape"))
	assert.False(t, validKey("a//b"))
}

func TestLocalStorage_PutServeDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	ls, err := NewLocalStorage(dir, "http://api.test/")
	require.NoError(t, err)

	ctx := context.Background()
	obj, err := ls.Put(ctx, models.BucketNotesFiles, "1/notes.txt", "text/plain", strings.NewReader("hello notes"), 11)
	require.NoError(t, err)
	assert.Equal(t, "http://api.test/uploads/notes-files/1/notes.txt", obj.URL)

	// The URL must resolve to the uploaded content through the static route.
	r := gin.New()
	r.Static("/uploads", ls.BasePath())
	path := strings.TrimPrefix(obj.URL, "http://api.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello notes", w.Body.String())

	require.NoError(t, ls.Delete(ctx, models.BucketNotesFiles, "1/notes.txt"))
	// deleting twice is fine
	require.NoError(t, ls.Delete(ctx, models.BucketNotesFiles, "1/notes.txt"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = ls.Put(context.Background(), models.BucketAvatars, "../../etc/passwd", "text/plain", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

type recordingStorage struct {
	puts []Object
	body []byte
	ct   string
}

func (s *recordingStorage) Put(_ context.Context, bucket, key, contentType string, body io.Reader, _ int64) (Object, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return Object{}, err
	}
	s.body, s.ct = b, contentType
	obj := Object{Bucket: bucket, Key: key, URL: s.URL(bucket, key)}
	s.puts = append(s.puts, obj)
	return obj, nil
}

func (s *recordingStorage) Delete(context.Context, string, string) error { return nil }

func (s *recordingStorage) URL(bucket, key string) string { return "mem://" + bucket + "/" + key }

func TestUploader_ImageBucketsRequireImages(t *testing.T) {
	store := &recordingStorage{}
	up := NewUploader(store, 1)

	_, err := up.put(context.Background(), models.BucketAvatars, "", "me.png", strings.NewReader("plain text, not an image"), 24)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)
	assert.Empty(t, store.puts)

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1000)...)
	obj, err := up.put(context.Background(), models.BucketAvatars, "", "me.PNG", bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", store.ct)
	assert.Equal(t, content, store.body)
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
}

func TestUploader_NotesAcceptAnyType(t *testing.T) {
	store := &recordingStorage{}
	up := NewUploader(store, 1)

	obj, err := up.put(context.Background(), models.BucketNotesFiles, "9", "summary.txt", strings.NewReader("chapter one"), 11)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "9/"))
	assert.Equal(t, "chapter one", string(store.body))
}

func TestUploader_SizeAndPresence(t *testing.T) {
	up := NewUploader(&recordingStorage{}, 1)

	_, err := up.Upload(context.Background(), models.BucketNotesFiles, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrFileRequired)

	_, err = up.Upload(context.Background(), models.BucketNotesFiles, "", &multipart.FileHeader{Filename: "big.pdf", Size: 2 << 20})
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	_, err = up.put(context.Background(), models.BucketNotesFiles, "", "empty.txt", strings.NewReader(""), 0)
	assert.ErrorIs(t, err, apperrors.ErrFileRequired)
}

func TestS3Storage_URL(t *testing.T) {
	s := &S3Storage{cfg: S3Config{Region: "eu-west-1", Buckets: map[string]string{models.BucketAvatars: "cc-avatars"}}}
	assert.Equal(t, "https://cc-avatars.s3.eu-west-1.amazonaws.com/a.png", s.URL(models.BucketAvatars, "a.png"))
	assert.Equal(t, "https://notes-files.s3.eu-west-1.amazonaws.com/1/n.pdf", s.URL(models.BucketNotesFiles, "1/n.pdf"))

	s.cfg.PublicBaseURL = "http://minio.local:9000/"
	assert.Equal(t, "http://minio.local:9000/cc-avatars/a.png", s.URL(models.BucketAvatars, "a.png"))
}

func TestKeyFromURL(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://api.test")
	require.NoError(t, err)

	key, ok := KeyFromURL(ls, models.BucketAvatars, ls.URL(models.BucketAvatars, "7/1-abc.png"))
	assert.True(t, ok)
	assert.Equal(t, "7/1-abc.png", key)

	_, ok = KeyFromURL(ls, models.BucketAvatars, "https://elsewhere.example/x.png")
	assert.False(t, ok)

	_, ok = KeyFromURL(ls, models.BucketAvatars, ls.URL(models.BucketProfilePhotos, "1.png"))
	assert.False(t, ok)
}
