// Package models holds the row types stored in PostgreSQL.
package models

// Bucket names for uploaded objects.
const (
	BucketProfilePhotos = "profile-photos"
	BucketAvatars       = "avatars"
	BucketNotesFiles    = "notes-files"
	BucketEventCovers   = "event-covers"
)

// ImageBuckets only accept image uploads.
var ImageBuckets = map[string]bool{
	BucketProfilePhotos: true,
	BucketAvatars:       true,
	BucketEventCovers:   true,
}
