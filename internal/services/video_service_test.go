package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibro/internal/models"
)

type fakeVideoRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.Video
	likes  map[string]map[int]bool
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{byID: map[string]*models.Video{}, likes: map[string]map[int]bool{}}
}

func (r *fakeVideoRepo) Create(v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.CreatedAt = time.Now()
	cp := *v
	r.byID[v.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) GetByID(id string) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) List(limit, offset int) ([]*models.Video, error) { return nil, nil }

func (r *fakeVideoRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeVideoRepo) IncrementViews(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.byID[id]; ok {
		v.Views++
	}
	return nil
}

func (r *fakeVideoRepo) Stats(id string) (*models.VideoStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &models.VideoStats{VideoID: id, Views: v.Views, Likes: int64(len(r.likes[id]))}, nil
}

func (r *fakeVideoRepo) Like(videoID string, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.likes[videoID] == nil {
		r.likes[videoID] = map[int]bool{}
	}
	r.likes[videoID][userID] = true
	return nil
}

func (r *fakeVideoRepo) Unlike(videoID string, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes[videoID], userID)
	return nil
}

func newTestVideoService(t *testing.T, repo *fakeVideoRepo) *videoService {
	t.Helper()
	svc := NewVideoService(repo, t.TempDir(), 1, "grant-secret", 15*time.Minute)
	return svc.(*videoService)
}

func TestUploadGrantRoundTrip(t *testing.T) {
	svc := newTestVideoService(t, newFakeVideoRepo())

	grant, err := svc.IssueUploadGrant(7, "clip.mp4", "video/mp4", 1024)
	require.NoError(t, err)

	claims, err := svc.parseGrant(grant)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.OwnerID)
	assert.Equal(t, "video/mp4", claims.ContentType)
	assert.Equal(t, int64(1024), claims.MaxBytes)
	assert.True(t, strings.HasSuffix(claims.ObjectKey, ".mp4"))
}

func TestUploadGrantRejectsBadInput(t *testing.T) {
	svc := newTestVideoService(t, newFakeVideoRepo())

	_, err := svc.IssueUploadGrant(7, "clip.mp4", "video/mp4", 10*1024*1024)
	assert.ErrorIs(t, err, ErrUploadTooLarge)

	_, err = svc.IssueUploadGrant(7, "notes.txt", "text/plain", 10)
	assert.ErrorIs(t, err, ErrBadContentType)

	_, err = svc.parseGrant("garbage.token.here")
	assert.ErrorIs(t, err, ErrGrantInvalid)
}

func TestUploadGrantExpires(t *testing.T) {
	repo := newFakeVideoRepo()
	svc := NewVideoService(repo, t.TempDir(), 1, "grant-secret", -time.Minute).(*videoService)

	grant, err := svc.IssueUploadGrant(7, "clip.mp4", "video/mp4", 1024)
	require.NoError(t, err)

	_, err = svc.parseGrant(grant)
	assert.ErrorIs(t, err, ErrGrantInvalid)
}

func TestDirectUploadStoresBlobAndRow(t *testing.T) {
	repo := newFakeVideoRepo()
	svc := newTestVideoService(t, repo)

	grant, err := svc.IssueUploadGrant(7, "clip.mp4", "video/mp4", 64)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte{0xAB}, 64)
	video, err := svc.DirectUpload(grant, "My clip", "first upload", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 7, video.OwnerID)
	assert.Equal(t, int64(64), video.SizeBytes)
	assert.Equal(t, "My clip", video.Title)

	blob, err := os.ReadFile(filepath.Join(svc.filesRoot, "videos", video.ObjectKey))
	require.NoError(t, err)
	assert.Equal(t, payload, blob)

	stored, err := repo.GetByID(video.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestDirectUploadEnforcesGrantSize(t *testing.T) {
	svc := newTestVideoService(t, newFakeVideoRepo())

	grant, err := svc.IssueUploadGrant(7, "clip.mp4", "video/mp4", 32)
	require.NoError(t, err)

	_, err = svc.DirectUpload(grant, "too big", "", bytes.NewReader(bytes.Repeat([]byte{1}, 33)))
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestDeleteIsOwnerOnly(t *testing.T) {
	repo := newFakeVideoRepo()
	svc := newTestVideoService(t, repo)

	grant, err := svc.IssueUploadGrant(7, "clip.mp4", "video/mp4", 8)
	require.NoError(t, err)
	video, err := svc.DirectUpload(grant, "t", "", bytes.NewReader([]byte("12345678")))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(video.ID, 8), ErrNotVideoOwner)
	require.NoError(t, svc.Delete(video.ID, 7))

	_, err = os.Stat(filepath.Join(svc.filesRoot, "videos", video.ObjectKey))
	assert.True(t, os.IsNotExist(err), "blob removed with the row")
}

func TestStatsCountsViews(t *testing.T) {
	repo := newFakeVideoRepo()
	svc := newTestVideoService(t, repo)

	grant, err := svc.IssueUploadGrant(7, "clip.mp4", "video/mp4", 8)
	require.NoError(t, err)
	video, err := svc.DirectUpload(grant, "t", "", bytes.NewReader([]byte("12345678")))
	require.NoError(t, err)

	require.NoError(t, svc.Like(video.ID, 42))
	require.NoError(t, svc.Like(video.ID, 42)) // idempotent in the fake as in SQL

	stats, err := svc.Stats(video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Views)
	assert.Equal(t, int64(1), stats.Likes)
}
