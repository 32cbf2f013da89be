package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vibro/internal/models"
	"vibro/internal/repositories"
)

var (
	ErrVideoNotFound  = errors.New("video not found")
	ErrNotVideoOwner  = errors.New("not the video owner")
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
	ErrGrantInvalid   = errors.New("invalid or expired upload grant")
	ErrBadContentType = errors.New("unsupported content type")
)

// UploadGrantClaims — a short-lived signed grant for the direct upload path.
// The grant pins the object key and owner so a client cannot redirect its
// upload into someone else's namespace.
type UploadGrantClaims struct {
	OwnerID     int    `json:"owner_id"`
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
	MaxBytes    int64  `json:"max_bytes"`
	jwt.RegisteredClaims
}

type VideoService interface {
	Upload(ownerID int, title, description string, header *multipart.FileHeader) (*models.Video, error)
	IssueUploadGrant(ownerID int, filename, contentType string, size int64) (string, error)
	DirectUpload(grantToken, title, description string, body io.Reader) (*models.Video, error)
	List(limit, offset int) ([]*models.Video, error)
	Get(id string) (*models.Video, error)
	Stats(id string) (*models.VideoStats, error)
	Delete(id string, requesterID int) error
	Like(videoID string, userID int) error
	Unlike(videoID string, userID int) error
}

type videoService struct {
	repo        repositories.VideoRepository
	filesRoot   string
	maxBytes    int64
	grantSecret []byte
	grantTTL    time.Duration
}

func NewVideoService(repo repositories.VideoRepository, filesRoot string, maxUploadMB int64, grantSecret string, grantTTL time.Duration) VideoService {
	return &videoService{
		repo:        repo,
		filesRoot:   filesRoot,
		maxBytes:    maxUploadMB * 1024 * 1024,
		grantSecret: []byte(grantSecret),
		grantTTL:    grantTTL,
	}
}

func allowedContentType(ct string) bool {
	switch ct {
	case "video/mp4", "video/webm", "video/quicktime":
		return true
	}
	return false
}

func (s *videoService) blobPath(objectKey string) string {
	return filepath.Join(s.filesRoot, "videos", objectKey)
}

func (s *videoService) storeBlob(objectKey string, r io.Reader, limit int64) (int64, error) {
	path := s.blobPath(objectKey)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("blob dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("blob create: %w", err)
	}
	defer f.Close()

	// limit+1 so an oversized stream is detected instead of truncated
	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("blob write: %w", err)
	}
	if n > limit {
		os.Remove(path)
		return 0, ErrUploadTooLarge
	}
	return n, nil
}

// Upload is the proxied multipart path: the whole file passes through us.
func (s *videoService) Upload(ownerID int, title, description string, header *multipart.FileHeader) (*models.Video, error) {
	if header.Size > s.maxBytes {
		return nil, ErrUploadTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedContentType(contentType) {
		return nil, ErrBadContentType
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	id := uuid.NewString()
	objectKey := id + filepath.Ext(header.Filename)
	size, err := s.storeBlob(objectKey, src, s.maxBytes)
	if err != nil {
		return nil, err
	}

	video := &models.Video{
		ID:          id,
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		ObjectKey:   objectKey,
		ContentType: contentType,
		SizeBytes:   size,
	}
	if err := s.repo.Create(video); err != nil {
		os.Remove(s.blobPath(objectKey))
		return nil, err
	}
	return video, nil
}

func (s *videoService) IssueUploadGrant(ownerID int, filename, contentType string, size int64) (string, error) {
	if size <= 0 || size > s.maxBytes {
		return "", ErrUploadTooLarge
	}
	if !allowedContentType(contentType) {
		return "", ErrBadContentType
	}
	claims := &UploadGrantClaims{
		OwnerID:     ownerID,
		ObjectKey:   uuid.NewString() + filepath.Ext(filename),
		ContentType: contentType,
		MaxBytes:    size,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.grantTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.grantSecret)
	if err != nil {
		return "", fmt.Errorf("sign upload grant: %w", err)
	}
	return signed, nil
}

func (s *videoService) parseGrant(grantToken string) (*UploadGrantClaims, error) {
	claims := &UploadGrantClaims{}
	token, err := jwt.ParseWithClaims(grantToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.grantSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrGrantInvalid
	}
	return claims, nil
}

// DirectUpload consumes a grant issued by IssueUploadGrant: raw body in,
// video row out. The object key comes from the grant, never the client.
func (s *videoService) DirectUpload(grantToken, title, description string, body io.Reader) (*models.Video, error) {
	claims, err := s.parseGrant(grantToken)
	if err != nil {
		return nil, err
	}
	size, err := s.storeBlob(claims.ObjectKey, body, claims.MaxBytes)
	if err != nil {
		return nil, err
	}
	video := &models.Video{
		ID:          strings.TrimSuffix(claims.ObjectKey, filepath.Ext(claims.ObjectKey)),
		OwnerID:     claims.OwnerID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		ObjectKey:   claims.ObjectKey,
		ContentType: claims.ContentType,
		SizeBytes:   size,
	}
	if err := s.repo.Create(video); err != nil {
		os.Remove(s.blobPath(claims.ObjectKey))
		return nil, err
	}
	return video, nil
}

func (s *videoService) List(limit, offset int) ([]*models.Video, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}

func (s *videoService) Get(id string) (*models.Video, error) {
	video, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *videoService) Stats(id string) (*models.VideoStats, error) {
	if err := s.repo.IncrementViews(id); err != nil {
		log.Printf("[videos][stats] view increment failed id=%s: %v", id, err)
	}
	stats, err := s.repo.Stats(id)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, ErrVideoNotFound
	}
	return stats, nil
}

func (s *videoService) Delete(id string, requesterID int) error {
	video, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if video == nil {
		return ErrVideoNotFound
	}
	if video.OwnerID != requesterID {
		return ErrNotVideoOwner
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if err := os.Remove(s.blobPath(video.ObjectKey)); err != nil && !os.IsNotExist(err) {
		log.Printf("[videos][delete] blob removal failed key=%s: %v", video.ObjectKey, err)
	}
	return nil
}

func (s *videoService) Like(videoID string, userID int) error {
	video, err := s.repo.GetByID(videoID)
	if err != nil {
		return err
	}
	if video == nil {
		return ErrVideoNotFound
	}
	return s.repo.Like(videoID, userID)
}

func (s *videoService) Unlike(videoID string, userID int) error {
	return s.repo.Unlike(videoID, userID)
}
