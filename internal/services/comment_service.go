package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"vibro/internal/models"
	"vibro/internal/repositories"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment text is required")
	ErrNotCommentOwner = errors.New("not the comment author")
)

type CommentService interface {
	Post(videoID string, authorID int, text string) (*models.Comment, error)
	ListByVideo(videoID string, limit, offset int) ([]*models.Comment, error)
	Delete(id string, requesterID int) error
	Like(commentID string, userID int) error
	Unlike(commentID string, userID int) error
}

type commentService struct {
	repo   repositories.CommentRepository
	videos repositories.VideoRepository
}

func NewCommentService(repo repositories.CommentRepository, videos repositories.VideoRepository) CommentService {
	return &commentService{repo: repo, videos: videos}
}

func (s *commentService) Post(videoID string, authorID int, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	video, err := s.videos.GetByID(videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	comment := &models.Comment{
		ID:       uuid.NewString(),
		VideoID:  videoID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListByVideo(videoID string, limit, offset int) ([]*models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByVideo(videoID, limit, offset)
}

func (s *commentService) Delete(id string, requesterID int) error {
	comment, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != requesterID {
		return ErrNotCommentOwner
	}
	return s.repo.Delete(id)
}

func (s *commentService) Like(commentID string, userID int) error {
	comment, err := s.repo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	return s.repo.Like(commentID, userID)
}

func (s *commentService) Unlike(commentID string, userID int) error {
	return s.repo.Unlike(commentID, userID)
}
