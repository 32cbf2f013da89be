package repositories

import (
	"database/sql"
	"fmt"

	"vibro/internal/models"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	ListByVideo(videoID string, limit, offset int) ([]*models.Comment, error)
	Delete(id string) error
	Like(commentID string, userID int) error
	Unlike(commentID string, userID int) error
}

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{DB: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	const q = `
		INSERT INTO comments (id, video_id, author_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := r.DB.QueryRow(q, comment.ID, comment.VideoID, comment.AuthorID, comment.Text).
		Scan(&comment.CreatedAt); err != nil {
		return fmt.Errorf("comment create: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(id string) (*models.Comment, error) {
	const q = `
		SELECT c.id, c.video_id, c.author_id, c.text, c.created_at,
		       (SELECT COUNT(*) FROM comment_likes l WHERE l.comment_id = c.id)
		FROM comments c
		WHERE c.id = $1
	`
	row := r.DB.QueryRow(q, id)
	var c models.Comment
	if err := row.Scan(&c.ID, &c.VideoID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.Likes); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("comment get: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) ListByVideo(videoID string, limit, offset int) ([]*models.Comment, error) {
	const q = `
		SELECT c.id, c.video_id, c.author_id, c.text, c.created_at,
		       (SELECT COUNT(*) FROM comment_likes l WHERE l.comment_id = c.id)
		FROM comments c
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, videoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("comment list: %w", err)
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.VideoID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.Likes); err != nil {
			return nil, fmt.Errorf("comment list scan: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *commentRepository) Delete(id string) error {
	const q = `DELETE FROM comments WHERE id = $1`
	_, err := r.DB.Exec(q, id)
	return err
}

func (r *commentRepository) Like(commentID string, userID int) error {
	const q = `
		INSERT INTO comment_likes (comment_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (comment_id, user_id) DO NOTHING
	`
	_, err := r.DB.Exec(q, commentID, userID)
	return err
}

func (r *commentRepository) Unlike(commentID string, userID int) error {
	const q = `DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`
	_, err := r.DB.Exec(q, commentID, userID)
	return err
}
