package repositories

import (
	"database/sql"
	"fmt"

	"vibro/internal/models"
)

type VideoRepository interface {
	Create(video *models.Video) error
	GetByID(id string) (*models.Video, error)
	List(limit, offset int) ([]*models.Video, error)
	Delete(id string) error
	IncrementViews(id string) error
	Stats(id string) (*models.VideoStats, error)
	Like(videoID string, userID int) error
	Unlike(videoID string, userID int) error
}

type videoRepository struct {
	DB *sql.DB
}

func NewVideoRepository(db *sql.DB) VideoRepository {
	return &videoRepository{DB: db}
}

func (r *videoRepository) Create(video *models.Video) error {
	const q = `
		INSERT INTO videos (id, owner_id, title, description, object_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	if err := r.DB.QueryRow(q,
		video.ID, video.OwnerID, video.Title, video.Description,
		video.ObjectKey, video.ContentType, video.SizeBytes,
	).Scan(&video.CreatedAt); err != nil {
		return fmt.Errorf("video create: %w", err)
	}
	return nil
}

func (r *videoRepository) GetByID(id string) (*models.Video, error) {
	const q = `
		SELECT id, owner_id, title, description, object_key, content_type, size_bytes, views, created_at
		FROM videos
		WHERE id = $1
	`
	row := r.DB.QueryRow(q, id)
	var v models.Video
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.ObjectKey,
		&v.ContentType, &v.SizeBytes, &v.Views, &v.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("video get: %w", err)
	}
	return &v, nil
}

func (r *videoRepository) List(limit, offset int) ([]*models.Video, error) {
	const q = `
		SELECT id, owner_id, title, description, object_key, content_type, size_bytes, views, created_at
		FROM videos
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("video list: %w", err)
	}
	defer rows.Close()

	var out []*models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.ObjectKey,
			&v.ContentType, &v.SizeBytes, &v.Views, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("video list scan: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *videoRepository) Delete(id string) error {
	const q = `DELETE FROM videos WHERE id = $1`
	_, err := r.DB.Exec(q, id)
	return err
}

func (r *videoRepository) IncrementViews(id string) error {
	const q = `UPDATE videos SET views = views + 1 WHERE id = $1`
	_, err := r.DB.Exec(q, id)
	return err
}

func (r *videoRepository) Stats(id string) (*models.VideoStats, error) {
	const q = `
		SELECT v.id,
		       v.views,
		       (SELECT COUNT(*) FROM video_likes l WHERE l.video_id = v.id),
		       (SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id)
		FROM videos v
		WHERE v.id = $1
	`
	row := r.DB.QueryRow(q, id)
	var s models.VideoStats
	if err := row.Scan(&s.VideoID, &s.Views, &s.Likes, &s.Comments); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("video stats: %w", err)
	}
	return &s, nil
}

// Like — идемпотентно: повторный лайк не ошибка.
func (r *videoRepository) Like(videoID string, userID int) error {
	const q = `
		INSERT INTO video_likes (video_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (video_id, user_id) DO NOTHING
	`
	_, err := r.DB.Exec(q, videoID, userID)
	return err
}

func (r *videoRepository) Unlike(videoID string, userID int) error {
	const q = `DELETE FROM video_likes WHERE video_id = $1 AND user_id = $2`
	_, err := r.DB.Exec(q, videoID, userID)
	return err
}
