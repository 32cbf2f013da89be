package models

import "time"

type Video struct {
	ID          string    `json:"id"`
	OwnerID     int       `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

// VideoStats — the polling payload for a single video.
type VideoStats struct {
	VideoID  string `json:"video_id"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Views    int64  `json:"views"`
}
