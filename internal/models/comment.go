package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	AuthorID  int       `json:"author_id"`
	Text      string    `json:"text"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}
