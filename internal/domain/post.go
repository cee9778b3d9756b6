package domain

import "time"

type Post struct {
	ID             uint      `json:"id"`
	AuthorID       uint      `json:"author_id"`
	AuthorNickname string    `json:"author_nickname"`
	Content        string    `json:"content"`
	HeartCount     int64     `json:"heart_count"`
	Hearted        bool      `json:"hearted"`
	CreatedAt      time.Time `json:"created_at"`
}

type HeartToggle struct {
	Hearted     bool  `json:"hearted"`
	TotalHearts int64 `json:"total_hearts"`
}
