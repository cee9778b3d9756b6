package domain

import "time"

type Booth struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"owner_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	QRToken     string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Rating struct {
	ID        uint      `json:"id"`
	BoothID   uint      `json:"booth_id"`
	StudentID uint      `json:"student_id"`
	Stars     int       `json:"stars"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoothSummary is a booth as listed publicly, with its rating aggregate.
type BoothSummary struct {
	Booth
	RatingCount   int64   `json:"rating_count"`
	AverageRating float64 `json:"average_rating"`
}
