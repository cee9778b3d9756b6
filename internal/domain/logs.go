package domain

import "time"

// VisitLog records that a student visited a booth. Immutable once written.
type VisitLog struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	BoothID   uint      `json:"booth_id"`
	VisitedAt time.Time `json:"visited_at"`
}

// PointLog records that a booth awarded points to a student. Seq numbers the awards of one
// (student, booth) pair starting at 1.
type PointLog struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	BoothID   uint      `json:"booth_id"`
	Points    int       `json:"points"`
	Seq       int       `json:"seq"`
	AwardedAt time.Time `json:"awarded_at"`
}

type VisitEntry struct {
	VisitLog
	BoothName       string `json:"booth_name,omitempty"`
	StudentNickname string `json:"student_nickname,omitempty"`
	StudentLabel    string `json:"student_label,omitempty"`
}

type PointEntry struct {
	PointLog
	StudentNickname string `json:"student_nickname"`
	StudentLabel    string `json:"student_label"`
}
