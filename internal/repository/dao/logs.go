package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// VisitLog is written at most once per (student, booth).
type VisitLog struct {
	ID        uint      `gorm:"primaryKey"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_visit_pair"`
	BoothID   uint      `gorm:"not null;uniqueIndex:idx_visit_pair;index:idx_visit_booth_time,priority:1"`
	VisitedAt time.Time `gorm:"not null;index:idx_visit_booth_time,priority:2"`
}

// PointLog rows of one (student, booth) pair form a chain numbered by Seq.
// Two concurrent writers that read the same latest row race for the same
// Seq and the unique index rejects the loser.
type PointLog struct {
	ID        uint      `gorm:"primaryKey"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_point_chain,priority:1"`
	BoothID   uint      `gorm:"not null;uniqueIndex:idx_point_chain,priority:2;index"`
	Seq       int       `gorm:"not null;uniqueIndex:idx_point_chain,priority:3"`
	Points    int       `gorm:"not null"`
	AwardedAt time.Time `gorm:"not null"`
}

// VisitRow is a visit joined with the student and booth it references.
type VisitRow struct {
	ID            uint
	StudentID     uint
	BoothID       uint
	VisitedAt     time.Time
	BoothName     string
	Nickname      string
	Grade         *int
	ClassNumber   *int
	StudentNumber *int
}

// PointRow is an award joined with the student who received it.
type PointRow struct {
	ID            uint
	StudentID     uint
	BoothID       uint
	Seq           int
	Points        int
	AwardedAt     time.Time
	Nickname      string
	Grade         *int
	ClassNumber   *int
	StudentNumber *int
}

type BoothCount struct {
	BoothID    uint
	VisitCount int64
}

type RatingAggregate struct {
	BoothID     uint
	RatingCount int64
	RatingSum   int64
}

// LogDAO reads the visit and point logs outside of any recording transaction.
type LogDAO struct {
	db *gorm.DB
}

func NewLogDAO(db *gorm.DB) *LogDAO {
	return &LogDAO{
		db: db,
	}
}

func (d *LogDAO) VisitStats(ctx context.Context, boothID uint) (total, unique int64, err error) {
	var agg struct {
		Total          int64
		UniqueVisitors int64
	}
	err = d.db.WithContext(ctx).Model(&VisitLog{}).
		Select("COUNT(id) AS total, COUNT(DISTINCT student_id) AS unique_visitors").
		Where("booth_id = ?", boothID).
		Scan(&agg).Error

	return agg.Total, agg.UniqueVisitors, err
}

func (d *LogDAO) RecentVisits(ctx context.Context, boothID uint, limit int) ([]VisitRow, error) {
	var rows []VisitRow
	err := d.db.WithContext(ctx).Table("visit_logs AS v").
		Select("v.id, v.student_id, v.booth_id, v.visited_at, b.name AS booth_name, a.nickname, a.grade, a.class_number, a.student_number").
		Joins("JOIN accounts AS a ON a.id = v.student_id").
		Joins("JOIN booths AS b ON b.id = v.booth_id").
		Where("v.booth_id = ?", boothID).
		Order("v.visited_at DESC, v.id DESC").
		Limit(limit).
		Scan(&rows).Error

	return rows, err
}

func (d *LogDAO) VisitsByStudent(ctx context.Context, studentID uint) ([]VisitRow, error) {
	var rows []VisitRow
	err := d.db.WithContext(ctx).Table("visit_logs AS v").
		Select("v.id, v.student_id, v.booth_id, v.visited_at, b.name AS booth_name, a.nickname, a.grade, a.class_number, a.student_number").
		Joins("JOIN accounts AS a ON a.id = v.student_id").
		Joins("JOIN booths AS b ON b.id = v.booth_id").
		Where("v.student_id = ?", studentID).
		Order("v.visited_at DESC, v.id DESC").
		Scan(&rows).Error

	return rows, err
}

func (d *LogDAO) PointStats(ctx context.Context, boothID uint) (count, sum int64, err error) {
	var agg struct {
		AwardCount int64
		PointSum   int64
	}
	err = d.db.WithContext(ctx).Model(&PointLog{}).
		Select("COUNT(id) AS award_count, COALESCE(SUM(points), 0) AS point_sum").
		Where("booth_id = ?", boothID).
		Scan(&agg).Error

	return agg.AwardCount, agg.PointSum, err
}

func (d *LogDAO) RecentPoints(ctx context.Context, boothID uint, limit int) ([]PointRow, error) {
	var rows []PointRow
	err := d.db.WithContext(ctx).Table("point_logs AS p").
		Select("p.id, p.student_id, p.booth_id, p.seq, p.points, p.awarded_at, a.nickname, a.grade, a.class_number, a.student_number").
		Joins("JOIN accounts AS a ON a.id = p.student_id").
		Where("p.booth_id = ?", boothID).
		Order("p.awarded_at DESC, p.id DESC").
		Limit(limit).
		Scan(&rows).Error

	return rows, err
}

func (d *LogDAO) StudentPoints(ctx context.Context, studentID uint) (int64, error) {
	var sum int64
	err := d.db.WithContext(ctx).Model(&PointLog{}).
		Select("COALESCE(SUM(points), 0)").
		Where("student_id = ?", studentID).
		Scan(&sum).Error

	return sum, err
}

// VisitCountsSince counts visits per booth at or after since.
func (d *LogDAO) VisitCountsSince(ctx context.Context, since time.Time) ([]BoothCount, error) {
	var rows []BoothCount
	err := d.db.WithContext(ctx).Model(&VisitLog{}).
		Select("booth_id, COUNT(id) AS visit_count").
		Where("visited_at >= ?", since).
		Group("booth_id").
		Scan(&rows).Error

	return rows, err
}

func (d *LogDAO) RatingAggregates(ctx context.Context) ([]RatingAggregate, error) {
	var rows []RatingAggregate
	err := d.db.WithContext(ctx).Model(&Rating{}).
		Select("booth_id, COUNT(id) AS rating_count, COALESCE(SUM(stars), 0) AS rating_sum").
		Group("booth_id").
		Scan(&rows).Error

	return rows, err
}

func (d *LogDAO) HasVisited(ctx context.Context, studentID, boothID uint) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&VisitLog{}).
		Where("student_id = ? AND booth_id = ?", studentID, boothID).
		Count(&count).Error

	return count > 0, err
}

// Totals returns the number of visits, point awards and points handed out.
func (d *LogDAO) Totals(ctx context.Context) (visits, awards, points int64, err error) {
	if err = d.db.WithContext(ctx).Model(&VisitLog{}).Count(&visits).Error; err != nil {
		return 0, 0, 0, err
	}

	var agg struct {
		AwardCount int64
		PointSum   int64
	}
	err = d.db.WithContext(ctx).Model(&PointLog{}).
		Select("COUNT(id) AS award_count, COALESCE(SUM(points), 0) AS point_sum").
		Scan(&agg).Error

	return visits, agg.AwardCount, agg.PointSum, err
}
