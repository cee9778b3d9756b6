package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

type LogDAO interface {
	VisitStats(ctx context.Context, boothID uint) (int64, int64, error)
	RecentVisits(ctx context.Context, boothID uint, limit int) ([]dao.VisitRow, error)
	VisitsByStudent(ctx context.Context, studentID uint) ([]dao.VisitRow, error)
	PointStats(ctx context.Context, boothID uint) (int64, int64, error)
	RecentPoints(ctx context.Context, boothID uint, limit int) ([]dao.PointRow, error)
	StudentPoints(ctx context.Context, studentID uint) (int64, error)
	VisitCountsSince(ctx context.Context, since time.Time) ([]dao.BoothCount, error)
	RatingAggregates(ctx context.Context) ([]dao.RatingAggregate, error)
	HasVisited(ctx context.Context, studentID, boothID uint) (bool, error)
	Totals(ctx context.Context) (int64, int64, int64, error)
}

// RatingAggregate is the number and sum of stars a booth received.
type RatingAggregate struct {
	Count int64
	Sum   int64
}

type LogTotals struct {
	Visits      int64
	PointAwards int64
	Points      int64
}

type LogRepository struct {
	dao LogDAO
}

func NewLogRepository(dao LogDAO) *LogRepository {
	return &LogRepository{
		dao: dao,
	}
}

func (r *LogRepository) VisitStats(ctx context.Context, boothID uint) (total, unique int64, err error) {
	total, unique, err = r.dao.VisitStats(ctx, boothID)
	if err != nil {
		return 0, 0, fmt.Errorf("r.dao.VisitStats -> %w", err)
	}

	return total, unique, nil
}

func (r *LogRepository) RecentVisits(ctx context.Context, boothID uint, limit int) ([]domain.VisitEntry, error) {
	rows, err := r.dao.RecentVisits(ctx, boothID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.RecentVisits -> %w", err)
	}

	return visitRowsToDomain(rows), nil
}

func (r *LogRepository) VisitsByStudent(ctx context.Context, studentID uint) ([]domain.VisitEntry, error) {
	rows, err := r.dao.VisitsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.VisitsByStudent -> %w", err)
	}

	return visitRowsToDomain(rows), nil
}

func (r *LogRepository) PointStats(ctx context.Context, boothID uint) (count, sum int64, err error) {
	count, sum, err = r.dao.PointStats(ctx, boothID)
	if err != nil {
		return 0, 0, fmt.Errorf("r.dao.PointStats -> %w", err)
	}

	return count, sum, nil
}

func (r *LogRepository) RecentPoints(ctx context.Context, boothID uint, limit int) ([]domain.PointEntry, error) {
	rows, err := r.dao.RecentPoints(ctx, boothID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.RecentPoints -> %w", err)
	}

	entries := make([]domain.PointEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.PointEntry{
			PointLog: domain.PointLog{
				ID:        row.ID,
				StudentID: row.StudentID,
				BoothID:   row.BoothID,
				Points:    row.Points,
				Seq:       row.Seq,
				AwardedAt: row.AwardedAt,
			},
			StudentNickname: row.Nickname,
			StudentLabel:    domain.FormatStudentLabel(row.Grade, row.ClassNumber, row.StudentNumber),
		})
	}

	return entries, nil
}

func (r *LogRepository) StudentPoints(ctx context.Context, studentID uint) (int64, error) {
	sum, err := r.dao.StudentPoints(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.StudentPoints -> %w", err)
	}

	return sum, nil
}

// VisitCountsSince maps booth id to the number of visits at or after since.
func (r *LogRepository) VisitCountsSince(ctx context.Context, since time.Time) (map[uint]int64, error) {
	rows, err := r.dao.VisitCountsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("r.dao.VisitCountsSince -> %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.BoothID] = row.VisitCount
	}

	return counts, nil
}

func (r *LogRepository) RatingAggregates(ctx context.Context) (map[uint]RatingAggregate, error) {
	rows, err := r.dao.RatingAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.RatingAggregates -> %w", err)
	}

	aggs := make(map[uint]RatingAggregate, len(rows))
	for _, row := range rows {
		aggs[row.BoothID] = RatingAggregate{Count: row.RatingCount, Sum: row.RatingSum}
	}

	return aggs, nil
}

func (r *LogRepository) HasVisited(ctx context.Context, studentID, boothID uint) (bool, error) {
	visited, err := r.dao.HasVisited(ctx, studentID, boothID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasVisited -> %w", err)
	}

	return visited, nil
}

func (r *LogRepository) Totals(ctx context.Context) (LogTotals, error) {
	visits, awards, points, err := r.dao.Totals(ctx)
	if err != nil {
		return LogTotals{}, fmt.Errorf("r.dao.Totals -> %w", err)
	}

	return LogTotals{Visits: visits, PointAwards: awards, Points: points}, nil
}

func visitRowsToDomain(rows []dao.VisitRow) []domain.VisitEntry {
	entries := make([]domain.VisitEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.VisitEntry{
			VisitLog: domain.VisitLog{
				ID:        row.ID,
				StudentID: row.StudentID,
				BoothID:   row.BoothID,
				VisitedAt: row.VisitedAt,
			},
			BoothName:       row.BoothName,
			StudentNickname: row.Nickname,
			StudentLabel:    domain.FormatStudentLabel(row.Grade, row.ClassNumber, row.StudentNumber),
		})
	}

	return entries
}
