package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

const (
	// Ratings are pulled toward ratingPriorMean as if every booth started with ratingPriorCount such votes.
	ratingPriorMean  = 3.0
	ratingPriorCount = 5.0

	defaultTrendingWindow = 10 * time.Minute
	defaultTrendingTopK   = 3
	defaultRecentLimit    = 20
)

type DashboardBoothRepository interface {
	FindByOwnerID(ctx context.Context, ownerID uint) (domain.Booth, error)
	List(ctx context.Context) ([]domain.BoothSummary, error)
	Count(ctx context.Context) (int64, error)
}

type DashboardLogRepository interface {
	VisitStats(ctx context.Context, boothID uint) (int64, int64, error)
	RecentVisits(ctx context.Context, boothID uint, limit int) ([]domain.VisitEntry, error)
	PointStats(ctx context.Context, boothID uint) (int64, int64, error)
	RecentPoints(ctx context.Context, boothID uint, limit int) ([]domain.PointEntry, error)
	VisitCountsSince(ctx context.Context, since time.Time) (map[uint]int64, error)
	RatingAggregates(ctx context.Context) (map[uint]repository.RatingAggregate, error)
	Totals(ctx context.Context) (repository.LogTotals, error)
}

type DashboardAccountRepository interface {
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type PostCounter interface {
	Count(ctx context.Context) (int64, error)
}

type DashboardConfig struct {
	TrendingWindow       time.Duration
	TrendingTopK         int
	TrendingRatingWeight float64
	RecentLimit          int
}

// DashboardService only reads; nothing here mutates state.
type DashboardService struct {
	booths   DashboardBoothRepository
	logs     DashboardLogRepository
	accounts DashboardAccountRepository
	posts    PostCounter
	conf     DashboardConfig
	now      func() time.Time
}

func NewDashboardService(booths DashboardBoothRepository, logs DashboardLogRepository, accounts DashboardAccountRepository, posts PostCounter, conf DashboardConfig) *DashboardService {
	if conf.TrendingWindow <= 0 {
		conf.TrendingWindow = defaultTrendingWindow
	}
	if conf.TrendingTopK <= 0 {
		conf.TrendingTopK = defaultTrendingTopK
	}
	if conf.RecentLimit <= 0 {
		conf.RecentLimit = defaultRecentLimit
	}

	return &DashboardService{
		booths:   booths,
		logs:     logs,
		accounts: accounts,
		posts:    posts,
		conf:     conf,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *DashboardService) ownedBooth(ctx context.Context, managerID uint) (domain.Booth, error) {
	booth, err := s.booths.FindByOwnerID(ctx, managerID)
	if err != nil {
		if errors.Is(err, repository.ErrBoothNotFound) {
			return domain.Booth{}, ErrBoothAccessDenied
		}
		return domain.Booth{}, fmt.Errorf("s.booths.FindByOwnerID -> %w", err)
	}

	return booth, nil
}

func (s *DashboardService) VisitDashboard(ctx context.Context, managerID uint) (domain.BoothVisitDashboard, error) {
	booth, err := s.ownedBooth(ctx, managerID)
	if err != nil {
		return domain.BoothVisitDashboard{}, err
	}

	total, unique, err := s.logs.VisitStats(ctx, booth.ID)
	if err != nil {
		return domain.BoothVisitDashboard{}, fmt.Errorf("s.logs.VisitStats -> %w", err)
	}
	recent, err := s.logs.RecentVisits(ctx, booth.ID, s.conf.RecentLimit)
	if err != nil {
		return domain.BoothVisitDashboard{}, fmt.Errorf("s.logs.RecentVisits -> %w", err)
	}

	return domain.BoothVisitDashboard{
		BoothID:        booth.ID,
		TotalVisits:    total,
		UniqueVisitors: unique,
		Recent:         recent,
	}, nil
}

func (s *DashboardService) PointDashboard(ctx context.Context, managerID uint) (domain.BoothPointDashboard, error) {
	booth, err := s.ownedBooth(ctx, managerID)
	if err != nil {
		return domain.BoothPointDashboard{}, err
	}

	count, sum, err := s.logs.PointStats(ctx, booth.ID)
	if err != nil {
		return domain.BoothPointDashboard{}, fmt.Errorf("s.logs.PointStats -> %w", err)
	}
	recent, err := s.logs.RecentPoints(ctx, booth.ID, s.conf.RecentLimit)
	if err != nil {
		return domain.BoothPointDashboard{}, fmt.Errorf("s.logs.RecentPoints -> %w", err)
	}

	return domain.BoothPointDashboard{
		BoothID:     booth.ID,
		TotalAwards: count,
		TotalPoints: sum,
		Recent:      recent,
	}, nil
}

// Trending ranks booths over the trailing window. It is recomputed on every call.
func (s *DashboardService) Trending(ctx context.Context) ([]domain.TrendingBooth, error) {
	booths, err := s.booths.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.booths.List -> %w", err)
	}
	visits, err := s.logs.VisitCountsSince(ctx, s.now().Add(-s.conf.TrendingWindow))
	if err != nil {
		return nil, fmt.Errorf("s.logs.VisitCountsSince -> %w", err)
	}
	ratings, err := s.logs.RatingAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.logs.RatingAggregates -> %w", err)
	}

	return RankTrending(booths, visits, ratings, s.conf.TrendingRatingWeight, s.conf.TrendingTopK), nil
}

// RankTrending scores each booth as recentVisits + weight*smoothedRating and returns the top k.
// Booths with neither recent visits nor ratings are left out; ties go to the lower booth id.
func RankTrending(booths []domain.BoothSummary, visits map[uint]int64, ratings map[uint]repository.RatingAggregate, weight float64, k int) []domain.TrendingBooth {
	ranked := make([]domain.TrendingBooth, 0, len(booths))
	for _, b := range booths {
		recent := visits[b.ID]
		agg := ratings[b.ID]
		if recent == 0 && agg.Count == 0 {
			continue
		}

		smoothed := SmoothedRating(agg.Count, agg.Sum)
		ranked = append(ranked, domain.TrendingBooth{
			BoothID:        b.ID,
			Name:           b.Name,
			Location:       b.Location,
			RecentVisits:   recent,
			RatingCount:    agg.Count,
			SmoothedRating: smoothed,
			Score:          float64(recent) + weight*smoothed,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].BoothID < ranked[j].BoothID
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked
}

func SmoothedRating(count, sum int64) float64 {
	return (ratingPriorCount*ratingPriorMean + float64(sum)) / (ratingPriorCount + float64(count))
}

func (s *DashboardService) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	students, err := s.accounts.CountByRole(ctx, domain.RoleStudent)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("s.accounts.CountByRole -> %w", err)
	}
	booths, err := s.booths.Count(ctx)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("s.booths.Count -> %w", err)
	}
	totals, err := s.logs.Totals(ctx)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("s.logs.Totals -> %w", err)
	}
	posts, err := s.posts.Count(ctx)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("s.posts.Count -> %w", err)
	}

	return domain.AdminStats{
		Students:    students,
		Booths:      booths,
		Visits:      totals.Visits,
		PointAwards: totals.PointAwards,
		Points:      totals.Points,
		Posts:       posts,
	}, nil
}
