package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

func TestSmoothedRating(t *testing.T) {
	assert.Equal(t, 3.0, SmoothedRating(0, 0))
	assert.Equal(t, 4.0, SmoothedRating(5, 25))
	assert.InDelta(t, (15.0+5)/6, SmoothedRating(1, 5), 1e-9)
}

func TestRankTrending(t *testing.T) {
	booths := []domain.BoothSummary{
		{Booth: domain.Booth{ID: 1, Name: "one"}},
		{Booth: domain.Booth{ID: 2, Name: "two"}},
		{Booth: domain.Booth{ID: 3, Name: "three"}},
		{Booth: domain.Booth{ID: 4, Name: "four"}},
		{Booth: domain.Booth{ID: 5, Name: "quiet"}},
	}

	tests := []struct {
		name    string
		visits  map[uint]int64
		ratings map[uint]repository.RatingAggregate
		weight  float64
		k       int
		want    []uint
	}{
		{
			name:   "visits only",
			visits: map[uint]int64{1: 2, 2: 5, 3: 1},
			weight: 0,
			k:      3,
			want:   []uint{2, 1, 3},
		},
		{
			name:   "top k cut",
			visits: map[uint]int64{1: 2, 2: 5, 3: 1, 4: 9},
			weight: 1,
			k:      2,
			want:   []uint{4, 2},
		},
		{
			name:   "ties by id",
			visits: map[uint]int64{3: 4, 1: 4, 2: 4},
			weight: 2,
			k:      3,
			want:   []uint{1, 2, 3},
		},
		{
			name:    "rating lifts a booth",
			visits:  map[uint]int64{1: 3, 2: 2},
			ratings: map[uint]repository.RatingAggregate{2: {Count: 20, Sum: 100}},
			weight:  2,
			k:       3,
			want:    []uint{2, 1},
		},
		{
			name:    "rated booth without recent visits still ranks",
			ratings: map[uint]repository.RatingAggregate{4: {Count: 1, Sum: 5}},
			weight:  1,
			k:       3,
			want:    []uint{4},
		},
		{
			name:   "nothing happening",
			weight: 2,
			k:      3,
			want:   []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankTrending(booths, tt.visits, tt.ratings, tt.weight, tt.k)

			ids := make([]uint, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.BoothID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDashboardService_VisitDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	manager, booth := f.manager(t, "A")
	labelled := f.student(t, intPtr(2), intPtr(3), intPtr(15))
	unlabelled := f.student(t, nil, nil, nil)

	_, err := f.recorder.RecordVisit(ctx, labelled.ID, booth.QRToken)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.recorder.RecordVisit(ctx, unlabelled.ID, booth.QRToken)
	require.NoError(t, err)

	dashboard, err := f.dashboard.VisitDashboard(ctx, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, booth.ID, dashboard.BoothID)
	assert.Equal(t, int64(2), dashboard.TotalVisits)
	assert.Equal(t, int64(2), dashboard.UniqueVisitors)
	require.Len(t, dashboard.Recent, 2)
	assert.Equal(t, unlabelled.ID, dashboard.Recent[0].StudentID)
	assert.Equal(t, domain.MissingStudentLabel, dashboard.Recent[0].StudentLabel)
	assert.Equal(t, "2학년 3반 15번", dashboard.Recent[1].StudentLabel)

	_, err = f.dashboard.VisitDashboard(ctx, labelled.ID)
	assert.ErrorIs(t, err, ErrBoothAccessDenied)
}

func TestDashboardService_PointDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	manager, booth := f.manager(t, "A")
	_, other := f.manager(t, "B")
	student := f.student(t, intPtr(1), intPtr(2), intPtr(3))

	_, err := f.recorder.AwardPoints(ctx, booth.ID, student.QRToken, 10)
	require.NoError(t, err)
	f.clock.Advance(31 * time.Minute)
	_, err = f.recorder.AwardPoints(ctx, booth.ID, student.QRToken, 15)
	require.NoError(t, err)
	_, err = f.recorder.AwardPoints(ctx, other.ID, student.QRToken, 100)
	require.NoError(t, err)

	dashboard, err := f.dashboard.PointDashboard(ctx, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dashboard.TotalAwards)
	assert.Equal(t, int64(25), dashboard.TotalPoints)
	require.Len(t, dashboard.Recent, 2)
	assert.Equal(t, 15, dashboard.Recent[0].Points)
	assert.Equal(t, "1학년 2반 3번", dashboard.Recent[0].StudentLabel)
}

func TestDashboardService_Trending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, busy := f.manager(t, "busy")
	_, calm := f.manager(t, "calm")
	f.manager(t, "empty")

	for i := 0; i < 3; i++ {
		s := f.student(t, nil, nil, nil)
		_, err := f.recorder.RecordVisit(ctx, s.ID, busy.QRToken)
		require.NoError(t, err)
	}
	s := f.student(t, nil, nil, nil)
	_, err := f.recorder.RecordVisit(ctx, s.ID, calm.QRToken)
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)
	trending, err := f.dashboard.Trending(ctx)
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, busy.ID, trending[0].BoothID)
	assert.Equal(t, int64(3), trending[0].RecentVisits)
	assert.Equal(t, 3.0, trending[0].SmoothedRating)
	assert.Equal(t, 3.0+2*3.0, trending[0].Score)
	assert.Equal(t, calm.ID, trending[1].BoothID)

	// Outside the window only rated booths remain.
	_, err = f.recorder.RateBooth(ctx, s.ID, calm.ID, 5)
	require.NoError(t, err)
	f.clock.Advance(10 * time.Minute)

	trending, err = f.dashboard.Trending(ctx)
	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, calm.ID, trending[0].BoothID)
	assert.Zero(t, trending[0].RecentVisits)
}

func TestDashboardService_AdminStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, booth := f.manager(t, "A")
	student := f.student(t, nil, nil, nil)
	f.student(t, nil, nil, nil)

	_, err := f.recorder.RecordVisit(ctx, student.ID, booth.QRToken)
	require.NoError(t, err)
	_, err = f.recorder.AwardPoints(ctx, booth.ID, student.QRToken, 10)
	require.NoError(t, err)
	_, err = f.feed.CreatePost(ctx, student.ID, "hello")
	require.NoError(t, err)

	stats, err := f.dashboard.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.AdminStats{
		Students:    2,
		Booths:      1,
		Visits:      1,
		PointAwards: 1,
		Points:      10,
		Posts:       1,
	}, stats)
}
