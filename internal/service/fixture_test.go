package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/db/dbtest"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

var baseTime = time.Date(2026, 10, 3, 10, 0, 0, 0, time.UTC)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type countingOutcomes struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingOutcomes) RecordOutcome(operation, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[operation+":"+outcome]++
}

func (o *countingOutcomes) get(key string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[key]
}

type fixture struct {
	clock    *testClock
	outcomes *countingOutcomes

	accounts *repository.AccountRepository
	booths   *repository.BoothRepository
	logs     *repository.LogRepository
	posts    *repository.PostRepository

	auth      *AuthService
	account   *AccountService
	recorder  *RecorderService
	dashboard *DashboardService
	feed      *FeedService
	booth     *BoothService

	seq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gormDB := dbtest.NewSQLite(t)

	f := &fixture{
		clock:    &testClock{t: baseTime},
		outcomes: &countingOutcomes{},
		accounts: repository.NewAccountRepository(dao.NewAccountDAO(gormDB)),
		booths:   repository.NewBoothRepository(dao.NewBoothDAO(gormDB)),
		logs:     repository.NewLogRepository(dao.NewLogDAO(gormDB)),
		posts:    repository.NewPostRepository(dao.NewPostDAO(gormDB)),
	}
	records := repository.NewRecordRepository(dao.NewRecordDAO(gormDB))

	f.auth = NewAuthService(f.accounts, f.booths, 200)
	f.account = NewAccountService(f.accounts, f.booths, f.logs, 200)
	f.recorder = NewRecorderService(records, f.booths, f.logs, RecorderConfig{
		AwardPoints:        10,
		AwardWindowMinutes: 30,
	}, f.outcomes)
	f.recorder.now = f.clock.Now
	f.dashboard = NewDashboardService(f.booths, f.logs, f.accounts, f.posts, DashboardConfig{
		TrendingWindow:       10 * time.Minute,
		TrendingTopK:         3,
		TrendingRatingWeight: 2,
		RecentLimit:          5,
	})
	f.dashboard.now = f.clock.Now
	f.feed = NewFeedService(f.posts)
	f.feed.now = f.clock.Now
	f.booth = NewBoothService(f.booths)

	return f
}

func intPtr(v int) *int {
	return &v
}

func (f *fixture) student(t *testing.T, grade, classNumber, number *int) domain.Account {
	t.Helper()
	f.seq++

	created, err := f.accounts.Create(context.Background(), domain.Account{
		Role:          domain.RoleStudent,
		Nickname:      fmt.Sprintf("student-%d", f.seq),
		LoginCode:     fmt.Sprintf("S%04d", f.seq),
		QRToken:       fmt.Sprintf("student-token-%d", f.seq),
		Grade:         grade,
		ClassNumber:   classNumber,
		StudentNumber: number,
	})
	require.NoError(t, err)

	return created
}

func (f *fixture) manager(t *testing.T, boothName string) (domain.Account, domain.Booth) {
	t.Helper()
	f.seq++

	account, booth, err := f.accounts.CreateWithBooth(context.Background(), domain.Account{
		Role:      domain.RoleBoothManager,
		Nickname:  fmt.Sprintf("manager-%d", f.seq),
		LoginCode: fmt.Sprintf("M%04d", f.seq),
		QRToken:   fmt.Sprintf("manager-token-%d", f.seq),
	}, domain.Booth{
		Name:     boothName,
		Location: "본관 1층",
		QRToken:  fmt.Sprintf("booth-token-%d", f.seq),
	})
	require.NoError(t, err)

	return account, booth
}
