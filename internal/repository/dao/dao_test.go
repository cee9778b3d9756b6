package dao_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/db/dbtest"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

var at = time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, accounts *dao.AccountDAO) (dao.Account, dao.Booth) {
	t.Helper()

	student, err := accounts.Insert(context.Background(), dao.Account{
		Role: "STUDENT", Nickname: "student", LoginCode: "AAAAA", QRToken: "student-qr",
	})
	require.NoError(t, err)

	_, booth, err := accounts.InsertWithBooth(context.Background(), dao.Account{
		Role: "BOOTH_MANAGER", Nickname: "manager", LoginCode: "BBBBB", QRToken: "manager-qr",
	}, dao.Booth{Name: "booth", QRToken: "booth-qr"})
	require.NoError(t, err)

	return student, booth
}

func TestAccountDAO_UniqueColumns(t *testing.T) {
	gormDB := dbtest.NewSQLite(t)
	accounts := dao.NewAccountDAO(gormDB)
	ctx := context.Background()

	seed(t, accounts)

	tests := []struct {
		name    string
		account dao.Account
	}{
		{"login code", dao.Account{Role: "STUDENT", Nickname: "x1", LoginCode: "AAAAA", QRToken: "x1"}},
		{"qr token", dao.Account{Role: "STUDENT", Nickname: "x2", LoginCode: "X2X2X", QRToken: "student-qr"}},
		{"nickname", dao.Account{Role: "STUDENT", Nickname: "student", LoginCode: "X3X3X", QRToken: "x3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounts.Insert(ctx, tt.account)
			assert.ErrorIs(t, err, dao.ErrAccountExists)
		})
	}

	// A failing batch leaves nothing behind.
	_, err := accounts.InsertBatch(ctx, []dao.Account{
		{Role: "STUDENT", Nickname: "ok", LoginCode: "CCCCC", QRToken: "ok"},
		{Role: "STUDENT", Nickname: "dup", LoginCode: "AAAAA", QRToken: "dup"},
	})
	assert.ErrorIs(t, err, dao.ErrAccountExists)

	exists, err := accounts.ExistsLoginCode(ctx, "CCCCC")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAccountDAO_InsertBatchWithBooths(t *testing.T) {
	gormDB := dbtest.NewSQLite(t)
	accounts := dao.NewAccountDAO(gormDB)
	ctx := context.Background()

	seed(t, accounts)

	created, booths, err := accounts.InsertBatchWithBooths(ctx, []dao.Account{
		{Role: "BOOTH_MANAGER", Nickname: "m1", LoginCode: "M1M1M", QRToken: "m1"},
		{Role: "BOOTH_MANAGER", Nickname: "m2", LoginCode: "M2M2M", QRToken: "m2"},
	}, []dao.Booth{
		{Name: "b1", QRToken: "b1"},
		{Name: "b2", QRToken: "b2"},
	})
	require.NoError(t, err)
	require.Len(t, booths, 2)
	for i := range created {
		assert.NotZero(t, created[i].ID)
		assert.Equal(t, created[i].ID, booths[i].OwnerID)
	}

	// The second booth collides with the seeded one, so neither manager is kept.
	_, _, err = accounts.InsertBatchWithBooths(ctx, []dao.Account{
		{Role: "BOOTH_MANAGER", Nickname: "m3", LoginCode: "M3M3M", QRToken: "m3"},
		{Role: "BOOTH_MANAGER", Nickname: "m4", LoginCode: "M4M4M", QRToken: "m4"},
	}, []dao.Booth{
		{Name: "b3", QRToken: "b3"},
		{Name: "b4", QRToken: "booth-qr"},
	})
	assert.ErrorIs(t, err, dao.ErrAccountExists)

	exists, err := accounts.ExistsLoginCode(ctx, "M3M3M")
	require.NoError(t, err)
	assert.False(t, exists)

	managers, err := accounts.CountByRole(ctx, "BOOTH_MANAGER")
	require.NoError(t, err)
	assert.EqualValues(t, 3, managers)

	_, _, err = accounts.InsertBatchWithBooths(ctx, []dao.Account{{Role: "BOOTH_MANAGER"}}, nil)
	assert.ErrorIs(t, err, dao.ErrBatchMismatch)
}

func TestRecordTx_VisitBackstop(t *testing.T) {
	gormDB := dbtest.NewSQLite(t)
	records := dao.NewRecordDAO(gormDB)
	student, booth := seed(t, dao.NewAccountDAO(gormDB))

	err := records.WithinTx(context.Background(), func(tx *dao.RecordTx) error {
		first, inserted, err := tx.InsertVisit(dao.VisitLog{StudentID: student.ID, BoothID: booth.ID, VisitedAt: at})
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.NotZero(t, first.ID)

		_, inserted, err = tx.InsertVisit(dao.VisitLog{StudentID: student.ID, BoothID: booth.ID, VisitedAt: at.Add(time.Hour)})
		require.NoError(t, err)
		assert.False(t, inserted)

		latest, err := tx.LatestVisit(student.ID, booth.ID)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.True(t, at.Equal(latest.VisitedAt))

		none, err := tx.LatestVisit(student.ID, booth.ID+1)
		require.NoError(t, err)
		assert.Nil(t, none)
		return nil
	})
	require.NoError(t, err)
}

func TestRecordTx_PointChainBackstop(t *testing.T) {
	gormDB := dbtest.NewSQLite(t)
	records := dao.NewRecordDAO(gormDB)
	student, booth := seed(t, dao.NewAccountDAO(gormDB))

	err := records.WithinTx(context.Background(), func(tx *dao.RecordTx) error {
		_, inserted, err := tx.InsertPointLog(dao.PointLog{StudentID: student.ID, BoothID: booth.ID, Seq: 1, Points: 10, AwardedAt: at})
		require.NoError(t, err)
		assert.True(t, inserted)

		_, inserted, err = tx.InsertPointLog(dao.PointLog{StudentID: student.ID, BoothID: booth.ID, Seq: 1, Points: 10, AwardedAt: at})
		require.NoError(t, err)
		assert.False(t, inserted)

		_, inserted, err = tx.InsertPointLog(dao.PointLog{StudentID: student.ID, BoothID: booth.ID, Seq: 2, Points: 10, AwardedAt: at.Add(time.Hour)})
		require.NoError(t, err)
		assert.True(t, inserted)

		latest, err := tx.LatestPointLog(student.ID, booth.ID)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, 2, latest.Seq)
		return nil
	})
	require.NoError(t, err)
}

func TestRecordDAO_RollsBackOnError(t *testing.T) {
	gormDB := dbtest.NewSQLite(t)
	records := dao.NewRecordDAO(gormDB)
	logs := dao.NewLogDAO(gormDB)
	student, booth := seed(t, dao.NewAccountDAO(gormDB))

	errAbort := assert.AnError
	err := records.WithinTx(context.Background(), func(tx *dao.RecordTx) error {
		_, _, err := tx.InsertVisit(dao.VisitLog{StudentID: student.ID, BoothID: booth.ID, VisitedAt: at})
		require.NoError(t, err)
		require.NoError(t, tx.IncrementVisitCount(student.ID))
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	visited, err := logs.HasVisited(context.Background(), student.ID, booth.ID)
	require.NoError(t, err)
	assert.False(t, visited)

	account, err := dao.NewAccountDAO(gormDB).FindByID(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Zero(t, account.VisitCount)
}

func TestRecordTx_Hearts(t *testing.T) {
	gormDB := dbtest.NewSQLite(t)
	records := dao.NewRecordDAO(gormDB)
	posts := dao.NewPostDAO(gormDB)
	student, _ := seed(t, dao.NewAccountDAO(gormDB))

	post, err := posts.Insert(context.Background(), dao.Post{AuthorID: student.ID, Content: "hi", CreatedAt: at})
	require.NoError(t, err)

	err = records.WithinTx(context.Background(), func(tx *dao.RecordTx) error {
		inserted, err := tx.InsertHeart(post.ID, student.ID, at)
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = tx.InsertHeart(post.ID, student.ID, at)
		require.NoError(t, err)
		assert.False(t, inserted)

		count, err := tx.CountHearts(post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		deleted, err := tx.DeleteHeart(post.ID, student.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = tx.DeleteHeart(post.ID, student.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
		return nil
	})
	require.NoError(t, err)

	hearted, err := posts.HeartedBy(context.Background(), student.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, hearted)
}

func TestBoothDAO_UpsertRating(t *testing.T) {
	gormDB := dbtest.NewSQLite(t)
	booths := dao.NewBoothDAO(gormDB)
	student, booth := seed(t, dao.NewAccountDAO(gormDB))
	ctx := context.Background()

	first, err := booths.UpsertRating(ctx, dao.Rating{BoothID: booth.ID, StudentID: student.ID, Stars: 5})
	require.NoError(t, err)
	second, err := booths.UpsertRating(ctx, dao.Rating{BoothID: booth.ID, StudentID: student.ID, Stars: 1})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, second.Stars)

	summary, err := booths.Summary(ctx, booth.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.RatingCount)
	assert.Equal(t, int64(1), summary.RatingSum)

	_, err = booths.Insert(ctx, dao.Booth{OwnerID: booth.OwnerID, Name: "second", QRToken: "other"})
	assert.ErrorIs(t, err, dao.ErrBoothExists)
}
