package repository

import (
	"context"
	"time"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

type RecordDAO interface {
	WithinTx(ctx context.Context, fn func(tx *dao.RecordTx) error) error
}

// RecordTx is the set of reads and writes available inside one recording transaction.
type RecordTx interface {
	LockAccount(id uint) (domain.Account, error)
	LockAccountByQRToken(token string) (domain.Account, error)
	FindBoothByQRToken(token string) (domain.Booth, error)
	FindBoothByOwnerID(ownerID uint) (domain.Booth, error)
	LatestVisit(studentID, boothID uint) (*domain.VisitLog, error)
	InsertVisit(visit domain.VisitLog) (domain.VisitLog, bool, error)
	IncrementVisitCount(accountID uint) error
	LatestPointLog(studentID, boothID uint) (*domain.PointLog, error)
	InsertPointLog(log domain.PointLog) (domain.PointLog, bool, error)
	FindPost(id uint) (domain.Post, error)
	HasHeart(postID, accountID uint) (bool, error)
	DeleteHeart(postID, accountID uint) (bool, error)
	InsertHeart(postID, accountID uint, at time.Time) (bool, error)
	CountHearts(postID uint) (int64, error)
}

type RecordRepository struct {
	dao RecordDAO
}

func NewRecordRepository(dao RecordDAO) *RecordRepository {
	return &RecordRepository{
		dao: dao,
	}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Errors from fn
// are returned unwrapped so callers can match their own typed errors.
func (r *RecordRepository) WithinTx(ctx context.Context, fn func(tx RecordTx) error) error {
	return r.dao.WithinTx(ctx, func(tx *dao.RecordTx) error {
		return fn(&recordTx{tx: tx})
	})
}

type recordTx struct {
	tx *dao.RecordTx
}

func (t *recordTx) LockAccount(id uint) (domain.Account, error) {
	found, err := t.tx.LockAccount(id)
	if err != nil {
		return domain.Account{}, err
	}

	return accountToDomain(found), nil
}

func (t *recordTx) LockAccountByQRToken(token string) (domain.Account, error) {
	found, err := t.tx.LockAccountByQRToken(token)
	if err != nil {
		return domain.Account{}, err
	}

	return accountToDomain(found), nil
}

func (t *recordTx) FindBoothByQRToken(token string) (domain.Booth, error) {
	found, err := t.tx.FindBoothByQRToken(token)
	if err != nil {
		return domain.Booth{}, err
	}

	return boothToDomain(found), nil
}

func (t *recordTx) FindBoothByOwnerID(ownerID uint) (domain.Booth, error) {
	found, err := t.tx.FindBoothByOwnerID(ownerID)
	if err != nil {
		return domain.Booth{}, err
	}

	return boothToDomain(found), nil
}

func (t *recordTx) LatestVisit(studentID, boothID uint) (*domain.VisitLog, error) {
	found, err := t.tx.LatestVisit(studentID, boothID)
	if err != nil || found == nil {
		return nil, err
	}

	visit := visitToDomain(*found)
	return &visit, nil
}

func (t *recordTx) InsertVisit(visit domain.VisitLog) (domain.VisitLog, bool, error) {
	created, inserted, err := t.tx.InsertVisit(dao.VisitLog{
		StudentID: visit.StudentID,
		BoothID:   visit.BoothID,
		VisitedAt: visit.VisitedAt,
	})
	if err != nil || !inserted {
		return domain.VisitLog{}, inserted, err
	}

	return visitToDomain(created), true, nil
}

func (t *recordTx) IncrementVisitCount(accountID uint) error {
	return t.tx.IncrementVisitCount(accountID)
}

func (t *recordTx) LatestPointLog(studentID, boothID uint) (*domain.PointLog, error) {
	found, err := t.tx.LatestPointLog(studentID, boothID)
	if err != nil || found == nil {
		return nil, err
	}

	log := pointLogToDomain(*found)
	return &log, nil
}

func (t *recordTx) InsertPointLog(log domain.PointLog) (domain.PointLog, bool, error) {
	created, inserted, err := t.tx.InsertPointLog(dao.PointLog{
		StudentID: log.StudentID,
		BoothID:   log.BoothID,
		Seq:       log.Seq,
		Points:    log.Points,
		AwardedAt: log.AwardedAt,
	})
	if err != nil || !inserted {
		return domain.PointLog{}, inserted, err
	}

	return pointLogToDomain(created), true, nil
}

func (t *recordTx) FindPost(id uint) (domain.Post, error) {
	found, err := t.tx.FindPost(id)
	if err != nil {
		return domain.Post{}, err
	}

	return domain.Post{
		ID:        found.ID,
		AuthorID:  found.AuthorID,
		Content:   found.Content,
		CreatedAt: found.CreatedAt,
	}, nil
}

func (t *recordTx) HasHeart(postID, accountID uint) (bool, error) {
	return t.tx.HasHeart(postID, accountID)
}

func (t *recordTx) DeleteHeart(postID, accountID uint) (bool, error) {
	return t.tx.DeleteHeart(postID, accountID)
}

func (t *recordTx) InsertHeart(postID, accountID uint, at time.Time) (bool, error) {
	return t.tx.InsertHeart(postID, accountID, at)
}

func (t *recordTx) CountHearts(postID uint) (int64, error) {
	return t.tx.CountHearts(postID)
}

func visitToDomain(v dao.VisitLog) domain.VisitLog {
	return domain.VisitLog{
		ID:        v.ID,
		StudentID: v.StudentID,
		BoothID:   v.BoothID,
		VisitedAt: v.VisitedAt,
	}
}

func pointLogToDomain(p dao.PointLog) domain.PointLog {
	return domain.PointLog{
		ID:        p.ID,
		StudentID: p.StudentID,
		BoothID:   p.BoothID,
		Points:    p.Points,
		Seq:       p.Seq,
		AwardedAt: p.AwardedAt,
	}
}
