package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordDAO runs the recording operations that must read and write atomically.
type RecordDAO struct {
	db *gorm.DB
}

func NewRecordDAO(db *gorm.DB) *RecordDAO {
	return &RecordDAO{
		db: db,
	}
}

// WithinTx runs fn inside one database transaction. Every statement issued
// through the RecordTx handed to fn belongs to that transaction; fn returning
// an error rolls it back.
func (d *RecordDAO) WithinTx(ctx context.Context, fn func(tx *RecordTx) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RecordTx{tx: tx})
	})
}

type RecordTx struct {
	tx *gorm.DB
}

func (t *RecordTx) lock() *gorm.DB {
	return t.tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockAccount loads the account and holds its row lock until the transaction ends.
func (t *RecordTx) LockAccount(id uint) (Account, error) {
	var account Account
	if err := t.lock().First(&account, id).Error; err != nil {
		return Account{}, notFound(err, ErrAccountNotFound)
	}

	return account, nil
}

func (t *RecordTx) LockAccountByQRToken(token string) (Account, error) {
	var account Account
	if err := t.lock().First(&account, "qr_token = ?", token).Error; err != nil {
		return Account{}, notFound(err, ErrAccountNotFound)
	}

	return account, nil
}

func (t *RecordTx) FindBoothByQRToken(token string) (Booth, error) {
	var booth Booth
	if err := t.tx.First(&booth, "qr_token = ?", token).Error; err != nil {
		return Booth{}, notFound(err, ErrBoothNotFound)
	}

	return booth, nil
}

func (t *RecordTx) FindBoothByOwnerID(ownerID uint) (Booth, error) {
	var booth Booth
	if err := t.tx.First(&booth, "owner_id = ?", ownerID).Error; err != nil {
		return Booth{}, notFound(err, ErrBoothNotFound)
	}

	return booth, nil
}

// LatestVisit returns nil when the student never visited the booth.
func (t *RecordTx) LatestVisit(studentID, boothID uint) (*VisitLog, error) {
	var visit VisitLog
	err := t.tx.Where("student_id = ? AND booth_id = ?", studentID, boothID).
		Order("visited_at DESC, id DESC").
		First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &visit, nil
}

// InsertVisit reports false when a visit for the pair already exists.
func (t *RecordTx) InsertVisit(visit VisitLog) (VisitLog, bool, error) {
	result := t.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&visit)
	if result.Error != nil {
		return VisitLog{}, false, result.Error
	}

	return visit, result.RowsAffected > 0, nil
}

func (t *RecordTx) IncrementVisitCount(accountID uint) error {
	return t.tx.Model(&Account{}).Where("id = ?", accountID).
		UpdateColumn("visit_count", gorm.Expr("visit_count + 1")).Error
}

// LatestPointLog returns nil when the student never received points from the booth.
func (t *RecordTx) LatestPointLog(studentID, boothID uint) (*PointLog, error) {
	var log PointLog
	err := t.tx.Where("student_id = ? AND booth_id = ?", studentID, boothID).
		Order("seq DESC").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &log, nil
}

// InsertPointLog reports false when another award already took log.Seq.
func (t *RecordTx) InsertPointLog(log PointLog) (PointLog, bool, error) {
	result := t.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&log)
	if result.Error != nil {
		return PointLog{}, false, result.Error
	}

	return log, result.RowsAffected > 0, nil
}

func (t *RecordTx) FindPost(id uint) (Post, error) {
	var post Post
	if err := t.tx.First(&post, id).Error; err != nil {
		return Post{}, notFound(err, ErrPostNotFound)
	}

	return post, nil
}

func (t *RecordTx) HasHeart(postID, accountID uint) (bool, error) {
	var count int64
	err := t.tx.Model(&Heart{}).Where("post_id = ? AND account_id = ?", postID, accountID).Count(&count).Error
	return count > 0, err
}

func (t *RecordTx) DeleteHeart(postID, accountID uint) (bool, error) {
	result := t.tx.Where("post_id = ? AND account_id = ?", postID, accountID).Delete(&Heart{})
	return result.RowsAffected > 0, result.Error
}

// InsertHeart reports false when the heart already exists.
func (t *RecordTx) InsertHeart(postID, accountID uint, at time.Time) (bool, error) {
	heart := Heart{PostID: postID, AccountID: accountID, CreatedAt: at}
	result := t.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&heart)
	return result.RowsAffected > 0, result.Error
}

func (t *RecordTx) CountHearts(postID uint) (int64, error) {
	var count int64
	err := t.tx.Model(&Heart{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
