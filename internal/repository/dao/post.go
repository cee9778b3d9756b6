package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint      `gorm:"primaryKey"`
	AuthorID  uint      `gorm:"not null;index"`
	Content   string    `gorm:"size:500;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// Heart is unique per (post, account); a second insert is a no-op.
type Heart struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_heart_pair"`
	AccountID uint      `gorm:"not null;uniqueIndex:idx_heart_pair"`
	CreatedAt time.Time `gorm:"not null"`
}

// PostRow is a post with its author and heart count.
type PostRow struct {
	ID             uint
	AuthorID       uint
	AuthorNickname string
	Content        string
	HeartCount     int64
	CreatedAt      time.Time
}

type PostDAO struct {
	db *gorm.DB
}

func NewPostDAO(db *gorm.DB) *PostDAO {
	return &PostDAO{
		db: db,
	}
}

func (d *PostDAO) Insert(ctx context.Context, post Post) (Post, error) {
	if err := d.db.WithContext(ctx).Create(&post).Error; err != nil {
		return Post{}, err
	}

	return post, nil
}

func (d *PostDAO) FindByID(ctx context.Context, id uint) (Post, error) {
	var post Post
	if err := d.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return Post{}, notFound(err, ErrPostNotFound)
	}

	return post, nil
}

func (d *PostDAO) rows(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Table("posts AS p").
		Select("p.id, p.author_id, a.nickname AS author_nickname, p.content, p.created_at, " +
			"(SELECT COUNT(*) FROM hearts AS h WHERE h.post_id = p.id) AS heart_count").
		Joins("JOIN accounts AS a ON a.id = p.author_id")
}

func (d *PostDAO) FindRow(ctx context.Context, id uint) (PostRow, error) {
	var rows []PostRow
	if err := d.rows(ctx).Where("p.id = ?", id).Scan(&rows).Error; err != nil {
		return PostRow{}, err
	}
	if len(rows) == 0 {
		return PostRow{}, ErrPostNotFound
	}

	return rows[0], nil
}

// List returns posts newest first. A non-zero beforeID pages past that post.
func (d *PostDAO) List(ctx context.Context, beforeID uint, limit int) ([]PostRow, error) {
	query := d.rows(ctx)
	if beforeID > 0 {
		query = query.Where("p.id < ?", beforeID)
	}

	var rows []PostRow
	err := query.Order("p.id DESC").Limit(limit).Scan(&rows).Error

	return rows, err
}

// HeartedBy returns which of postIDs accountID has hearted.
func (d *PostDAO) HeartedBy(ctx context.Context, accountID uint, postIDs []uint) (map[uint]bool, error) {
	hearted := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return hearted, nil
	}

	var ids []uint
	err := d.db.WithContext(ctx).Model(&Heart{}).
		Where("account_id = ? AND post_id IN ?", accountID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		hearted[id] = true
	}

	return hearted, nil
}

func (d *PostDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&Heart{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

func (d *PostDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Post{}).Count(&count).Error
	return count, err
}
