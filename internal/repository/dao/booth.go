package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Booth struct {
	ID          uint   `gorm:"primaryKey"`
	OwnerID     uint   `gorm:"not null;uniqueIndex"`
	Name        string `gorm:"size:50;not null"`
	Location    string `gorm:"size:100"`
	Description string `gorm:"size:500"`
	QRToken     string `gorm:"size:36;not null;uniqueIndex"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Rating struct {
	ID        uint `gorm:"primaryKey"`
	BoothID   uint `gorm:"not null;uniqueIndex:idx_rating_pair"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_rating_pair"`
	Stars     int  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BoothSummary is a booth row with its rating aggregate.
type BoothSummary struct {
	Booth
	RatingCount int64
	RatingSum   int64
}

type BoothDAO struct {
	db *gorm.DB
}

func NewBoothDAO(db *gorm.DB) *BoothDAO {
	return &BoothDAO{
		db: db,
	}
}

func (d *BoothDAO) FindByID(ctx context.Context, id uint) (Booth, error) {
	var booth Booth
	if err := d.db.WithContext(ctx).First(&booth, id).Error; err != nil {
		return Booth{}, notFound(err, ErrBoothNotFound)
	}

	return booth, nil
}

func (d *BoothDAO) FindByOwnerID(ctx context.Context, ownerID uint) (Booth, error) {
	var booth Booth
	if err := d.db.WithContext(ctx).First(&booth, "owner_id = ?", ownerID).Error; err != nil {
		return Booth{}, notFound(err, ErrBoothNotFound)
	}

	return booth, nil
}

func (d *BoothDAO) Insert(ctx context.Context, booth Booth) (Booth, error) {
	if err := d.db.WithContext(ctx).Create(&booth).Error; err != nil {
		if isUniqueViolation(err) {
			return Booth{}, ErrBoothExists
		}
		return Booth{}, err
	}

	return booth, nil
}

func (d *BoothDAO) List(ctx context.Context) ([]BoothSummary, error) {
	var rows []BoothSummary
	err := d.db.WithContext(ctx).Table("booths AS b").
		Select("b.*, COUNT(r.id) AS rating_count, COALESCE(SUM(r.stars), 0) AS rating_sum").
		Joins("LEFT JOIN ratings AS r ON r.booth_id = b.id").
		Group("b.id").
		Order("b.id").
		Scan(&rows).Error

	return rows, err
}

func (d *BoothDAO) Summary(ctx context.Context, id uint) (BoothSummary, error) {
	booth, err := d.FindByID(ctx, id)
	if err != nil {
		return BoothSummary{}, err
	}

	var agg struct {
		RatingCount int64
		RatingSum   int64
	}
	err = d.db.WithContext(ctx).Model(&Rating{}).
		Select("COUNT(id) AS rating_count, COALESCE(SUM(stars), 0) AS rating_sum").
		Where("booth_id = ?", id).
		Scan(&agg).Error
	if err != nil {
		return BoothSummary{}, err
	}

	return BoothSummary{Booth: booth, RatingCount: agg.RatingCount, RatingSum: agg.RatingSum}, nil
}

func (d *BoothDAO) UpdateQRToken(ctx context.Context, id uint, token string) error {
	result := d.db.WithContext(ctx).Model(&Booth{}).Where("id = ?", id).Update("qr_token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoothNotFound
	}

	return nil
}

func (d *BoothDAO) ExistsQRToken(ctx context.Context, token string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Booth{}).Where("qr_token = ?", token).Count(&count).Error
	return count > 0, err
}

// Delete removes the booth with every log and rating that references it.
func (d *BoothDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booth_id = ?", id).Delete(&VisitLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("booth_id = ?", id).Delete(&PointLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("booth_id = ?", id).Delete(&Rating{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Booth{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBoothNotFound
		}
		return nil
	})
}

// UpsertRating keeps one rating per (booth, student); a second call replaces the stars.
func (d *BoothDAO) UpsertRating(ctx context.Context, rating Rating) (Rating, error) {
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booth_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return Rating{}, err
	}

	var stored Rating
	err = d.db.WithContext(ctx).First(&stored, "booth_id = ? AND student_id = ?", rating.BoothID, rating.StudentID).Error

	return stored, err
}

func (d *BoothDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Booth{}).Count(&count).Error
	return count, err
}
