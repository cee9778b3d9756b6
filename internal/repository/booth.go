package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

var (
	ErrBoothExists   = dao.ErrBoothExists
	ErrBoothNotFound = dao.ErrBoothNotFound
)

type BoothDAO interface {
	Insert(ctx context.Context, booth dao.Booth) (dao.Booth, error)
	FindByID(ctx context.Context, id uint) (dao.Booth, error)
	FindByOwnerID(ctx context.Context, ownerID uint) (dao.Booth, error)
	List(ctx context.Context) ([]dao.BoothSummary, error)
	Summary(ctx context.Context, id uint) (dao.BoothSummary, error)
	UpdateQRToken(ctx context.Context, id uint, token string) error
	ExistsQRToken(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, id uint) error
	UpsertRating(ctx context.Context, rating dao.Rating) (dao.Rating, error)
	Count(ctx context.Context) (int64, error)
}

type BoothRepository struct {
	dao BoothDAO
}

func NewBoothRepository(dao BoothDAO) *BoothRepository {
	return &BoothRepository{
		dao: dao,
	}
}

func (r *BoothRepository) Create(ctx context.Context, booth domain.Booth) (domain.Booth, error) {
	created, err := r.dao.Insert(ctx, boothToDAO(booth))
	if err != nil {
		return domain.Booth{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return boothToDomain(created), nil
}

func (r *BoothRepository) FindByID(ctx context.Context, id uint) (domain.Booth, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Booth{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return boothToDomain(found), nil
}

func (r *BoothRepository) FindByOwnerID(ctx context.Context, ownerID uint) (domain.Booth, error) {
	found, err := r.dao.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return domain.Booth{}, fmt.Errorf("r.dao.FindByOwnerID -> %w", err)
	}

	return boothToDomain(found), nil
}

func (r *BoothRepository) List(ctx context.Context) ([]domain.BoothSummary, error) {
	rows, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	result := make([]domain.BoothSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, summaryToDomain(row))
	}

	return result, nil
}

func (r *BoothRepository) Summary(ctx context.Context, id uint) (domain.BoothSummary, error) {
	row, err := r.dao.Summary(ctx, id)
	if err != nil {
		return domain.BoothSummary{}, fmt.Errorf("r.dao.Summary -> %w", err)
	}

	return summaryToDomain(row), nil
}

func (r *BoothRepository) UpdateQRToken(ctx context.Context, id uint, token string) error {
	if err := r.dao.UpdateQRToken(ctx, id, token); err != nil {
		return fmt.Errorf("r.dao.UpdateQRToken -> %w", err)
	}

	return nil
}

func (r *BoothRepository) QRTokenTaken(ctx context.Context, token string) (bool, error) {
	return r.dao.ExistsQRToken(ctx, token)
}

func (r *BoothRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *BoothRepository) UpsertRating(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	stored, err := r.dao.UpsertRating(ctx, dao.Rating{
		BoothID:   rating.BoothID,
		StudentID: rating.StudentID,
		Stars:     rating.Stars,
		UpdatedAt: rating.UpdatedAt,
	})
	if err != nil {
		return domain.Rating{}, fmt.Errorf("r.dao.UpsertRating -> %w", err)
	}

	return domain.Rating{
		ID:        stored.ID,
		BoothID:   stored.BoothID,
		StudentID: stored.StudentID,
		Stars:     stored.Stars,
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

func (r *BoothRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func boothToDomain(b dao.Booth) domain.Booth {
	return domain.Booth{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Location:    b.Location,
		Description: b.Description,
		QRToken:     b.QRToken,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func boothToDAO(b domain.Booth) dao.Booth {
	return dao.Booth{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Location:    b.Location,
		Description: b.Description,
		QRToken:     b.QRToken,
	}
}

func summaryToDomain(row dao.BoothSummary) domain.BoothSummary {
	summary := domain.BoothSummary{
		Booth:       boothToDomain(row.Booth),
		RatingCount: row.RatingCount,
	}
	if row.RatingCount > 0 {
		summary.AverageRating = float64(row.RatingSum) / float64(row.RatingCount)
	}

	return summary
}
