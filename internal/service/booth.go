package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/domain"
)

type BoothRepository interface {
	List(ctx context.Context) ([]domain.BoothSummary, error)
	Summary(ctx context.Context, id uint) (domain.BoothSummary, error)
	Delete(ctx context.Context, id uint) error
}

type BoothService struct {
	repo BoothRepository
}

func NewBoothService(repo BoothRepository) *BoothService {
	return &BoothService{
		repo: repo,
	}
}

func (s *BoothService) ListBooths(ctx context.Context) ([]domain.BoothSummary, error) {
	booths, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return booths, nil
}

func (s *BoothService) GetBooth(ctx context.Context, id uint) (domain.BoothSummary, error) {
	booth, err := s.repo.Summary(ctx, id)
	if err != nil {
		return domain.BoothSummary{}, fmt.Errorf("s.repo.Summary -> %w", err)
	}

	return booth, nil
}

// DeleteBooth removes the booth together with its visits, awards and ratings.
func (s *BoothService) DeleteBooth(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
