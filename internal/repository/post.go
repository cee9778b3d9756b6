package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

var ErrPostNotFound = dao.ErrPostNotFound

type PostDAO interface {
	Insert(ctx context.Context, post dao.Post) (dao.Post, error)
	FindByID(ctx context.Context, id uint) (dao.Post, error)
	FindRow(ctx context.Context, id uint) (dao.PostRow, error)
	List(ctx context.Context, beforeID uint, limit int) ([]dao.PostRow, error)
	HeartedBy(ctx context.Context, accountID uint, postIDs []uint) (map[uint]bool, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type PostRepository struct {
	dao PostDAO
}

func NewPostRepository(dao PostDAO) *PostRepository {
	return &PostRepository{
		dao: dao,
	}
}

func (r *PostRepository) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	created, err := r.dao.Insert(ctx, dao.Post{
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.Find(ctx, created.ID, post.AuthorID)
}

// Find loads one post as seen by viewerID.
func (r *PostRepository) Find(ctx context.Context, id, viewerID uint) (domain.Post, error) {
	row, err := r.dao.FindRow(ctx, id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.FindRow -> %w", err)
	}

	hearted, err := r.dao.HeartedBy(ctx, viewerID, []uint{id})
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.HeartedBy -> %w", err)
	}

	post := postRowToDomain(row)
	post.Hearted = hearted[id]

	return post, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (domain.Post, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return domain.Post{
		ID:        found.ID,
		AuthorID:  found.AuthorID,
		Content:   found.Content,
		CreatedAt: found.CreatedAt,
	}, nil
}

func (r *PostRepository) List(ctx context.Context, viewerID, beforeID uint, limit int) ([]domain.Post, error) {
	rows, err := r.dao.List(ctx, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	hearted, err := r.dao.HeartedBy(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.HeartedBy -> %w", err)
	}

	posts := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		post := postRowToDomain(row)
		post.Hearted = hearted[row.ID]
		posts = append(posts, post)
	}

	return posts, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func postRowToDomain(row dao.PostRow) domain.Post {
	return domain.Post{
		ID:             row.ID,
		AuthorID:       row.AuthorID,
		AuthorNickname: row.AuthorNickname,
		Content:        row.Content,
		HeartCount:     row.HeartCount,
		CreatedAt:      row.CreatedAt,
	}
}
