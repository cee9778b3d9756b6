package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

const (
	MaxPostLength   = 500
	DefaultPageSize = 20
	MaxPageSize     = 50
)

type PostRepository interface {
	Create(ctx context.Context, post domain.Post) (domain.Post, error)
	Find(ctx context.Context, id, viewerID uint) (domain.Post, error)
	FindByID(ctx context.Context, id uint) (domain.Post, error)
	List(ctx context.Context, viewerID, beforeID uint, limit int) ([]domain.Post, error)
	Delete(ctx context.Context, id uint) error
}

type FeedService struct {
	posts PostRepository
	now   func() time.Time
}

func NewFeedService(posts PostRepository) *FeedService {
	return &FeedService{
		posts: posts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ListPosts pages newest first. beforeID 0 starts from the newest post.
func (s *FeedService) ListPosts(ctx context.Context, viewerID, beforeID uint, limit int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	posts, err := s.posts.List(ctx, viewerID, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("s.posts.List -> %w", err)
	}

	return posts, nil
}

func (s *FeedService) CreatePost(ctx context.Context, authorID uint, content string) (domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxPostLength {
		return domain.Post{}, ErrInvalidInput
	}

	post, err := s.posts.Create(ctx, domain.Post{
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.now(),
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("s.posts.Create -> %w", err)
	}

	return post, nil
}

func (s *FeedService) GetPost(ctx context.Context, id, viewerID uint) (domain.Post, error) {
	post, err := s.posts.Find(ctx, id, viewerID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("s.posts.Find -> %w", err)
	}

	return post, nil
}

// DeletePost is allowed to the author and to admins.
func (s *FeedService) DeletePost(ctx context.Context, actor domain.Account, id uint) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("s.posts.FindByID -> %w", err)
	}

	if post.AuthorID != actor.ID && actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}

	if err = s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.posts.Delete -> %w", err)
	}

	return nil
}
