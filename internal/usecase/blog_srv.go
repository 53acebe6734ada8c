package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BlogService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req request.CreatePostRequest) (*response.PostResponse, error)
	UpdatePost(ctx context.Context, slug string, req request.UpdatePostRequest) (*response.PostResponse, error)
	GetPost(ctx context.Context, slug string) (*response.PostResponse, error)
	ListPosts(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error)
}

type blogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBlogService(repo *repository.Repository, log *zap.Logger) BlogService {
	return &blogService{
		repo: repo,
		log:  log.With(zap.String("service", "blog")),
	}
}

func (s *blogService) CreatePost(ctx context.Context, authorID uuid.UUID, req request.CreatePostRequest) (*response.PostResponse, error) {
	existing, err := s.repo.Post.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	now := time.Now()
	post := &entity.Post{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Slug:     req.Slug,
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: authorID,
	}
	if req.Publish {
		post.PublishedAt = &now
	}
	if err := s.repo.Post.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info("Post created", zap.String("slug", post.Slug))
	resp := response.PostToResponse(post)
	return &resp, nil
}

func (s *blogService) UpdatePost(ctx context.Context, slug string, req request.UpdatePostRequest) (*response.PostResponse, error) {
	post, err := s.repo.Post.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	now := time.Now()
	post.Title = req.Title
	post.Body = req.Body
	post.UpdatedAt = now
	if req.Publish && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	if !req.Publish {
		post.PublishedAt = nil
	}
	if err := s.repo.Post.Update(ctx, post); err != nil {
		return nil, err
	}

	resp := response.PostToResponse(post)
	return &resp, nil
}

func (s *blogService) GetPost(ctx context.Context, slug string) (*response.PostResponse, error) {
	post, err := s.repo.Post.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsPublished() {
		return nil, ErrPostNotFound
	}
	resp := response.PostToResponse(post)
	return &resp, nil
}

func (s *blogService) ListPosts(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error) {
	posts, err := s.repo.Post.FindPublished(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Post.CountPublished(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]response.PostResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, response.PostSummaryToResponse(p))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}
