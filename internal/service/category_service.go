package service

import (
	"context"

	"github.com/kunotice/notice-backend/internal/domain"
	"github.com/kunotice/notice-backend/internal/repository"
	"github.com/kunotice/notice-backend/pkg/cache"
	"github.com/kunotice/notice-backend/pkg/logger"
)

// CategoryService read access to providers and their categories
type CategoryService interface {
	ListProviders(ctx context.Context) ([]domain.ProviderResponse, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache cache.Service
}

// NewCategoryService creates a new CategoryService. cacheSvc may be nil.
func NewCategoryService(repo repository.CategoryRepository, cacheSvc cache.Service) CategoryService {
	return &categoryService{repo: repo, cache: cacheSvc}
}

// ListProviders returns the provider/category tree used by filter screens
func (s *categoryService) ListProviders(ctx context.Context) ([]domain.ProviderResponse, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		var cached []domain.ProviderResponse
		if err := s.cache.GetCategoryTree(ctx, &cached); err == nil {
			return cached, nil
		}
	}

	providers, err := s.repo.ListProviders(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ProviderResponse, 0, len(providers))
	for _, p := range providers {
		result = append(result, p.ToResponse())
	}

	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.SetCategoryTree(ctx, result); err != nil {
			logger.Warn("category cache set failed: %v", err)
		}
	}
	return result, nil
}
