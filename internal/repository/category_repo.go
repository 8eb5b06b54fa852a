package repository

import (
	"context"

	"github.com/kunotice/notice-backend/internal/domain"
	"gorm.io/gorm"
)

// CategoryRepository provider/category reference data (read-only)
type CategoryRepository interface {
	ListProviders(ctx context.Context) ([]*domain.Provider, error)
	ListWithFeed(ctx context.Context) ([]*domain.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// ListProviders returns providers ordered by name with their categories
func (r *categoryRepository) ListProviders(ctx context.Context) ([]*domain.Provider, error) {
	var providers []*domain.Provider
	err := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.id ASC")
		}).
		Order("name ASC").
		Find(&providers).Error
	return providers, err
}

// ListWithFeed returns categories that have an ingestion feed configured
func (r *categoryRepository) ListWithFeed(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Where("feed_url <> ''").
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

// NoticeRequestRepository notice request data access interface
type NoticeRequestRepository interface {
	Create(ctx context.Context, req *domain.NoticeRequest) error
}

type noticeRequestRepository struct {
	db *gorm.DB
}

// NewNoticeRequestRepository creates a new NoticeRequestRepository
func NewNoticeRequestRepository(db *gorm.DB) NoticeRequestRepository {
	return &noticeRequestRepository{db: db}
}

func (r *noticeRequestRepository) Create(ctx context.Context, req *domain.NoticeRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}
