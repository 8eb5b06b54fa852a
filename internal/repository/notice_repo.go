package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kunotice/notice-backend/internal/common"
	"github.com/kunotice/notice-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoticeQuery 목록 조회 조건. 0 값 필드는 조건에서 제외된다.
type NoticeQuery struct {
	From       *time.Time // inclusive
	Until      *time.Time // exclusive
	Categories []string   // mapped_category IN (...)
	Providers  []string   // providers.name IN (...)
	Keyword    string     // title/content/writer 부분 일치
	CategoryID int64
	ProviderID int64
}

// NoticeRepository notice data access interface
type NoticeRepository interface {
	List(ctx context.Context, q NoticeQuery, offset, limit int) ([]*domain.Notice, int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Notice, error)
	Exists(ctx context.Context, id int64) (bool, error)
	IncrementView(ctx context.Context, id int64) error
	CreateIfAbsent(ctx context.Context, notice *domain.Notice) (bool, error)
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

// List returns one window of matching notices ordered by date (newest first)
// together with the total match count.
func (r *noticeRepository) List(ctx context.Context, q NoticeQuery, offset, limit int) ([]*domain.Notice, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Notice{}).
		Scopes(noticeFilter(q)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	notices := make([]*domain.Notice, 0, limit)
	if total == 0 || int64(offset) >= total {
		return notices, total, nil
	}

	err := r.db.WithContext(ctx).
		Scopes(noticeFilter(q)).
		Order("notices.date DESC").Order("notices.id DESC").
		Offset(offset).Limit(limit).
		Find(&notices).Error
	if err != nil {
		return nil, 0, err
	}
	return notices, total, nil
}

func noticeFilter(q NoticeQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		needCategory := len(q.Categories) > 0 || len(q.Providers) > 0 || q.ProviderID != 0
		if needCategory {
			db = db.Joins("JOIN categories ON categories.id = notices.category_id")
		}
		if len(q.Providers) > 0 {
			db = db.Joins("JOIN providers ON providers.id = categories.provider_id").
				Where("providers.name IN ?", q.Providers)
		}
		if len(q.Categories) > 0 {
			db = db.Where("categories.mapped_category IN ?", q.Categories)
		}
		if q.ProviderID != 0 {
			db = db.Where("categories.provider_id = ?", q.ProviderID)
		}
		if q.CategoryID != 0 {
			db = db.Where("notices.category_id = ?", q.CategoryID)
		}
		if q.From != nil {
			db = db.Where("notices.date >= ?", *q.From)
		}
		if q.Until != nil {
			db = db.Where("notices.date < ?", *q.Until)
		}
		if q.Keyword != "" {
			pattern := "%" + escapeLike(strings.ToLower(q.Keyword)) + "%"
			db = db.Where(
				"(LOWER(notices.title) LIKE ? ESCAPE '!' OR LOWER(notices.content) LIKE ? ESCAPE '!' OR LOWER(notices.writer) LIKE ? ESCAPE '!')",
				pattern, pattern, pattern,
			)
		}
		return db
	}
}

// escapeLike makes LIKE wildcards in user input match literally ('!' is the escape char)
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// FindByID loads a notice with its category and provider
func (r *noticeRepository) FindByID(ctx context.Context, id int64) (*domain.Notice, error) {
	var notice domain.Notice
	err := r.db.WithContext(ctx).
		Preload("Category.Provider").
		First(&notice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNoticeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

// Exists checks whether a notice id is known
func (r *noticeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notice{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// IncrementView bumps view_count with a single UPDATE so concurrent reads do not lose increments
func (r *noticeRepository) IncrementView(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&domain.Notice{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNoticeNotFound
	}
	return nil
}

// CreateIfAbsent inserts a notice unless one with the same URL exists.
// Returns true when a row was inserted.
func (r *noticeRepository) CreateIfAbsent(ctx context.Context, notice *domain.Notice) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "url"}}, DoNothing: true}).
		Create(notice)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
