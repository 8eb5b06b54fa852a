package repository

import (
	"context"
	"errors"

	"github.com/kunotice/notice-backend/internal/common"
	"github.com/kunotice/notice-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScrapRepository scrap data access interface
type ScrapRepository interface {
	// NoticeIDsByUser returns every notice id scrapped in any of the user's boxes
	NoticeIDsByUser(ctx context.Context, userID int64) ([]int64, error)
	// ListNoticesByUser returns the distinct notices scrapped in any of the user's boxes, newest first
	ListNoticesByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.Notice, int64, error)
	Exists(ctx context.Context, scrapBoxID, noticeID int64) (bool, error)
	ExistsForUser(ctx context.Context, userID, noticeID int64) (bool, error)
	Create(ctx context.Context, scrapBoxID, noticeID int64) error
	Delete(ctx context.Context, scrapBoxID, noticeID int64) error
	CountByNotice(ctx context.Context, noticeID int64) (int64, error)
}

type scrapRepository struct {
	db *gorm.DB
}

// NewScrapRepository creates a new ScrapRepository
func NewScrapRepository(db *gorm.DB) ScrapRepository {
	return &scrapRepository{db: db}
}

func ownedBy(userID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN scrap_boxes ON scrap_boxes.id = scraps.scrap_box_id").
			Where("scrap_boxes.user_id = ?", userID)
	}
}

func (r *scrapRepository) NoticeIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).Model(&domain.Scrap{}).
		Scopes(ownedBy(userID)).
		Pluck("scraps.notice_id", &ids).Error
	return ids, err
}

func (r *scrapRepository) ListNoticesByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.Notice, int64, error) {
	// 같은 공지를 여러 보관함에 담아도 한 번만 센다
	scrapped := r.db.Model(&domain.Scrap{}).
		Scopes(ownedBy(userID)).
		Select("scraps.notice_id")

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Notice{}).
		Where("notices.id IN (?)", scrapped).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	notices := make([]*domain.Notice, 0, limit)
	if total == 0 || int64(offset) >= total {
		return notices, total, nil
	}

	err := r.db.WithContext(ctx).
		Where("notices.id IN (?)", scrapped).
		Order("notices.date DESC").Order("notices.id DESC").
		Offset(offset).Limit(limit).
		Find(&notices).Error
	if err != nil {
		return nil, 0, err
	}
	return notices, total, nil
}

func (r *scrapRepository) Exists(ctx context.Context, scrapBoxID, noticeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Scrap{}).
		Where("scrap_box_id = ? AND notice_id = ?", scrapBoxID, noticeID).
		Count(&count).Error
	return count > 0, err
}

func (r *scrapRepository) ExistsForUser(ctx context.Context, userID, noticeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Scrap{}).
		Scopes(ownedBy(userID)).
		Where("scraps.notice_id = ?", noticeID).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a scrap; an existing (box, notice) pair is left untouched
func (r *scrapRepository) Create(ctx context.Context, scrapBoxID, noticeID int64) error {
	scrap := &domain.Scrap{ScrapBoxID: scrapBoxID, NoticeID: noticeID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scrap_box_id"}, {Name: "notice_id"}},
			DoNothing: true,
		}).
		Create(scrap).Error
}

// Delete removes a scrap; deleting an absent pair is a no-op
func (r *scrapRepository) Delete(ctx context.Context, scrapBoxID, noticeID int64) error {
	return r.db.WithContext(ctx).
		Where("scrap_box_id = ? AND notice_id = ?", scrapBoxID, noticeID).
		Delete(&domain.Scrap{}).Error
}

func (r *scrapRepository) CountByNotice(ctx context.Context, noticeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Scrap{}).
		Where("notice_id = ?", noticeID).
		Count(&count).Error
	return count, err
}

// ScrapBoxRepository scrap box data access interface
type ScrapBoxRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.ScrapBox, error)
	FindOrCreateByUser(ctx context.Context, userID int64) (*domain.ScrapBox, error)
}

type scrapBoxRepository struct {
	db *gorm.DB
}

// NewScrapBoxRepository creates a new ScrapBoxRepository
func NewScrapBoxRepository(db *gorm.DB) ScrapBoxRepository {
	return &scrapBoxRepository{db: db}
}

func (r *scrapBoxRepository) FindByID(ctx context.Context, id int64) (*domain.ScrapBox, error) {
	var box domain.ScrapBox
	err := r.db.WithContext(ctx).First(&box, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrScrapBoxNotFound
	}
	if err != nil {
		return nil, err
	}
	return &box, nil
}

// FindOrCreateByUser returns the user's oldest scrap box, creating one on first use
func (r *scrapBoxRepository) FindOrCreateByUser(ctx context.Context, userID int64) (*domain.ScrapBox, error) {
	var box domain.ScrapBox
	err := r.db.WithContext(ctx).
		Where(domain.ScrapBox{UserID: userID}).
		Order("id ASC").
		FirstOrCreate(&box).Error
	if err != nil {
		return nil, err
	}
	return &box, nil
}
