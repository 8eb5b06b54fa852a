package migration

import (
	"fmt"

	"github.com/kunotice/notice-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for every notice table and seeds reference data if empty.
func Run(db *gorm.DB) error {
	// 1. AutoMigrate - 테이블 없으면 생성, 있으면 컬럼/인덱스만 보강
	if err := db.AutoMigrate(
		&domain.Provider{},
		&domain.Category{},
		&domain.Notice{},
		&domain.User{},
		&domain.ScrapBox{},
		&domain.Scrap{},
		&domain.NoticeRequest{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 2. Seed - providers 테이블이 비어있을 때만 기본 제공처 삽입
	var count int64
	if err := db.Model(&domain.Provider{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return seedProviders(db)
	}

	return nil
}

func seedProviders(db *gorm.DB) error {
	providers := []domain.Provider{
		{
			Name: "정보대학",
			Categories: []*domain.Category{
				{Name: "공지사항", MappedCategory: "공지사항"},
				{Name: "학부 공지", MappedCategory: "학사"},
				{Name: "취업정보", MappedCategory: "취업"},
			},
		},
		{
			Name: "미디어학부",
			Categories: []*domain.Category{
				{Name: "학부공지", MappedCategory: "공지사항"},
				{Name: "학사일정", MappedCategory: "학사"},
				{Name: "장학공지", MappedCategory: "장학"},
			},
		},
		{
			Name: "학생처",
			Categories: []*domain.Category{
				{Name: "장학금", MappedCategory: "장학"},
				{Name: "행사", MappedCategory: "행사"},
			},
		},
	}

	return db.Create(&providers).Error
}
