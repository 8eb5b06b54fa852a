package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kunotice/notice-backend/internal/common"
	"github.com/kunotice/notice-backend/internal/domain"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type RepositorySuite struct {
	suite.Suite
	db      *gorm.DB
	ctx     context.Context
	notices NoticeRepository
	scraps  ScrapRepository
	boxes   ScrapBoxRepository
	cats    CategoryRepository

	infoNotice  *domain.Category // 정보대학 / 공지사항
	mediaAcadem *domain.Category // 미디어학부 / 학사
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *RepositorySuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(
		&domain.Provider{}, &domain.Category{}, &domain.Notice{},
		&domain.User{}, &domain.ScrapBox{}, &domain.Scrap{}, &domain.NoticeRequest{},
	))

	s.db = db
	s.ctx = context.Background()
	s.notices = NewNoticeRepository(db)
	s.scraps = NewScrapRepository(db)
	s.boxes = NewScrapBoxRepository(db)
	s.cats = NewCategoryRepository(db)

	info := &domain.Provider{Name: "정보대학"}
	media := &domain.Provider{Name: "미디어학부"}
	s.Require().NoError(db.Create(info).Error)
	s.Require().NoError(db.Create(media).Error)

	s.infoNotice = &domain.Category{Name: "공지사항", MappedCategory: "공지사항", ProviderID: info.ID, FeedURL: "https://info.example.com/rss"}
	s.mediaAcadem = &domain.Category{Name: "학사일정", MappedCategory: "학사", ProviderID: media.ID}
	s.Require().NoError(db.Create(s.infoNotice).Error)
	s.Require().NoError(db.Create(s.mediaAcadem).Error)
}

func (s *RepositorySuite) TearDownTest() {
	sqlDB, _ := s.db.DB()
	_ = sqlDB.Close()
}

func (s *RepositorySuite) addNotice(title string, date string, cat *domain.Category) *domain.Notice {
	n := &domain.Notice{
		Title:      title,
		Content:    title + " 본문",
		Writer:     "관리자",
		URL:        "https://example.com/" + title,
		Date:       day(date),
		CategoryID: cat.ID,
	}
	s.Require().NoError(s.db.Create(n).Error)
	return n
}

func ids(notices []*domain.Notice) []int64 {
	out := make([]int64, len(notices))
	for i, n := range notices {
		out[i] = n.ID
	}
	return out
}

func (s *RepositorySuite) TestList_OrderedByDateDesc() {
	old := s.addNotice("old", "2021-06-01", s.infoNotice)
	recent := s.addNotice("recent", "2025-01-01", s.mediaAcadem)

	notices, total, err := s.notices.List(s.ctx, NoticeQuery{}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal([]int64{recent.ID, old.ID}, ids(notices))
}

func (s *RepositorySuite) TestList_CategoryAndDateFilter() {
	first := s.addNotice("first", "2021-06-01", s.infoNotice)
	s.addNotice("second", "2025-01-01", s.mediaAcadem)

	from, until := day("2020-01-01"), day("2024-01-02")
	notices, total, err := s.notices.List(s.ctx, NoticeQuery{
		Categories: []string{"공지사항"},
		From:       &from,
		Until:      &until,
	}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal([]int64{first.ID}, ids(notices))
}

func (s *RepositorySuite) TestList_ProviderFilter() {
	s.addNotice("info", "2021-06-01", s.infoNotice)
	media := s.addNotice("media", "2022-06-01", s.mediaAcadem)

	notices, total, err := s.notices.List(s.ctx, NoticeQuery{Providers: []string{"미디어학부", "없는학부"}}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal([]int64{media.ID}, ids(notices))
}

func (s *RepositorySuite) TestList_EmptyListsArePassThrough() {
	s.addNotice("a", "2021-06-01", s.infoNotice)
	s.addNotice("b", "2022-06-01", s.mediaAcadem)

	omitted, totalOmitted, err := s.notices.List(s.ctx, NoticeQuery{}, 0, 10)
	s.Require().NoError(err)
	empty, totalEmpty, err := s.notices.List(s.ctx, NoticeQuery{Categories: []string{}, Providers: []string{}}, 0, 10)
	s.Require().NoError(err)

	s.Equal(totalOmitted, totalEmpty)
	s.Equal(ids(omitted), ids(empty))
}

func (s *RepositorySuite) TestList_ByCategoryAndProviderID() {
	info := s.addNotice("info", "2021-06-01", s.infoNotice)
	media := s.addNotice("media", "2022-06-01", s.mediaAcadem)

	byCat, _, err := s.notices.List(s.ctx, NoticeQuery{CategoryID: s.infoNotice.ID}, 0, 10)
	s.Require().NoError(err)
	s.Equal([]int64{info.ID}, ids(byCat))

	byProvider, _, err := s.notices.List(s.ctx, NoticeQuery{ProviderID: s.mediaAcadem.ProviderID}, 0, 10)
	s.Require().NoError(err)
	s.Equal([]int64{media.ID}, ids(byProvider))

	none, total, err := s.notices.List(s.ctx, NoticeQuery{CategoryID: 9999}, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(0), total)
	s.Empty(none)
}

func (s *RepositorySuite) TestList_Pagination() {
	for i := 0; i < 12; i++ {
		s.addNotice(fmt.Sprintf("n-%02d", i), fmt.Sprintf("2023-01-%02d", i+1), s.infoNotice)
	}

	page2, total, err := s.notices.List(s.ctx, NoticeQuery{}, 10, 10)
	s.Require().NoError(err)
	s.Equal(int64(12), total)
	s.Len(page2, 2)

	beyond, total, err := s.notices.List(s.ctx, NoticeQuery{}, 30, 10)
	s.Require().NoError(err)
	s.Equal(int64(12), total)
	s.NotNil(beyond)
	s.Empty(beyond)
}

func (s *RepositorySuite) TestList_KeywordSearch() {
	n := &domain.Notice{Title: "Scholarship Notice", Content: "본문", Writer: "학생처", URL: "https://x/1", Date: day("2023-03-01"), CategoryID: s.infoNotice.ID}
	s.Require().NoError(s.db.Create(n).Error)
	byWriter := &domain.Notice{Title: "행사", Content: "축제", Writer: "총학생회", URL: "https://x/2", Date: day("2023-04-01"), CategoryID: s.infoNotice.ID}
	s.Require().NoError(s.db.Create(byWriter).Error)
	percent := &domain.Notice{Title: "등록금 100% 환급", Content: "", Writer: "", URL: "https://x/3", Date: day("2023-05-01"), CategoryID: s.infoNotice.ID}
	s.Require().NoError(s.db.Create(percent).Error)

	found, _, err := s.notices.List(s.ctx, NoticeQuery{Keyword: "scholarship"}, 0, 10)
	s.Require().NoError(err)
	s.Equal([]int64{n.ID}, ids(found))

	found, _, err = s.notices.List(s.ctx, NoticeQuery{Keyword: "학생회"}, 0, 10)
	s.Require().NoError(err)
	s.Equal([]int64{byWriter.ID}, ids(found))

	found, _, err = s.notices.List(s.ctx, NoticeQuery{Keyword: "100%"}, 0, 10)
	s.Require().NoError(err)
	s.Equal([]int64{percent.ID}, ids(found))

	// '%' alone must not behave as a wildcard
	found, _, err = s.notices.List(s.ctx, NoticeQuery{Keyword: "%"}, 0, 10)
	s.Require().NoError(err)
	s.Equal([]int64{percent.ID}, ids(found))
}

func (s *RepositorySuite) TestFindByID_WithRelations() {
	n := s.addNotice("detail", "2023-01-01", s.infoNotice)

	found, err := s.notices.FindByID(s.ctx, n.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Category)
	s.Require().NotNil(found.Category.Provider)
	s.Equal("공지사항", found.Category.Name)
	s.Equal("정보대학", found.Category.Provider.Name)

	_, err = s.notices.FindByID(s.ctx, 9999)
	s.ErrorIs(err, common.ErrNoticeNotFound)
}

func (s *RepositorySuite) TestIncrementView() {
	n := s.addNotice("viewed", "2023-01-01", s.infoNotice)

	s.Require().NoError(s.notices.IncrementView(s.ctx, n.ID))
	s.Require().NoError(s.notices.IncrementView(s.ctx, n.ID))

	found, err := s.notices.FindByID(s.ctx, n.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), found.View)

	s.ErrorIs(s.notices.IncrementView(s.ctx, 9999), common.ErrNoticeNotFound)
}

func (s *RepositorySuite) TestCreateIfAbsent() {
	n := &domain.Notice{Title: "t", URL: "https://dup", Date: day("2023-01-01"), CategoryID: s.infoNotice.ID}
	created, err := s.notices.CreateIfAbsent(s.ctx, n)
	s.Require().NoError(err)
	s.True(created)

	dup := &domain.Notice{Title: "t2", URL: "https://dup", Date: day("2023-01-02"), CategoryID: s.infoNotice.ID}
	created, err = s.notices.CreateIfAbsent(s.ctx, dup)
	s.Require().NoError(err)
	s.False(created)
}

func (s *RepositorySuite) TestScraps() {
	older := s.addNotice("older", "2021-01-01", s.infoNotice)
	newer := s.addNotice("newer", "2024-01-01", s.infoNotice)

	box, err := s.boxes.FindOrCreateByUser(s.ctx, 7)
	s.Require().NoError(err)
	again, err := s.boxes.FindOrCreateByUser(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(box.ID, again.ID)

	s.Require().NoError(s.scraps.Create(s.ctx, box.ID, older.ID))
	s.Require().NoError(s.scraps.Create(s.ctx, box.ID, newer.ID))
	// duplicate insert keeps a single row
	s.Require().NoError(s.scraps.Create(s.ctx, box.ID, newer.ID))

	count, err := s.scraps.CountByNotice(s.ctx, newer.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	idsByUser, err := s.scraps.NoticeIDsByUser(s.ctx, 7)
	s.Require().NoError(err)
	s.ElementsMatch([]int64{older.ID, newer.ID}, idsByUser)

	list, total, err := s.scraps.ListNoticesByUser(s.ctx, 7, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(list, 2)
	s.Equal(newer.ID, list[0].ID)
	s.Equal(older.ID, list[1].ID)

	other, err := s.scraps.NoticeIDsByUser(s.ctx, 8)
	s.Require().NoError(err)
	s.Empty(other)

	exists, err := s.scraps.ExistsForUser(s.ctx, 7, older.ID)
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.scraps.Delete(s.ctx, box.ID, older.ID))
	s.Require().NoError(s.scraps.Delete(s.ctx, box.ID, older.ID))
	exists, err = s.scraps.Exists(s.ctx, box.ID, older.ID)
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.boxes.FindByID(s.ctx, 9999)
	s.ErrorIs(err, common.ErrScrapBoxNotFound)
}

func (s *RepositorySuite) TestScrappedNotices_DistinctAcrossBoxes() {
	first := s.addNotice("first", "2024-02-01", s.infoNotice)
	second := s.addNotice("second", "2024-03-01", s.infoNotice)

	home := &domain.ScrapBox{UserID: 7}
	work := &domain.ScrapBox{UserID: 7}
	foreign := &domain.ScrapBox{UserID: 8}
	s.Require().NoError(s.db.Create(home).Error)
	s.Require().NoError(s.db.Create(work).Error)
	s.Require().NoError(s.db.Create(foreign).Error)

	// first 는 두 보관함에 모두 담김
	s.Require().NoError(s.scraps.Create(s.ctx, home.ID, first.ID))
	s.Require().NoError(s.scraps.Create(s.ctx, work.ID, first.ID))
	s.Require().NoError(s.scraps.Create(s.ctx, work.ID, second.ID))
	s.Require().NoError(s.scraps.Create(s.ctx, foreign.ID, second.ID))

	list, total, err := s.scraps.ListNoticesByUser(s.ctx, 7, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)

	list, total, err = s.scraps.ListNoticesByUser(s.ctx, 8, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(list, 1)
	s.Equal(second.ID, list[0].ID)

	list, total, err = s.scraps.ListNoticesByUser(s.ctx, 7, 10, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Empty(list)
}

func (s *RepositorySuite) TestCategories() {
	providers, err := s.cats.ListProviders(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(providers, 2)
	s.Equal("미디어학부", providers[0].Name)
	s.Len(providers[0].Categories, 1)

	withFeed, err := s.cats.ListWithFeed(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(withFeed, 1)
	s.Equal(s.infoNotice.ID, withFeed[0].ID)
	s.Equal("정보대학", withFeed[0].Provider.Name)
}

func (s *RepositorySuite) TestNoticeRequestCreate() {
	repo := NewNoticeRequestRepository(s.db)
	req := &domain.NoticeRequest{UserID: 1, Provider: "경영대학", URL: "https://biz.example.com"}
	s.Require().NoError(repo.Create(s.ctx, req))
	s.NotZero(req.ID)
}
