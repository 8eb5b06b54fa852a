package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kunotice/notice-backend/internal/common"
	"github.com/kunotice/notice-backend/internal/domain"
	"github.com/kunotice/notice-backend/internal/repository"
	"github.com/kunotice/notice-backend/pkg/logger"
)

// MaxKeywordLength 검색어 최대 길이 (문자 수)
const MaxKeywordLength = 100

// NoticeService business logic for notice listings, scraps and details
type NoticeService interface {
	GetNoticeList(ctx context.Context, userID int64, filter domain.NoticeFilter, keyword string, page int) (*domain.NoticePage, error)
	GetNoticesByTime(ctx context.Context, userID int64, page int) (*domain.NoticePage, error)
	GetNoticesByFilter(ctx context.Context, userID int64, filter domain.NoticeFilter, page int) (*domain.NoticePage, error)
	GetNoticesByCategory(ctx context.Context, userID, categoryID int64, page int) (*domain.NoticePage, error)
	GetNoticesByProvider(ctx context.Context, userID, providerID int64, page int) (*domain.NoticePage, error)
	GetScrappedNotices(ctx context.Context, userID int64, page int) (*domain.NoticePage, error)
	SearchNotices(ctx context.Context, userID int64, keyword string, page int) (*domain.NoticePage, error)
	ScrapNotice(ctx context.Context, userID, noticeID, scrapBoxID int64) (bool, error)
	GetNoticeInfo(ctx context.Context, userID, noticeID int64) (*domain.NoticeInfo, error)
	AddNoticeRequest(ctx context.Context, userID int64, req *domain.AddNoticeRequest) error
}

type noticeService struct {
	notices  repository.NoticeRepository
	scraps   repository.ScrapRepository
	boxes    repository.ScrapBoxRepository
	requests repository.NoticeRequestRepository
	validate *validator.Validate
}

// NewNoticeService creates a new NoticeService
func NewNoticeService(
	notices repository.NoticeRepository,
	scraps repository.ScrapRepository,
	boxes repository.ScrapBoxRepository,
	requests repository.NoticeRequestRepository,
) NoticeService {
	return &noticeService{
		notices:  notices,
		scraps:   scraps,
		boxes:    boxes,
		requests: requests,
		validate: validator.New(),
	}
}

// GetNoticeList is the /notice/list entry point: a keyword selects search, otherwise the filter applies
func (s *noticeService) GetNoticeList(ctx context.Context, userID int64, filter domain.NoticeFilter, keyword string, page int) (*domain.NoticePage, error) {
	if strings.TrimSpace(keyword) != "" {
		return s.SearchNotices(ctx, userID, keyword, page)
	}
	return s.GetNoticesByFilter(ctx, userID, filter, page)
}

// GetNoticesByTime lists every notice, newest first
func (s *noticeService) GetNoticesByTime(ctx context.Context, userID int64, page int) (*domain.NoticePage, error) {
	return s.listAnnotated(ctx, userID, repository.NoticeQuery{}, page)
}

// GetNoticesByFilter lists notices inside [StartDate, EndDate] (whole days, inclusive)
// restricted to the given category labels and provider names when non-empty
func (s *noticeService) GetNoticesByFilter(ctx context.Context, userID int64, filter domain.NoticeFilter, page int) (*domain.NoticePage, error) {
	defaults := domain.DefaultNoticeFilter()
	if filter.StartDate.IsZero() {
		filter.StartDate = defaults.StartDate
	}
	if filter.EndDate.IsZero() {
		filter.EndDate = defaults.EndDate
	}
	if filter.StartDate.After(filter.EndDate) {
		return nil, fmt.Errorf("%w: start_date is after end_date", common.ErrInvalidInput)
	}

	from := filter.StartDate
	until := filter.EndDate.AddDate(0, 0, 1)
	return s.listAnnotated(ctx, userID, repository.NoticeQuery{
		Categories: filter.Categories,
		Providers:  filter.Providers,
		From:       &from,
		Until:      &until,
	}, page)
}

// GetNoticesByCategory lists notices of one category
func (s *noticeService) GetNoticesByCategory(ctx context.Context, userID, categoryID int64, page int) (*domain.NoticePage, error) {
	if categoryID <= 0 {
		return nil, fmt.Errorf("%w: category id", common.ErrInvalidInput)
	}
	return s.listAnnotated(ctx, userID, repository.NoticeQuery{CategoryID: categoryID}, page)
}

// GetNoticesByProvider lists notices of every category of one provider
func (s *noticeService) GetNoticesByProvider(ctx context.Context, userID, providerID int64, page int) (*domain.NoticePage, error) {
	if providerID <= 0 {
		return nil, fmt.Errorf("%w: provider id", common.ErrInvalidInput)
	}
	return s.listAnnotated(ctx, userID, repository.NoticeQuery{ProviderID: providerID}, page)
}

// SearchNotices matches keyword case-insensitively against title, content and writer
func (s *noticeService) SearchNotices(ctx context.Context, userID int64, keyword string, page int) (*domain.NoticePage, error) {
	keyword = strings.TrimSpace(keyword)
	if utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return nil, fmt.Errorf("%w: keyword longer than %d characters", common.ErrInvalidInput, MaxKeywordLength)
	}
	return s.listAnnotated(ctx, userID, repository.NoticeQuery{Keyword: keyword}, page)
}

// GetScrappedNotices lists the caller's scrapped notices ordered by notice date
func (s *noticeService) GetScrappedNotices(ctx context.Context, userID int64, page int) (*domain.NoticePage, error) {
	page = common.NormalizePage(page)

	notices, total, err := s.scraps.ListNoticesByUser(ctx, userID, common.Offset(page, common.PageSize), common.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]domain.NoticeListItem, 0, len(notices))
	for _, n := range notices {
		items = append(items, n.ToListItem(true))
	}
	return newPage(items, page, total), nil
}

// listAnnotated loads the caller's scrap set and one page of notices as two
// independent reads, then marks each notice by set membership.
func (s *noticeService) listAnnotated(ctx context.Context, userID int64, q repository.NoticeQuery, page int) (*domain.NoticePage, error) {
	page = common.NormalizePage(page)

	scrapped, err := s.scrappedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	notices, total, err := s.notices.List(ctx, q, common.Offset(page, common.PageSize), common.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]domain.NoticeListItem, 0, len(notices))
	for _, n := range notices {
		_, ok := scrapped[n.ID]
		items = append(items, n.ToListItem(ok))
	}
	return newPage(items, page, total), nil
}

func (s *noticeService) scrappedSet(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	ids, err := s.scraps.NoticeIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func newPage(items []domain.NoticeListItem, page int, total int64) *domain.NoticePage {
	return &domain.NoticePage{
		Notices:     items,
		Page:        page,
		TotalNotice: total,
		TotalPage:   common.TotalPages(total, common.PageSize),
	}
}

// ScrapNotice toggles the notice in a scrap box and reports whether it is now scrapped.
// scrapBoxID 0 means the caller's own box (created on first use); a non-zero id
// must belong to the caller.
func (s *noticeService) ScrapNotice(ctx context.Context, userID, noticeID, scrapBoxID int64) (bool, error) {
	box, err := s.resolveScrapBox(ctx, userID, scrapBoxID)
	if err != nil {
		return false, err
	}

	exists, err := s.scraps.Exists(ctx, box.ID, noticeID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.scraps.Delete(ctx, box.ID, noticeID); err != nil {
			return false, err
		}
		scrapToggles.WithLabelValues("remove").Inc()
		return false, nil
	}

	ok, err := s.notices.Exists(ctx, noticeID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, common.ErrNoticeNotFound
	}

	if err := s.scraps.Create(ctx, box.ID, noticeID); err != nil {
		return false, err
	}
	scrapToggles.WithLabelValues("add").Inc()
	return true, nil
}

func (s *noticeService) resolveScrapBox(ctx context.Context, userID, scrapBoxID int64) (*domain.ScrapBox, error) {
	if scrapBoxID == 0 {
		return s.boxes.FindOrCreateByUser(ctx, userID)
	}

	box, err := s.boxes.FindByID(ctx, scrapBoxID)
	if err != nil {
		return nil, err
	}
	if box.UserID != userID {
		return nil, common.ErrForbidden
	}
	return box, nil
}

// GetNoticeInfo increments the view counter and returns the notice detail
func (s *noticeService) GetNoticeInfo(ctx context.Context, userID, noticeID int64) (*domain.NoticeInfo, error) {
	notice, err := s.notices.FindByID(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	if err := s.notices.IncrementView(ctx, noticeID); err != nil {
		return nil, err
	}
	notice.View++
	noticeViews.Inc()

	scrapped, err := s.scraps.ExistsForUser(ctx, userID, noticeID)
	if err != nil {
		return nil, err
	}
	scrapCount, err := s.scraps.CountByNotice(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	return notice.ToInfo(scrapped, scrapCount), nil
}

// AddNoticeRequest stores a user's suggestion of a new notice source for review
func (s *noticeService) AddNoticeRequest(ctx context.Context, userID int64, req *domain.AddNoticeRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, err.Error())
	}
	if err := common.ValidateSourceLink(req.URL); err != nil {
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, err.Error())
	}

	record := &domain.NoticeRequest{
		UserID:   userID,
		Provider: strings.TrimSpace(req.Provider),
		Category: strings.TrimSpace(req.Category),
		URL:      strings.TrimSpace(req.URL),
		Memo:     req.Memo,
	}
	if err := s.requests.Create(ctx, record); err != nil {
		return err
	}

	logger.GetLogger().Info().
		Int64("user_id", userID).
		Int64("request_id", record.ID).
		Str("provider", record.Provider).
		Msg("notice request received")
	return nil
}
