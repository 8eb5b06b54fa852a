package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kunotice/notice-backend/internal/common"
	"github.com/kunotice/notice-backend/internal/domain"
	"github.com/kunotice/notice-backend/internal/middleware"
	"github.com/kunotice/notice-backend/internal/service"
)

// NoticeHandler handles notice HTTP requests
type NoticeHandler struct {
	service service.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler
func NewNoticeHandler(service service.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// GetNoticeList handles GET /notice/list
// @Summary 공지 목록 (필터/검색)
// @Tags notice
// @Produce json
// @Security BearerAuth
// @Param page query int false "페이지 (기본 1)"
// @Param categories query string false "카테고리 라벨 목록 (쉼표 구분)" example(공지사항)
// @Param providers query string false "제공처 목록 (쉼표 구분)" example(정보대학,미디어학부)
// @Param start_date query string false "조회 시작일" example(2020-01-01)
// @Param end_date query string false "조회 종료일" example(2040-01-01)
// @Param keyword query string false "검색어"
// @Success 200 {object} common.APIResponse{data=domain.NoticePage}
// @Router /notice/list [get]
func (h *NoticeHandler) GetNoticeList(c *gin.Context) {
	userID, page, ok := h.listParams(c)
	if !ok {
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "잘못된 필터 조건입니다", err)
		return
	}

	result, err := h.service.GetNoticeList(c.Request.Context(), userID, filter, c.Query("keyword"), page)
	if err != nil {
		respondError(c, err, "공지 목록 조회 실패")
		return
	}
	common.SuccessResponse(c, result)
}

// GetLatestNotices handles GET /notice/latest
// @Summary 최신 공지 목록
// @Tags notice
// @Produce json
// @Security BearerAuth
// @Param page query int false "페이지 (기본 1)"
// @Success 200 {object} common.APIResponse{data=domain.NoticePage}
// @Router /notice/latest [get]
func (h *NoticeHandler) GetLatestNotices(c *gin.Context) {
	userID, page, ok := h.listParams(c)
	if !ok {
		return
	}

	result, err := h.service.GetNoticesByTime(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, err, "공지 목록 조회 실패")
		return
	}
	common.SuccessResponse(c, result)
}

// SearchNotices handles GET /notice/search
// @Summary 공지 검색 (제목/본문/작성자)
// @Tags notice
// @Produce json
// @Security BearerAuth
// @Param keyword query string true "검색어"
// @Param page query int false "페이지 (기본 1)"
// @Success 200 {object} common.APIResponse{data=domain.NoticePage}
// @Router /notice/search [get]
func (h *NoticeHandler) SearchNotices(c *gin.Context) {
	userID, page, ok := h.listParams(c)
	if !ok {
		return
	}

	result, err := h.service.SearchNotices(c.Request.Context(), userID, c.Query("keyword"), page)
	if err != nil {
		respondError(c, err, "공지 검색 실패")
		return
	}
	common.SuccessResponse(c, result)
}

// GetScrappedNotices handles GET /notice/scrapped
// @Summary 스크랩한 공지 목록
// @Tags notice
// @Produce json
// @Security BearerAuth
// @Param page query int false "페이지 (기본 1)"
// @Success 200 {object} common.APIResponse{data=domain.NoticePage}
// @Router /notice/scrapped [get]
func (h *NoticeHandler) GetScrappedNotices(c *gin.Context) {
	userID, page, ok := h.listParams(c)
	if !ok {
		return
	}

	result, err := h.service.GetScrappedNotices(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, err, "스크랩 목록 조회 실패")
		return
	}
	common.SuccessResponse(c, result)
}

// GetNoticesByCategory handles GET /notice/category/:categoryId
// @Summary 카테고리별 공지 목록
// @Tags notice
// @Produce json
// @Security BearerAuth
// @Param categoryId path int true "카테고리 ID"
// @Param page query int false "페이지 (기본 1)"
// @Success 200 {object} common.APIResponse{data=domain.NoticePage}
// @Router /notice/category/{categoryId} [get]
func (h *NoticeHandler) GetNoticesByCategory(c *gin.Context) {
	userID, page, ok := h.listParams(c)
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "categoryId", "잘못된 카테고리 ID입니다")
	if !ok {
		return
	}

	result, err := h.service.GetNoticesByCategory(c.Request.Context(), userID, categoryID, page)
	if err != nil {
		respondError(c, err, "공지 목록 조회 실패")
		return
	}
	common.SuccessResponse(c, result)
}

// GetNoticesByProvider handles GET /notice/provider/:providerId
// @Summary 제공처별 공지 목록
// @Tags notice
// @Produce json
// @Security BearerAuth
// @Param providerId path int true "제공처 ID"
// @Param page query int false "페이지 (기본 1)"
// @Success 200 {object} common.APIResponse{data=domain.NoticePage}
// @Router /notice/provider/{providerId} [get]
func (h *NoticeHandler) GetNoticesByProvider(c *gin.Context) {
	userID, page, ok := h.listParams(c)
	if !ok {
		return
	}
	providerID, ok := pathID(c, "providerId", "잘못된 제공처 ID입니다")
	if !ok {
		return
	}

	result, err := h.service.GetNoticesByProvider(c.Request.Context(), userID, providerID, page)
	if err != nil {
		respondError(c, err, "공지 목록 조회 실패")
		return
	}
	common.SuccessResponse(c, result)
}

// ScrapNotice handles PUT /notice/:noticeId/scrap[/:scrapBoxId]
// @Summary 공지 스크랩 토글
// @Description 스크랩 상태를 뒤집는다. true = 스크랩됨, false = 해제됨
// @Tags notice
// @Produce json
// @Security BearerAuth
// @Param noticeId path int true "공지 ID"
// @Param scrapBoxId path int true "스크랩 보관함 ID (본인 소유)"
// @Success 200 {object} common.APIResponse{data=bool}
// @Router /notice/{noticeId}/scrap/{scrapBoxId} [put]
func (h *NoticeHandler) ScrapNotice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noticeID, ok := pathID(c, "noticeId", "잘못된 공지 ID입니다")
	if !ok {
		return
	}

	var scrapBoxID int64
	if c.Param("scrapBoxId") != "" {
		if scrapBoxID, ok = pathID(c, "scrapBoxId", "잘못된 스크랩 보관함 ID입니다"); !ok {
			return
		}
	}

	scrapped, err := h.service.ScrapNotice(c.Request.Context(), userID, noticeID, scrapBoxID)
	if err != nil {
		respondError(c, err, "스크랩 처리 실패")
		return
	}
	common.SuccessResponse(c, scrapped)
}

// GetNoticeInfo handles GET /notice/info/:id
// @Summary 공지 상세 (조회수 1 증가)
// @Tags notice
// @Produce json
// @Security BearerAuth
// @Param id path int true "공지 ID"
// @Success 200 {object} common.APIResponse{data=domain.NoticeInfo}
// @Failure 404 {object} common.APIResponse
// @Router /notice/info/{id} [get]
func (h *NoticeHandler) GetNoticeInfo(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	noticeID, ok := pathID(c, "id", "잘못된 공지 ID입니다")
	if !ok {
		return
	}

	info, err := h.service.GetNoticeInfo(c.Request.Context(), userID, noticeID)
	if err != nil {
		respondError(c, err, "공지 조회 실패")
		return
	}
	common.SuccessResponse(c, info)
}

// AddNoticeRequest handles POST /notice/add-request
// @Summary 수집 대상 추가 요청
// @Tags notice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.AddNoticeRequest true "요청 내용"
// @Success 201 {object} common.APIResponse
// @Router /notice/add-request [post]
func (h *NoticeHandler) AddNoticeRequest(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req domain.AddNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "잘못된 요청 본문입니다", err)
		return
	}

	if err := h.service.AddNoticeRequest(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err, "요청 저장 실패")
		return
	}
	common.CreatedResponse(c)
}

// listParams extracts the caller and the 1-based page number
func (h *NoticeHandler) listParams(c *gin.Context) (int64, int, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return 0, 0, false
	}
	page, err := parsePage(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "잘못된 페이지 번호입니다", err)
		return 0, 0, false
	}
	return userID, page, true
}

func requireUser(c *gin.Context) (int64, bool) {
	userID := middleware.GetUserID(c)
	if userID <= 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "로그인이 필요합니다", nil)
		return 0, false
	}
	return userID, true
}

func parsePage(c *gin.Context) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer", common.ErrInvalidInput)
	}
	return page, nil
}

func pathID(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		common.ErrorResponse(c, http.StatusBadRequest, message, common.ErrInvalidInput)
		return 0, false
	}
	return id, true
}

func parseFilter(c *gin.Context) (domain.NoticeFilter, error) {
	filter := domain.DefaultNoticeFilter()
	filter.Categories = common.SplitList(c.Query("categories"))
	filter.Providers = common.SplitList(c.Query("providers"))

	if raw := c.Query("start_date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: start_date %q", common.ErrInvalidInput, raw)
		}
		filter.StartDate = d
	}
	if raw := c.Query("end_date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: end_date %q", common.ErrInvalidInput, raw)
		}
		filter.EndDate = d
	}
	if filter.StartDate.After(filter.EndDate) {
		return filter, fmt.Errorf("%w: start_date is after end_date", common.ErrInvalidInput)
	}
	return filter, nil
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp, truncated to its UTC day
func parseDate(raw string) (time.Time, error) {
	if d, err := time.Parse(domain.DateLayout, raw); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, "잘못된 요청입니다", err)
	case errors.Is(err, common.ErrNoticeNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "공지를 찾을 수 없습니다", err)
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "리소스를 찾을 수 없습니다", err)
	case errors.Is(err, common.ErrScrapBoxNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "스크랩 보관함을 찾을 수 없습니다", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "본인의 스크랩 보관함만 사용할 수 있습니다", err)
	case errors.Is(err, common.ErrUnauthorized):
		common.ErrorResponse(c, http.StatusUnauthorized, "로그인이 필요합니다", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, fallback, err)
	}
}
