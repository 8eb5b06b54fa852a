package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kunotice/notice-backend/internal/handler"
	"github.com/kunotice/notice-backend/internal/middleware"
	"github.com/kunotice/notice-backend/pkg/jwt"
	"github.com/redis/go-redis/v9"
)

// Setup configures all API routes. redisClient may be nil (rate limiting off).
func Setup(
	router *gin.Engine,
	noticeHandler *handler.NoticeHandler,
	categoryHandler *handler.CategoryHandler,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
	requestsPerMinute int,
) {
	authed := router.Group("",
		middleware.JWTAuth(jwtManager),
		middleware.RateLimitPerUser(redisClient, requestsPerMinute),
	)

	// Notice (공지)
	notice := authed.Group("/notice")
	notice.GET("/list", noticeHandler.GetNoticeList)                        // 필터/검색 목록
	notice.GET("/latest", noticeHandler.GetLatestNotices)                   // 최신순 목록
	notice.GET("/search", noticeHandler.SearchNotices)                      // 키워드 검색
	notice.GET("/scrapped", noticeHandler.GetScrappedNotices)               // 내 스크랩
	notice.GET("/category/:categoryId", noticeHandler.GetNoticesByCategory) // 카테고리별
	notice.GET("/provider/:providerId", noticeHandler.GetNoticesByProvider) // 제공처별
	notice.GET("/info/:id", noticeHandler.GetNoticeInfo)                    // 상세 (조회수 +1)
	notice.PUT("/:noticeId/scrap/:scrapBoxId", noticeHandler.ScrapNotice)   // 스크랩 토글
	notice.PUT("/:noticeId/scrap", noticeHandler.ScrapNotice)               // 기본 보관함 토글
	notice.POST("/add-request", noticeHandler.AddNoticeRequest)             // 수집 요청

	// Category (제공처/카테고리)
	authed.GET("/category", categoryHandler.ListProviders)
}
