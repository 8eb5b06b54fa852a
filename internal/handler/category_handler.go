package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kunotice/notice-backend/internal/common"
	"github.com/kunotice/notice-backend/internal/service"
)

// CategoryHandler handles provider/category lookups
type CategoryHandler struct {
	service service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// ListProviders handles GET /category
// @Summary 제공처 및 카테고리 목록
// @Tags category
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=[]domain.ProviderResponse}
// @Router /category [get]
func (h *CategoryHandler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "카테고리 목록 조회 실패", err)
		return
	}
	common.SuccessResponse(c, providers)
}
