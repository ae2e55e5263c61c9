package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/logger"
	"go.uber.org/zap"
)

// respondOK 成功响应
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondList 带分页的列表响应
func respondList(c *gin.Context, items interface{}, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"total":   total,
	})
}

// respondError 按错误码映射HTTP状态并写统一错误体
func respondError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	if errors.IsCritical(err) {
		logger.Error("Critical error in request",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path))
	}
	c.JSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, c.GetHeader("X-Request-ID")))
}

// bindJSON 解析请求体，失败时直接写400
func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInvalidParam, "请求参数错误"))
		return false
	}
	return true
}

// pageParams 读取分页参数，page从1起
func pageParams(c *gin.Context) (int, int) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)
	return page, pageSize
}

// intQuery 读取整数query参数
func intQuery(c *gin.Context, key string, def int) int {
	value := c.Query(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
