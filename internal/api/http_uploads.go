package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"tourbase/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxUploadSize 单个上传文件的大小上限。
const maxUploadSize = 5 << 20

// 允许的图片 MIME 类型及对应扩展名
var allowedUploadTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadFile 接收 multipart 图片上传，落到当前租户的存储前缀下。
// 类型以文件内容嗅探为准，不信任客户端声明的 Content-Type。
func (h *HTTPHandler) UploadFile(c *gin.Context) {
	tc := CurrentTenant(c)
	if tc == nil {
		Unauthorized(c, "authentication required")
		return
	}
	if h.storage == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "storage not available")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	if fileHeader.Size > maxUploadSize {
		ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidUpload, "file exceeds 5MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	if len(data) == 0 {
		ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidUpload, "empty file")
		return
	}
	if len(data) > maxUploadSize {
		ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidUpload, "file exceeds 5MB limit")
		return
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeInvalidUpload,
			"unsupported file type", gin.H{"detected": contentType})
		return
	}

	category := storage.SanitizeToken(c.PostForm("category"))
	if category == "" {
		category = "uploads"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	storagePath, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  fmt.Sprintf("tenant-%d/%s", tc.RootUserID, category),
		Extension: ext,
		BaseName:  uuid.NewString(),
	})
	if err != nil {
		logrus.WithError(err).Error("failed to save uploaded file")
		InternalError(c, "failed to store upload")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":          h.publicURLFor(storagePath),
		"storage_path": storagePath,
		"content_type": contentType,
		"size":         len(data),
	})
}
