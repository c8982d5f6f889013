package rest

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"googly-eyes/internal/domain/port"
	"googly-eyes/internal/logging"
)

const (
	msgUnsupportedFile = "Unsupported file type."
	msgCorruptFile     = "Corrupt input file."
	msgTooLarge        = "File is too large."
	msgInternal        = "Internal server error."
)

var allowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// ImageBase64 тело запроса и ответа /googlify/
type ImageBase64 struct {
	Base64Str string `json:"base64_str" binding:"required"`
}

// Handler HTTP-обработчики конвейера
type Handler struct {
	googlifier    port.Googlifier
	maxUploadSize int64
	logger        *zap.Logger
}

// NewHandler создаёт обработчики. maxUploadSize ограничивает размер изображения в байтах.
func NewHandler(googlifier port.Googlifier, maxUploadSize int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		googlifier:    googlifier,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Health отвечает, что сервис жив
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Googlify принимает изображение в base64 и возвращает результат тоже в base64.
func (h *Handler) Googlify(c *gin.Context) {
	// base64 длиннее исходных байт примерно на треть
	limit := h.maxUploadSize/3*4 + 1024
	if c.Request.ContentLength > limit {
		abort(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var req ImageBase64
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(err) {
			abort(c, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		abort(c, http.StatusBadRequest, msgUnsupportedFile)
		return
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Base64Str))
	if err != nil {
		abort(c, http.StatusBadRequest, msgUnsupportedFile)
		return
	}

	out, ok := h.run(c, data)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ImageBase64{Base64Str: base64.StdEncoding.EncodeToString(out)})
}

// GooglifyUploadFile принимает файл из формы и возвращает PNG.
func (h *Handler) GooglifyUploadFile(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadSize+64<<10 {
		abort(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+64<<10)

	file, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			abort(c, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		abort(c, http.StatusBadRequest, msgUnsupportedFile)
		return
	}

	if !allowedContentTypes[strings.ToLower(file.Header.Get("Content-Type"))] {
		abort(c, http.StatusBadRequest, msgUnsupportedFile)
		return
	}
	if file.Size > h.maxUploadSize {
		abort(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}

	src, err := file.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, msgCorruptFile)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		abort(c, http.StatusBadRequest, msgCorruptFile)
		return
	}

	out, ok := h.run(c, data)
	if !ok {
		return
	}

	c.Data(http.StatusOK, "image/png", out)
}

// run запускает конвейер и сам пишет ответ об ошибке
func (h *Handler) run(c *gin.Context, data []byte) ([]byte, bool) {
	ctx := c.Request.Context()
	result, err := h.googlifier.Googlify(ctx, data)
	if err != nil {
		logging.FromContext(ctx, h.logger, "googlify").
			Error("googlify failed", zap.Error(err))
		abort(c, http.StatusInternalServerError, msgInternal)
		return nil, false
	}
	if !result.Success() {
		abort(c, http.StatusBadRequest, msgCorruptFile)
		return nil, false
	}
	return result.Image, true
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
