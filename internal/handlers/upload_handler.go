package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mediplus/internal/dto"
	"github.com/BruksfildServices01/mediplus/internal/httperr"
	"github.com/BruksfildServices01/mediplus/internal/imaging"
	"github.com/BruksfildServices01/mediplus/internal/infra/blob"
)

type UploadHandler struct {
	store    blob.Store
	files    *fileUploader
	maxWidth int
	log      *zap.Logger
}

func NewUploadHandler(store blob.Store, maxUploadBytes int64, imageMaxWidth int, log *zap.Logger) *UploadHandler {
	return &UploadHandler{
		store:    store,
		files:    &fileUploader{store: store, maxBytes: maxUploadBytes, log: log.Named("uploads")},
		maxWidth: imageMaxWidth,
		log:      log.Named("uploads"),
	}
}

// Upload stores the multipart "file" as-is.
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httperr.Validation(c, map[string]string{"file": "a multipart file is required"})
		return
	}

	obj, err := h.files.upload(c.Request.Context(), fh)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadDTO{ID: obj.ID, URL: obj.URL})
}

// UploadImage re-encodes the multipart "image" as WebP before storing it.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		httperr.Validation(c, map[string]string{"image": "a multipart image is required"})
		return
	}
	if h.files.maxBytes > 0 && fh.Size > h.files.maxBytes {
		httperr.Validation(c, map[string]string{"image": "image is too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer f.Close()

	encoded, err := imaging.ToWebP(f, h.maxWidth)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	name := strings.TrimSuffix(fh.Filename, path.Ext(fh.Filename)) + ".webp"

	obj, err := h.store.Upload(c.Request.Context(), name, imaging.ContentType, bytes.NewReader(encoded))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadDTO{ID: obj.ID, URL: obj.URL})
}

// Download streams a stored blob. The id comes from a *id wildcard.
func (h *UploadHandler) Download(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")

	rc, contentType, err := h.store.Open(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, max-age=3600")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn("streaming file failed", zap.String("id", id), zap.Error(err))
	}
}
