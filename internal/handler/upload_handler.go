package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/agrivest/agrivest-backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// 5 MiB is plenty for a payment screenshot.
const maxProofSize = 5 << 20

type UploadHandler struct {
	uploader storage.Uploader
}

func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) UploadProof(c echo.Context) error {
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("storage_unavailable", "proof upload is not configured"))
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "file is required"))
	}
	if fh.Size > maxProofSize {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "file too large"))
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "only images are accepted"))
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unreadable file"))
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxProofSize))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to read file"))
	}

	url, err := h.uploader.UploadProof(c.Request().Context(), data, contentType, filepath.Ext(fh.Filename))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "upload failed"))
	}
	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}
