package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"loyalty_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// cleanupMultipart removes the temp files gin spilled to disk for this request.
func cleanupMultipart(c *gin.Context) {
	if c.Request.MultipartForm != nil {
		_ = c.Request.MultipartForm.RemoveAll()
	}
}

// formFile returns the named file, or nil when the request carries none.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArgument, field, err)
	}
	return fh, nil
}

// uploadOptional returns "" when no file was attached so updates keep the stored URL.
func (h *Handler) uploadOptional(c *gin.Context, field string) (string, error) {
	fh, err := formFile(c, field)
	if err != nil || fh == nil {
		return "", err
	}
	return h.Media.UploadFile(c.Request.Context(), fh)
}

// uploadOrPlaceholder is used on create paths where an image is always stored.
func (h *Handler) uploadOrPlaceholder(c *gin.Context, field string) (string, error) {
	fh, err := formFile(c, field)
	if err != nil {
		return "", err
	}
	return h.Media.UploadFile(c.Request.Context(), fh)
}

func (h *Handler) uploadGallery(c *gin.Context, field string) ([]string, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	urls := make([]string, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		url, err := h.Media.UploadFile(c.Request.Context(), fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func formString(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func formDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidArgument, key)
	}
	return &d, nil
}

func formInt(c *gin.Context, key string) (*int, error) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidArgument, key)
	}
	return &n, nil
}
