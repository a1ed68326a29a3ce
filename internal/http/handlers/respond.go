package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/listing"
	"loyalty_backend/internal/logger"
	"loyalty_backend/internal/pagination"
	"loyalty_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInsufficientCoins):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes {"error": msg}. Server-side causes are logged, not echoed.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("request failed",
			"path", c.FullPath(), "status", status, "error", err)

		msg := "internal error"
		switch status {
		case http.StatusServiceUnavailable:
			msg = domain.ErrStorageUnavailable.Error()
		case http.StatusBadGateway:
			msg = domain.ErrUpstream.Error()
		}
		c.AbortWithStatusJSON(status, gin.H{"error": msg})
		return
	}

	body := gin.H{"error": err.Error()}
	var verr *validation.Error
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}

var errInvalidBody = fmt.Errorf("%w: invalid request body", domain.ErrInvalidArgument)

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pageLinks are request URLs with page and limit replaced.
type pageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// pageResponse flattens the page metadata next to the data. Links shadows
// the numeric links of the embedded PageInfo.
type pageResponse[T any] struct {
	Message string `json:"message"`
	Data    []T    `json:"data"`
	pagination.PageInfo
	Links pageLinks `json:"links"`
}

func newPageResponse[T any](c *gin.Context, res *listing.Result[T]) pageResponse[T] {
	info := res.PageInfo
	return pageResponse[T]{
		Message:  "success",
		Data:     res.Items,
		PageInfo: info,
		Links:    renderLinks(c.Request.URL, info),
	}
}

func respondPage[T any](c *gin.Context, res *listing.Result[T]) {
	c.JSON(http.StatusOK, newPageResponse(c, res))
}

func renderLinks(u *url.URL, info pagination.PageInfo) pageLinks {
	at := func(page int) string {
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(info.PageSize))
		return u.Path + "?" + q.Encode()
	}
	links := pageLinks{First: at(info.Links.First), Last: at(info.Links.Last)}
	if info.Links.Next != nil {
		next := at(*info.Links.Next)
		links.Next = &next
	}
	if info.Links.Prev != nil {
		prev := at(*info.Links.Prev)
		links.Prev = &prev
	}
	return links
}

// pageParams reads ?page= and ?limit=; absent values take the defaults.
func pageParams(c *gin.Context) (page, limit int, err error) {
	page, limit = 1, listing.DefaultPageSize
	if v := c.Query("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("%w: page must be a number", domain.ErrInvalidArgument)
		}
	}
	if v := c.Query("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("%w: limit must be a number", domain.ErrInvalidArgument)
		}
	}
	return page, listing.NormalizePageSize(limit), nil
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
