package handlers

import (
	"net/http"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/http/middleware"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) blogInput(c *gin.Context) (service.BlogInput, error) {
	var in service.BlogInput
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, errInvalidBody
		}
		return in, nil
	}

	in.Title = formString(c, "title")
	in.Slug = formString(c, "slug")
	in.Body = formString(c, "body")
	in.Author = formString(c, "author")
	in.Status = formString(c, "status")
	var err error
	in.ImageURL, err = h.uploadOptional(c, "image")
	return in, err
}

func (h *Handler) CreateBlog(c *gin.Context) {
	defer cleanupMultipart(c)

	in, err := h.blogInput(c)
	if err != nil {
		fail(c, err)
		return
	}
	if in.ImageURL == "" {
		in.ImageURL = h.Media.Placeholder()
	}

	b, err := h.Blogs.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionBlogWrite, domain.AuditCategoryBlog, b.ID, nil)
	c.JSON(http.StatusCreated, gin.H{"message": "created", "data": b})
}

func (h *Handler) UpdateBlog(c *gin.Context) {
	defer cleanupMultipart(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, err := h.blogInput(c)
	if err != nil {
		fail(c, err)
		return
	}

	b, err := h.Blogs.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionBlogWrite, domain.AuditCategoryBlog, b.ID, nil)
	c.JSON(http.StatusOK, gin.H{"message": "updated", "data": b})
}

func (h *Handler) DeleteBlog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Blogs.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionBlogDelete, domain.AuditCategoryBlog, id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GetBlog shows drafts to admins only.
func (h *Handler) GetBlog(c *gin.Context) {
	b, err := h.Blogs.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.IsAdmin(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": b})
}

func (h *Handler) ListBlogs(c *gin.Context) {
	h.listBlogs(c, false)
}

func (h *Handler) AdminListBlogs(c *gin.Context) {
	h.listBlogs(c, true)
}

func (h *Handler) listBlogs(c *gin.Context, admin bool) {
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.Blogs.List(c.Request.Context(), domain.BlogFilter{Status: domain.BlogStatus(c.Query("status"))}, admin, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}
