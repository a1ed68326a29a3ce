package handlers

import (
	"net/http"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitFeedback accepts JSON or multipart with an optional "photo".
func (h *Handler) SubmitFeedback(c *gin.Context) {
	defer cleanupMultipart(c)

	var in service.FeedbackInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	author, err := h.currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	if in.PhotoURL, err = h.uploadOptional(c, "photo"); err != nil {
		fail(c, err)
		return
	}

	fb, err := h.Feedback.Submit(c.Request.Context(), author, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "feedback received", "data": fb})
}

func (h *Handler) ListFeedback(c *gin.Context) {
	h.listFeedback(c, false)
}

func (h *Handler) AdminListFeedback(c *gin.Context) {
	h.listFeedback(c, true)
}

func (h *Handler) listFeedback(c *gin.Context, admin bool) {
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}
	f := domain.FeedbackFilter{Status: domain.FeedbackStatus(c.Query("status")), Category: c.Query("category")}
	res, err := h.Feedback.List(c.Request.Context(), f, admin, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}

func (h *Handler) ModerateFeedback(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	fb, err := h.Feedback.Moderate(c.Request.Context(), id, domain.FeedbackStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionFeedbackPublish, domain.AuditCategoryFeedback, id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "status updated", "data": fb})
}
