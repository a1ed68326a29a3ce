package handlers

import (
	"net/http"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SendMessage pushes an admin notification to a token, topic or user mobile.
func (h *Handler) SendMessage(c *gin.Context) {
	var in service.SendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	msg, err := h.Messages.Send(c.Request.Context(), in)
	if msg != nil {
		h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionMessageSend, domain.AuditCategoryMessage, msg.ID,
			map[string]interface{}{"target_type": msg.TargetType, "delivered": msg.Delivered})
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sent", "data": msg})
}

func (h *Handler) ListMessages(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.Messages.List(c.Request.Context(), domain.MessageFilter{TargetType: domain.TargetType(c.Query("targetType"))}, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}
