package handlers

import (
	"net/http"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/http/middleware"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrder stores the caller's checkout and credits coins for it.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var in service.PlaceOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	buyer, err := h.currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	o, err := h.Orders.Place(c.Request.Context(), buyer, in)
	if err != nil {
		fail(c, err)
		return
	}
	if o.EarnedCoin > 0 {
		h.Audit.LogCoinMovement(c.Request.Context(), meta(c), domain.AuditActionCoinEarn, o.EarnedCoin, o.OrderNumber)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "order placed", "data": o})
}

func (h *Handler) MyOrders(c *gin.Context) {
	mobile, ok := currentMobile(c)
	if !ok {
		fail(c, domain.ErrUnauthorized)
		return
	}
	h.listOrders(c, domain.OrderFilter{Mobile: mobile, Status: c.Query("status")})
}

func (h *Handler) ListOrders(c *gin.Context) {
	h.listOrders(c, domain.OrderFilter{Mobile: c.Query("mobile"), Status: c.Query("status")})
}

func (h *Handler) listOrders(c *gin.Context, f domain.OrderFilter) {
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.Orders.List(c.Request.Context(), f, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}

// GetOrder returns an order to its buyer or to an admin.
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.Orders.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		fail(c, err)
		return
	}
	uid, _ := middleware.UserID(c)
	if !middleware.IsAdmin(c) && (o.UserID == nil || *o.UserID != uid) {
		fail(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": o})
}

func (h *Handler) SetOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	o, err := h.Orders.SetStatus(c.Request.Context(), c.Param("number"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionOrderStatus, domain.AuditCategoryOrder, o.OrderNumber,
		map[string]interface{}{"status": o.Status})
	c.JSON(http.StatusOK, gin.H{"message": "status updated", "data": o})
}
