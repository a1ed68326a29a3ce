package handlers

import (
	"net/http"
	"strconv"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
)

func userView(u *domain.User) gin.H {
	return gin.H{
		"id":     u.ID,
		"name":   u.Name,
		"mobile": u.Mobile,
		"email":  u.Email,
		"role":   u.Role,
		"avatar": u.AvatarURL,
	}
}

// Register accepts JSON or multipart with an optional "avatar" file.
func (h *Handler) Register(c *gin.Context) {
	defer cleanupMultipart(c)

	var in service.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	avatar, err := h.uploadOrPlaceholder(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}
	in.AvatarURL = avatar

	u, err := h.Users.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	h.Audit.Log(c.Request.Context(), service.RequestMeta{UserID: u.ID, IP: c.ClientIP(), UserAgent: c.Request.UserAgent()},
		domain.AuditActionRegister, domain.AuditCategoryAuth, nil)
	c.JSON(http.StatusCreated, gin.H{"message": "registered", "user": userView(u)})
}

func (h *Handler) Signin(c *gin.Context) {
	var in service.SigninInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	token, u, err := h.Users.Signin(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	h.Audit.Log(c.Request.Context(), service.RequestMeta{UserID: u.ID, IP: c.ClientIP(), UserAgent: c.Request.UserAgent()},
		domain.AuditActionSignin, domain.AuditCategoryAuth, nil)
	c.JSON(http.StatusOK, gin.H{"message": "success", "token": token, "user": userView(u)})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "user": u})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	defer cleanupMultipart(c)

	var in service.ProfileUpdate
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	avatar, err := h.uploadOptional(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}
	in.AvatarURL = avatar

	m := meta(c)
	u, err := h.Users.UpdateProfile(c.Request.Context(), m.UserID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": u})
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var in service.PasswordChange
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	m := meta(c)
	if err := h.Users.UpdatePassword(c.Request.Context(), m.UserID, in); err != nil {
		fail(c, err)
		return
	}
	h.Audit.Log(c.Request.Context(), m, domain.AuditActionPasswordChange, domain.AuditCategoryAuth, nil)
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

type deviceTokenRequest struct {
	DeviceToken string `json:"deviceToken"`
}

func (h *Handler) UpdateDeviceToken(c *gin.Context) {
	var req deviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.Users.UpdateDeviceToken(c.Request.Context(), meta(c).UserID, req.DeviceToken); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device token updated"})
}

// ListUsers is admin only; ?role= and ?status= filter.
func (h *Handler) ListUsers(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}
	f := domain.UserFilter{Role: domain.Role(c.Query("role")), Status: domain.AccountStatus(c.Query("status"))}
	res, err := h.Users.List(c.Request.Context(), f, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetUserStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.Users.SetStatus(c.Request.Context(), id, domain.AccountStatus(req.Status)); err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionUserStatus, domain.AuditCategoryAdmin, id,
		map[string]interface{}{"status": req.Status})
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// ListAudit pages through audit logs; ?category= and ?userId= filter.
func (h *Handler) ListAudit(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}
	f := domain.AuditFilter{Category: c.Query("category")}
	if v := c.Query("userId"); v != "" {
		uid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(c, "userId must be a number")
			return
		}
		f.UserID = uid
	}
	res, err := h.Audit.List(c.Request.Context(), f, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}
