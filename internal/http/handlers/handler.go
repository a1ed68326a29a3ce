package handlers

import (
	"context"
	"mime/multipart"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/http/middleware"
	"loyalty_backend/internal/listing"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Uploader stores files on the CDN. A nil header yields the placeholder URL.
type Uploader interface {
	UploadFile(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Placeholder() string
}

// RedemptionReader serves redemption listings and code lookups.
type RedemptionReader interface {
	listing.Source[domain.Redemption, domain.RedemptionFilter]
	GetByCode(ctx context.Context, code string) (*domain.Redemption, error)
}

// Deps are the process-wide collaborators shared by every handler.
type Deps struct {
	Users       *service.UserService
	Ledger      *service.Ledger
	Products    *service.CatalogService
	Items       *service.CatalogService
	Orders      *service.OrderService
	Feedback    *service.FeedbackService
	Blogs       *service.BlogService
	Messages    *service.MessageService
	Audit       *service.AuditService
	CoinTx      listing.Source[domain.CoinTransaction, domain.CoinTransactionFilter]
	Redemptions RedemptionReader
	Media       Uploader
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	return &Handler{Deps: d}
}

// currentUser loads the account behind the bearer token.
func (h *Handler) currentUser(c *gin.Context) (*domain.User, error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return h.Users.Profile(c.Request.Context(), uid)
}

// currentMobile reads the mobile number carried by the token.
func currentMobile(c *gin.Context) (string, bool) {
	claims, ok := middleware.Claims(c)
	if !ok || claims.Mobile == "" {
		return "", false
	}
	return claims.Mobile, true
}

func meta(c *gin.Context) service.RequestMeta {
	uid, _ := middleware.UserID(c)
	return service.RequestMeta{UserID: uid, IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}
