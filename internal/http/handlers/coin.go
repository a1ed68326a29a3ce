package handlers

import (
	"net/http"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/http/middleware"
	"loyalty_backend/internal/listing"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type earnRequest struct {
	Mobile      string          `json:"mobile"`
	Amount      decimal.Decimal `json:"amount"`
	OrderNumber string          `json:"orderNumber"`
}

// Earn credits coins for a purchase made outside the order endpoint.
func (h *Handler) Earn(c *gin.Context) {
	var req earnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	coins, err := h.Ledger.Earn(c.Request.Context(), service.EarnInput{
		Mobile:      req.Mobile,
		OrderAmount: req.Amount,
		OrderRef:    req.OrderNumber,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.Audit.LogCoinMovement(c.Request.Context(), meta(c), domain.AuditActionCoinEarn, coins, req.OrderNumber)
	c.JSON(http.StatusOK, gin.H{"message": "success", "earnedCoin": coins})
}

type redeemRequest struct {
	Product      string          `json:"product"`
	ProductValue decimal.Decimal `json:"productValue"`
	SpentCoin    int64           `json:"spentCoin"`
}

// Redeem spends the caller's coins; the mobile always comes from the token.
func (h *Handler) Redeem(c *gin.Context) {
	mobile, ok := currentMobile(c)
	if !ok {
		fail(c, domain.ErrUnauthorized)
		return
	}
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rd, err := h.Ledger.Redeem(c.Request.Context(), service.RedeemInput{
		Mobile:       mobile,
		Product:      req.Product,
		ProductValue: req.ProductValue,
		SpentCoin:    req.SpentCoin,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.Audit.LogCoinMovement(c.Request.Context(), meta(c), domain.AuditActionCoinRedeem, rd.SpentCoin, rd.Code)
	c.JSON(http.StatusCreated, gin.H{"message": "success", "redemptionCode": rd.Code, "redemption": rd})
}

type receivedRequest struct {
	Code   string `json:"code"`
	Mobile string `json:"mobile"`
}

// MarkReceived confirms hand-over of a redeemed product.
func (h *Handler) MarkReceived(c *gin.Context) {
	var req receivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rd, err := h.Ledger.MarkReceived(c.Request.Context(), req.Code, req.Mobile)
	if err != nil {
		fail(c, err)
		return
	}

	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionRedemptionReceive, domain.AuditCategoryCoin, rd.Code, nil)
	c.JSON(http.StatusOK, gin.H{"message": "success", "redemption": rd})
}

func (h *Handler) Balance(c *gin.Context) {
	mobile, ok := currentMobile(c)
	if !ok {
		fail(c, domain.ErrUnauthorized)
		return
	}
	bal, err := h.Ledger.Balance(c.Request.Context(), mobile)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": bal})
}

// Transactions pages through the caller's ledger, oldest first.
func (h *Handler) Transactions(c *gin.Context) {
	mobile, ok := currentMobile(c)
	if !ok {
		fail(c, domain.ErrUnauthorized)
		return
	}
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}

	res, err := listing.List[domain.CoinTransaction, domain.CoinTransactionFilter](
		c.Request.Context(), h.CoinTx, domain.CoinTransactionFilter{Mobile: mobile}, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}

// Wallet returns the balance and one page of transactions, fetched concurrently.
func (h *Handler) Wallet(c *gin.Context) {
	mobile, ok := currentMobile(c)
	if !ok {
		fail(c, domain.ErrUnauthorized)
		return
	}
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}

	var (
		bal domain.CoinBalance
		txs *listing.Result[domain.CoinTransaction]
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		bal, err = h.Ledger.Balance(ctx, mobile)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = listing.List[domain.CoinTransaction, domain.CoinTransactionFilter](
			ctx, h.CoinTx, domain.CoinTransactionFilter{Mobile: mobile}, page, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "success",
		"balance":      bal,
		"transactions": newPageResponse(c, txs),
	})
}

// MyRedemptions lists the caller's redemptions, newest first.
func (h *Handler) MyRedemptions(c *gin.Context) {
	mobile, ok := currentMobile(c)
	if !ok {
		fail(c, domain.ErrUnauthorized)
		return
	}
	h.listRedemptions(c, domain.RedemptionFilter{Mobile: mobile, Status: domain.RedemptionStatus(c.Query("status"))})
}

// ListRedemptions is the admin view; ?mobile= and ?status= filter.
func (h *Handler) ListRedemptions(c *gin.Context) {
	h.listRedemptions(c, domain.RedemptionFilter{
		Mobile: c.Query("mobile"),
		Status: domain.RedemptionStatus(c.Query("status")),
	})
}

func (h *Handler) listRedemptions(c *gin.Context, f domain.RedemptionFilter) {
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := listing.List[domain.Redemption, domain.RedemptionFilter](c.Request.Context(), h.Redemptions, f, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}

// GetRedemption looks a code up. Customers only see their own redemptions.
func (h *Handler) GetRedemption(c *gin.Context) {
	rd, err := h.Redemptions.GetByCode(c.Request.Context(), service.NormalizeCode(c.Param("code")))
	if err != nil {
		fail(c, err)
		return
	}
	if mobile, _ := currentMobile(c); !middleware.IsAdmin(c) && rd.Mobile != mobile {
		fail(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": rd})
}
