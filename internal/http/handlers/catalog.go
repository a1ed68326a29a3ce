package handlers

import (
	"net/http"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/http/middleware"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves either products or items; both share one surface.
type CatalogHandler struct {
	*Handler
	svc *service.CatalogService
}

func (h *Handler) Catalog(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{Handler: h, svc: svc}
}

// catalogInput reads JSON, or multipart fields plus "image" and "gallery" files.
func (h *CatalogHandler) catalogInput(c *gin.Context) (service.CatalogInput, error) {
	var in service.CatalogInput
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, errInvalidBody
		}
		return in, nil
	}

	var err error
	in.Name = formString(c, "name")
	in.Slug = formString(c, "slug")
	in.Description = formString(c, "description")
	in.Category = formString(c, "category")
	in.Status = formString(c, "status")
	if in.Price, err = formDecimal(c, "price"); err != nil {
		return in, err
	}
	if in.SalePrice, err = formDecimal(c, "salePrice"); err != nil {
		return in, err
	}
	if in.Stock, err = formInt(c, "stock"); err != nil {
		return in, err
	}
	if in.ImageURL, err = h.uploadOptional(c, "image"); err != nil {
		return in, err
	}
	if in.Gallery, err = h.uploadGallery(c, "gallery"); err != nil {
		return in, err
	}
	return in, nil
}

func (h *CatalogHandler) Create(c *gin.Context) {
	defer cleanupMultipart(c)

	in, err := h.catalogInput(c)
	if err != nil {
		fail(c, err)
		return
	}
	if in.ImageURL == "" {
		in.ImageURL = h.Media.Placeholder()
	}

	e, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionCatalogWrite, domain.AuditCategoryCatalog, e.ID,
		map[string]interface{}{"kind": e.Kind, "op": "create"})
	c.JSON(http.StatusCreated, gin.H{"message": "created", "data": e})
}

func (h *CatalogHandler) Update(c *gin.Context) {
	defer cleanupMultipart(c)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, err := h.catalogInput(c)
	if err != nil {
		fail(c, err)
		return
	}

	e, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionCatalogWrite, domain.AuditCategoryCatalog, e.ID,
		map[string]interface{}{"kind": e.Kind, "op": "update"})
	c.JSON(http.StatusOK, gin.H{"message": "updated", "data": e})
}

// Delete marks the entry Inactive.
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Disable(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.Audit.LogAdminAction(c.Request.Context(), meta(c), domain.AuditActionCatalogDisable, domain.AuditCategoryCatalog, id,
		map[string]interface{}{"kind": h.svc.Kind()})
	c.JSON(http.StatusOK, gin.H{"message": "disabled"})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := h.svc.Get(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": e})
}

func (h *CatalogHandler) GetBySlug(c *gin.Context) {
	e, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.IsAdmin(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success", "data": e})
}

// List is public (Active only); AdminList sees every status.
func (h *CatalogHandler) List(c *gin.Context) {
	h.list(c, false)
}

func (h *CatalogHandler) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *CatalogHandler) list(c *gin.Context, admin bool) {
	page, limit, err := pageParams(c)
	if err != nil {
		fail(c, err)
		return
	}
	f := domain.CatalogFilter{Category: c.Query("category"), Status: domain.CatalogStatus(c.Query("status"))}
	res, err := h.svc.List(c.Request.Context(), f, admin, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondPage(c, res)
}
