package handlers

import (
	"net/http"
	"strconv"

	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products service.ProductService
	log      *zap.Logger
}

func NewProductHandler(products service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	p, err := h.products.Create(c.Request.Context(), service.CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		PriceCents:   req.PriceCents,
		Inventory:    req.Inventory,
		Featured:     req.Featured,
		FreeShipping: req.FreeShipping,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProductResponse(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	p, err := h.products.Update(c.Request.Context(), id, service.UpdateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		PriceCents:   req.PriceCents,
		Inventory:    req.Inventory,
		Featured:     req.Featured,
		FreeShipping: req.FreeShipping,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(p))
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(p))
}

func (h *ProductHandler) List(c *gin.Context) {
	f := repository.ProductListFilter{
		Query: c.Query("q"),
	}
	if v := c.Query("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			f.OnlyFeatured = &b
		}
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, total, err := h.products.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.ProductListResponse{
		Products: make([]dto.ProductResponse, 0, len(list)),
		Total:    total,
	}
	for i := range list {
		resp.Products = append(resp.Products, dto.ToProductResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
