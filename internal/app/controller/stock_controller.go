package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-reservation/internal/app/service"
	"github.com/ikkim/variant-reservation/internal/errors"
	"github.com/ikkim/variant-reservation/internal/middleware"
)

// ViewerCounter reports how many live sessions are on a product.
type ViewerCounter interface {
	ViewerCount(productID uint) int
}

type StockController struct {
	catalogService service.CatalogService
	stockService   service.StockService
	viewers        ViewerCounter
}

func NewStockController(
	catalogService service.CatalogService,
	stockService service.StockService,
	viewers ViewerCounter,
) *StockController {
	return &StockController{
		catalogService: catalogService,
		stockService:   stockService,
		viewers:        viewers,
	}
}

// CreateVariantRequest 옵션 등록 요청
type CreateVariantRequest struct {
	Size     string `json:"size" binding:"required,max=32"`
	Color    string `json:"color" binding:"required,max=64"`
	ColorHex string `json:"color_hex" binding:"omitempty,hexcolor"`
	Stock    int    `json:"stock" binding:"gte=0"`
	Active   *bool  `json:"active"`
}

// UpdateVariantRequest 옵션 수정 요청 (설정된 필드만 변경)
type UpdateVariantRequest struct {
	Stock    *int    `json:"stock" binding:"omitempty,gte=0"`
	Active   *bool   `json:"active"`
	ColorHex *string `json:"color_hex" binding:"omitempty,hexcolor"`
}

// SetFallbackStockRequest 옵션 없는 상품 재고 변경 요청
type SetFallbackStockRequest struct {
	Stock *int `json:"stock" binding:"required,gte=0"`
}

// GetStock 상품 재고 조회
// GET /api/v1/products/:id/stock
func (ctrl *StockController) GetStock(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.catalogService.GetStockView(c.Request.Context(), productID)
	if err != nil {
		log.Error("Failed to fetch stock", err, map[string]interface{}{
			"product_id": productID,
		})
		errors.RespondWithParsedError(c, err, "product")
		return
	}

	viewers := 0
	if ctrl.viewers != nil {
		viewers = ctrl.viewers.ViewerCount(productID)
	}

	c.JSON(http.StatusOK, gin.H{
		"stock":   view,
		"viewers": viewers,
	})
}

// CreateVariant 옵션 등록
// POST /api/v1/products/:id/variants
func (ctrl *StockController) CreateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid variant request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid variant")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	variant, err := ctrl.stockService.CreateVariant(c.Request.Context(), productID, service.VariantInput{
		Size:     req.Size,
		Color:    req.Color,
		ColorHex: req.ColorHex,
		Stock:    req.Stock,
		Active:   active,
	})
	if err != nil {
		log.Error("Failed to create variant", err, map[string]interface{}{
			"product_id": productID,
		})
		errors.RespondWithParsedError(c, err, "product")
		return
	}

	log.Info("Variant created", map[string]interface{}{
		"product_id": productID,
		"variant_id": variant.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"variant": variant.ToEngine(),
	})
}

// UpdateVariant 옵션 재고/활성 상태 변경
// PUT /api/v1/variants/:id
func (ctrl *StockController) UpdateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid variant update", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid variant update")
		return
	}

	variant, err := ctrl.stockService.UpdateVariant(c.Request.Context(), variantID, service.VariantPatch{
		Stock:    req.Stock,
		Active:   req.Active,
		ColorHex: req.ColorHex,
	})
	if err != nil {
		log.Error("Failed to update variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		errors.RespondWithParsedError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variant": variant.ToEngine(),
	})
}

// DeleteVariant 옵션 삭제
// DELETE /api/v1/variants/:id
func (ctrl *StockController) DeleteVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.stockService.DeleteVariant(c.Request.Context(), variantID); err != nil {
		log.Error("Failed to delete variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		errors.RespondWithParsedError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variant deleted",
	})
}

// SetFallbackStock 옵션 없는 상품의 재고 변경
// PUT /api/v1/products/:id/fallback-stock
func (ctrl *StockController) SetFallbackStock(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetFallbackStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Stock must be zero or more")
		return
	}

	if err := ctrl.stockService.SetFallbackStock(c.Request.Context(), productID, *req.Stock); err != nil {
		log.Error("Failed to set fallback stock", err, map[string]interface{}{
			"product_id": productID,
		})
		errors.RespondWithParsedError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":     productID,
		"fallback_stock": *req.Stock,
	})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}
