package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-reservation/internal/app/service"
	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/ikkim/variant-reservation/internal/errors"
	"github.com/ikkim/variant-reservation/internal/middleware"
)

type PlanController struct {
	catalogService service.CatalogService
}

func NewPlanController(catalogService service.CatalogService) *PlanController {
	return &PlanController{catalogService: catalogService}
}

// PlanAction 쇼퍼 액션 하나
type PlanAction struct {
	Type     string `json:"type" binding:"required,oneof=pick_size pick_color set_quantity commit"`
	Size     string `json:"size" binding:"required_if=Type pick_size,max=32"`
	Color    string `json:"color" binding:"required_if=Type pick_color,max=64"`
	Quantity int    `json:"quantity" binding:"required_if=Type set_quantity,gte=0,lte=999"`
}

// PlanRequest 액션 목록 (순서대로 적용)
type PlanRequest struct {
	Actions []PlanAction `json:"actions" binding:"max=200,dive"`
}

type PlanResponse struct {
	Snapshot  engine.Snapshot   `json:"snapshot"`
	LineItems []engine.LineItem `json:"line_items"`
}

func (a PlanAction) event() engine.Event {
	switch a.Type {
	case "pick_size":
		return engine.SizePicked{Size: a.Size}
	case "pick_color":
		return engine.ColorPicked{Color: a.Color}
	case "set_quantity":
		return engine.QuantityChanged{Quantity: a.Quantity}
	default:
		return engine.CommitRequested{}
	}
}

// Plan replays shopper actions against the current stock without keeping a
// session. Line items are returned instead of being sent to a cart.
// POST /api/v1/products/:id/plan
func (ctrl *PlanController) Plan(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	ctx := c.Request.Context()

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid plan request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.PlanInvalidAction, "Invalid actions")
		return
	}

	product, err := ctrl.catalogService.GetProduct(ctx, productID)
	if err != nil {
		errors.RespondWithParsedError(c, err, "product")
		return
	}

	loaded := engine.StockLoaded{ProductID: productID}
	loaded.Variants, err = ctrl.catalogService.FetchVariants(ctx, productID)
	if err == nil {
		loaded.FallbackStock, err = ctrl.catalogService.FetchFallbackStock(ctx, productID)
	}
	if err != nil {
		log.Error("Failed to load stock for plan", err, map[string]interface{}{
			"product_id": productID,
		})
		loaded.Err = &engine.StockFetchError{ProductID: productID, Err: err}
	}

	events := make([]engine.Event, 0, len(req.Actions)+1)
	events = append(events, loaded)
	for _, a := range req.Actions {
		events = append(events, a.event())
	}

	session, lines := engine.Replay(product, events...)
	if lines == nil {
		lines = []engine.LineItem{}
	}

	log.Debug("Plan replayed", map[string]interface{}{
		"product_id": productID,
		"actions":    len(req.Actions),
		"status":     session.Status.Kind,
		"lines":      len(lines),
	})

	c.JSON(http.StatusOK, PlanResponse{
		Snapshot:  session.Snapshot(),
		LineItems: lines,
	})
}
