package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/variant-reservation/internal/app/service"
	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/ikkim/variant-reservation/internal/errors"
	"github.com/ikkim/variant-reservation/internal/middleware"
	ws "github.com/ikkim/variant-reservation/internal/websocket"
)

type SessionController struct {
	catalogService service.CatalogService
	feed           engine.Feed
	hub            *ws.Hub
	buffer         int
	upgrader       websocket.Upgrader
}

func NewSessionController(
	catalogService service.CatalogService,
	feed engine.Feed,
	hub *ws.Hub,
	buffer int,
	allowedOrigins []string,
) *SessionController {
	// 허용된 도메인 목록
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &SessionController{
		catalogService: catalogService,
		feed:           feed,
		hub:            hub,
		buffer:         buffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// NewSession builds the reconciler behind one product view.
func (ctrl *SessionController) NewSession(
	ctx context.Context,
	productID uint,
	sink engine.CartSink,
	onChange func(engine.Snapshot),
) (*engine.Reconciler, error) {
	product, err := ctrl.catalogService.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return engine.NewReconciler(product, engine.ReconcilerOptions{
		Catalog:  ctrl.catalogService,
		Feed:     ctrl.feed,
		Sink:     sink,
		OnChange: onChange,
		Buffer:   ctrl.buffer,
	}), nil
}

// Connect 상품 화면 WebSocket 세션 연결
// GET /ws/products/:id
func (ctrl *SessionController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.catalogService.GetProduct(c.Request.Context(), productID); err != nil {
		errors.RespondWithParsedError(c, err, "product")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, ctrl.NewSession)
	ctrl.hub.Register(client)

	// goroutine으로 읽기/쓰기 시작
	go client.WritePump()
	go client.ReadPump()

	if err := client.Open(context.Background(), productID); err != nil {
		log.Error("Failed to open product session", err, map[string]interface{}{
			"session_id": client.ID,
			"product_id": productID,
		})
		client.Conn.Close()
		return
	}

	log.Info("WebSocket session established", map[string]interface{}{
		"session_id": client.ID,
		"product_id": productID,
	})
}
