package websocket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/variant-reservation/internal/engine"
	apperrors "github.com/ikkim/variant-reservation/internal/errors"
	"github.com/ikkim/variant-reservation/pkg/logger"
)

// SessionFactory builds an unstarted reconciler for productID whose commits
// go to sink and whose snapshots go to onChange.
type SessionFactory func(ctx context.Context, productID uint, sink engine.CartSink, onChange func(engine.Snapshot)) (*engine.Reconciler, error)

var errNoSession = errors.New("no product opened")

var _ engine.BatchSink = (*Client)(nil)

// Client 쇼퍼 한 명의 WebSocket 세션
type Client struct {
	ID   string
	Hub  *Hub
	Conn *Conn
	Send chan []byte

	ctx      context.Context
	cancel   context.CancelFunc
	sessions SessionFactory

	openMu     sync.Mutex
	mu         sync.RWMutex
	productID  uint
	reconciler *engine.Reconciler

	lastActive atomic.Int64

	sendMu sync.Mutex
	closed bool

	MessageCount  int       // 최근 1초간 받은 메시지 수
	LastResetTime time.Time // 카운터 리셋 시각
	RateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, sessions SessionFactory) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		ID:            uuid.NewString(),
		Hub:           hub,
		Conn:          conn,
		Send:          make(chan []byte, 256),
		ctx:           ctx,
		cancel:        cancel,
		sessions:      sessions,
		LastResetTime: time.Now(),
	}
	c.touch()
	return c
}

func (c *Client) ProductID() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.productID
}

func (c *Client) LastActive() time.Time {
	return time.Unix(0, c.lastActive.Load())
}

func (c *Client) touch() {
	c.lastActive.Store(time.Now().UnixNano())
}

// Open discards the current product view, if any, and starts a fresh
// session on productID. Concurrent opens run one after another.
func (c *Client) Open(ctx context.Context, productID uint) error {
	c.openMu.Lock()
	defer c.openMu.Unlock()

	if c.sessions == nil {
		return errNoSession
	}
	if c.ctx.Err() != nil {
		return engine.ErrSessionClosed
	}

	rec, err := c.sessions(ctx, productID, c, c.pushSnapshot)
	if err != nil {
		return err
	}

	c.mu.Lock()
	old, from := c.reconciler, c.productID
	c.reconciler, c.productID = rec, productID
	c.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if err := rec.Start(c.ctx); err != nil {
		c.mu.Lock()
		if c.reconciler == rec {
			c.reconciler, c.productID = nil, 0
		}
		c.mu.Unlock()
		c.Hub.move(c, from, 0)
		return err
	}
	c.Hub.move(c, from, productID)

	logger.Info("Product view opened", map[string]interface{}{
		"session_id": c.ID,
		"product_id": productID,
		"previous":   from,
	})
	return nil
}

// Dispatch forwards a shopper action to the open product session.
func (c *Client) Dispatch(ctx context.Context, ev engine.Event) error {
	c.mu.RLock()
	rec := c.reconciler
	c.mu.RUnlock()
	if rec == nil {
		return errNoSession
	}
	return rec.Dispatch(ctx, ev)
}

// HandleMessage 클라이언트 메시지 처리
func (c *Client) HandleMessage(ctx context.Context, raw []byte) {
	if !c.allow() {
		return
	}
	c.touch()

	msg, err := decodeClientMessage(raw)
	if err != nil {
		logger.Warn("Invalid client message", map[string]interface{}{
			"session_id": c.ID,
			"error":      err.Error(),
		})
		c.send(encodeError(apperrors.PlanInvalidAction, "Invalid message"))
		return
	}

	if msg.Type == MessageOpenProduct {
		if err := c.Open(ctx, msg.ProductID); err != nil {
			logger.Error("Failed to open product view", err, map[string]interface{}{
				"session_id": c.ID,
				"product_id": msg.ProductID,
			})
			info := apperrors.ParseError(err, "open product")
			c.send(encodeError(info.Code, info.Message))
		}
		return
	}

	if err := c.Dispatch(ctx, msg.Event()); err != nil {
		code, text := apperrors.PlanInvalidAction, "Open a product first"
		if !errors.Is(err, errNoSession) {
			code, text = apperrors.InternalServerError, "Session closed"
		}
		c.send(encodeError(code, text))
	}
}

func (c *Client) allow() bool {
	c.RateMu.Lock()
	now := time.Now()
	if now.Sub(c.LastResetTime) >= time.Second {
		// 1초가 지났으면 카운터 리셋
		c.MessageCount = 0
		c.LastResetTime = now
	}
	c.MessageCount++
	count := c.MessageCount
	c.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"session_id": c.ID,
			"count":      count,
		})
		return false
	}
	return true
}

func (c *Client) pushSnapshot(snap engine.Snapshot) {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		logger.Error("Failed to encode snapshot", err, map[string]interface{}{
			"session_id": c.ID,
		})
		return
	}
	c.send(payload)
}

// EmitLineItem delivers one committed line as a line_item message.
func (c *Client) EmitLineItem(ctx context.Context, line engine.LineItem) error {
	return c.EmitLineItems(ctx, []engine.LineItem{line})
}

// EmitLineItems queues every line of a commit or none of them.
func (c *Client) EmitLineItems(_ context.Context, lines []engine.LineItem) error {
	payloads := make([][]byte, 0, len(lines))
	for _, line := range lines {
		payload, err := encodeLineItem(line)
		if err != nil {
			return err
		}
		payloads = append(payloads, payload)
	}
	if !c.sendAll(payloads) {
		return engine.ErrSessionClosed
	}
	return nil
}

// send queues payload without blocking. A full buffer drops the client.
func (c *Client) send(payload []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		logger.Warn("Send buffer full, dropping session", map[string]interface{}{
			"session_id": c.ID,
		})
		go c.Hub.Unregister(c)
		return false
	}
}

// sendAll queues every payload or none. A buffer without room for all of
// them drops the client.
func (c *Client) sendAll(payloads [][]byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	if cap(c.Send)-len(c.Send) < len(payloads) {
		logger.Warn("Send buffer full, dropping session", map[string]interface{}{
			"session_id": c.ID,
			"pending":    len(payloads),
		})
		go c.Hub.Unregister(c)
		return false
	}
	for _, payload := range payloads {
		c.Send <- payload
	}
	return true
}

// shutdown stops the product session and closes Send. Only the hub calls it.
func (c *Client) shutdown() {
	c.mu.Lock()
	rec := c.reconciler
	c.reconciler, c.productID = nil, 0
	c.mu.Unlock()

	if rec != nil {
		rec.Stop()
	}
	c.cancel()

	c.sendMu.Lock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
	c.sendMu.Unlock()
}

func (c *Client) closeConn() {
	if c.Conn != nil && c.Conn.Conn != nil {
		c.Conn.Close()
	}
}
