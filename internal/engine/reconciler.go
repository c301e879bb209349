package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ikkim/variant-reservation/pkg/logger"
)

// Catalog is the product collaborator the reconciler loads stock from.
type Catalog interface {
	FetchVariants(ctx context.Context, productID uint) ([]Variant, error)
	FetchFallbackStock(ctx context.Context, productID uint) (int, error)
}

// Unsubscribe tears down a feed subscription.
type Unsubscribe func()

// Feed delivers change events for one product, in order.
type Feed interface {
	Subscribe(ctx context.Context, productID uint, handler func(StockEvent)) (Unsubscribe, error)
}

// ReconcilerOptions wires a reconciler to its collaborators.
type ReconcilerOptions struct {
	Catalog Catalog
	Feed    Feed
	Sink    CartSink
	// OnChange is called from the reconciler goroutine after every step.
	// It must not call Stop.
	OnChange func(Snapshot)
	// Buffer is the inbox capacity. Senders block when it is full.
	Buffer int
}

var errNoCatalog = errors.New("no catalog configured")

type message struct {
	ev    Event
	reply chan Snapshot
}

// Reconciler owns one Session. A single goroutine applies shopper actions,
// the initial load and feed events in arrival order, so the session is
// never written from two places.
type Reconciler struct {
	product ProductRecord
	opts    ReconcilerOptions
	inbox   chan message
	done    chan struct{}

	mu          sync.Mutex
	started     bool
	stopped     bool
	cancel      context.CancelFunc
	unsubscribe Unsubscribe
}

func NewReconciler(product ProductRecord, opts ReconcilerOptions) *Reconciler {
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	return &Reconciler{
		product: product,
		opts:    opts,
		inbox:   make(chan message, opts.Buffer),
		done:    make(chan struct{}),
	}
}

// ProductID returns the product this reconciler is bound to.
func (r *Reconciler) ProductID() uint {
	return r.product.ID
}

// Start subscribes to the feed and kicks off the initial fetch. Feed events
// that arrive before the fetch completes are replayed on top of it. A
// reconciler cannot be started once Stop has been called.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return ErrSessionClosed
	}
	if r.started {
		return nil
	}
	r.started = true

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.run(ctx)

	if r.opts.Feed != nil {
		unsub, err := r.opts.Feed.Subscribe(ctx, r.product.ID, func(ev StockEvent) {
			if err := r.Dispatch(ctx, StockChanged{Event: ev}); err != nil {
				logger.Debug("Dropping stock event for closed session", map[string]interface{}{
					"product_id": r.product.ID,
					"kind":       ev.Kind,
				})
			}
		})
		if err != nil {
			r.stopped = true
			r.cancel = nil
			cancel()
			return fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
		}
		r.unsubscribe = unsub
	}

	go r.load(ctx)
	return nil
}

// Stop unsubscribes, discards the session and waits for the loop to exit.
// Stopping a reconciler that was never started only seals it.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	r.stopped = true
	if !r.started || r.cancel == nil {
		r.mu.Unlock()
		return
	}
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.cancel()
	r.cancel = nil
	r.mu.Unlock()

	<-r.done
}

// Dispatch queues an event. It blocks while the inbox is full and fails once
// the reconciler has stopped.
func (r *Reconciler) Dispatch(ctx context.Context, ev Event) error {
	select {
	case <-r.done:
		return ErrSessionClosed
	default:
	}
	select {
	case r.inbox <- message{ev: ev}:
		return nil
	case <-r.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the session state after every event queued before it.
func (r *Reconciler) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case r.inbox <- message{reply: reply}:
	case <-r.done:
		return Snapshot{}, ErrSessionClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-r.done:
		return Snapshot{}, ErrSessionClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.done)

	session := NewSession(r.product)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Reconciler stopped", map[string]interface{}{
				"product_id": r.product.ID,
			})
			return
		case msg := <-r.inbox:
			if msg.reply != nil {
				msg.reply <- session.Snapshot()
				continue
			}
			session = r.step(ctx, session, msg.ev)
		}
	}
}

func (r *Reconciler) step(ctx context.Context, s Session, ev Event) Session {
	if loaded, ok := ev.(StockLoaded); ok && loaded.ProductID != r.product.ID {
		logger.Warn("Discarding stale stock load", map[string]interface{}{
			"product_id": r.product.ID,
			"stale_id":   loaded.ProductID,
		})
		return s
	}

	next, lines := Step(s, ev)
	if len(lines) > 0 {
		if err := r.emit(ctx, lines); err != nil {
			logger.Error("Failed to emit line items", err, map[string]interface{}{
				"product_id": r.product.ID,
				"lines":      len(lines),
			})
			// the commit did not reach the cart; plan and quantity stay as they were
			next = s
			next.Notice = &Rejection{
				Kind:    RejectCartUnavailable,
				Message: "Could not add the items to the cart. Please try again",
			}
		}
	}
	if next.Notice != nil {
		logger.Debug("Shopper action rejected", map[string]interface{}{
			"product_id": r.product.ID,
			"kind":       next.Notice.Kind,
			"message":    next.Notice.Message,
		})
	}
	if r.opts.OnChange != nil {
		r.opts.OnChange(next.Snapshot())
	}
	return next
}

func (r *Reconciler) emit(ctx context.Context, lines []LineItem) error {
	if r.opts.Sink == nil {
		logger.Warn("Commit accepted without a cart sink", map[string]interface{}{
			"product_id": r.product.ID,
			"lines":      len(lines),
		})
		return nil
	}
	if err := Emit(ctx, r.opts.Sink, lines); err != nil {
		return err
	}
	logger.Info("Commit emitted", map[string]interface{}{
		"product_id": r.product.ID,
		"lines":      len(lines),
	})
	return nil
}

func (r *Reconciler) load(ctx context.Context) {
	ev := StockLoaded{ProductID: r.product.ID}
	if r.opts.Catalog == nil {
		ev.Err = &StockFetchError{ProductID: r.product.ID, Err: errNoCatalog}
		_ = r.Dispatch(ctx, ev)
		return
	}

	variants, err := r.opts.Catalog.FetchVariants(ctx, r.product.ID)
	if err == nil {
		ev.Variants = variants
		ev.FallbackStock, err = r.opts.Catalog.FetchFallbackStock(ctx, r.product.ID)
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		ev.Err = &StockFetchError{ProductID: r.product.ID, Err: err}
		logger.Warn("Stock fetch failed, stock status unknown", map[string]interface{}{
			"product_id": r.product.ID,
			"error":      ev.Err.Error(),
		})
	}

	if err := r.Dispatch(ctx, ev); err != nil {
		logger.Debug("Stock load finished after session closed", map[string]interface{}{
			"product_id": r.product.ID,
		})
	}
}
