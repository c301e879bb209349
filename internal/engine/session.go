package engine

import "fmt"

// Event is anything that can move a Session forward: shopper actions, the
// initial stock load and change-feed notifications.
type Event interface {
	isEvent()
}

type SizePicked struct{ Size string }

type ColorPicked struct{ Color string }

type QuantityChanged struct{ Quantity int }

type CommitRequested struct{}

// StockLoaded carries the result of the initial fetch. A result for any
// product other than the session's is stale and ignored.
type StockLoaded struct {
	ProductID     uint
	Variants      []Variant
	FallbackStock int
	Err           error
}

type StockChanged struct{ Event StockEvent }

func (SizePicked) isEvent()      {}
func (ColorPicked) isEvent()     {}
func (QuantityChanged) isEvent() {}
func (CommitRequested) isEvent() {}
func (StockLoaded) isEvent()     {}
func (StockChanged) isEvent()    {}

// Session is all state of one shopper on one product view.
type Session struct {
	Product      ProductRecord
	Mirror       Mirror
	Index        StockIndex
	Loaded       bool
	StockUnknown bool
	Selection    Selection
	Plan         Plan
	Status       Status
	// Notice is the rejection produced by the latest shopper action, if any.
	Notice *Rejection

	// feed events received before the initial load, replayed on top of it
	pending []StockEvent
}

// NewSession opens a view on product with an empty index.
func NewSession(product ProductRecord) Session {
	s := Session{
		Product:   product,
		Index:     StockIndex{},
		Selection: NewSelection(),
	}
	s.Status = Evaluate(s)
	return s
}

// Step applies one event and returns the next session. Line items are
// returned only by a successful commit.
func Step(s Session, ev Event) (Session, []LineItem) {
	var lines []LineItem

	switch e := ev.(type) {
	case SizePicked:
		s.Selection, s.Plan, s.Notice = SetSize(s.Selection, s.Plan, s.Index, e.Size)
	case ColorPicked:
		s.Selection, s.Plan, s.Notice = SetColor(s.Selection, s.Plan, s.Index, e.Color)
	case QuantityChanged:
		s.Notice = nil
		s.Selection, s.Plan = SetQuantity(s.Selection, s.Plan, e.Quantity)
	case CommitRequested:
		var rej *Rejection
		s, lines, rej = commit(s)
		s.Notice = rej
	case StockLoaded:
		if e.ProductID != s.Product.ID {
			return s, nil
		}
		s = load(s, e)
	case StockChanged:
		if e.Event.ProductID != s.Product.ID || e.Event.Validate() != nil {
			return s, nil
		}
		if !s.Loaded {
			s.pending = append(append([]StockEvent(nil), s.pending...), e.Event)
			return s, nil
		}
		s = reindex(s, s.Mirror.Apply(e.Event))
	}

	s.Status = Evaluate(s)
	return s, lines
}

// Variantless reports a loaded product without any active variant rows.
// Such a product is gated on its fallback stock alone.
func (s Session) Variantless() bool {
	return s.Loaded && !s.StockUnknown && s.Mirror.Variantless()
}

// Replay folds events over a fresh session for product.
func Replay(product ProductRecord, events ...Event) (Session, []LineItem) {
	s := NewSession(product)
	var lines []LineItem
	for _, ev := range events {
		var out []LineItem
		s, out = Step(s, ev)
		lines = append(lines, out...)
	}
	return s, lines
}

func load(s Session, e StockLoaded) Session {
	m := Mirror{}
	s.StockUnknown = e.Err != nil
	if e.Err == nil {
		m = Mirror{
			Variants:      append([]Variant(nil), e.Variants...),
			FallbackStock: e.FallbackStock,
		}
	}
	for _, pending := range s.pending {
		m = m.Apply(pending)
	}
	s.pending = nil
	s.Loaded = true
	return reindex(s, m)
}

func reindex(s Session, m Mirror) Session {
	s.Mirror = m
	s.Index = m.Index()
	s.Selection = AutoSelect(s.Selection, m.Sizes(), m.Colors())
	return s
}

func commit(s Session) (Session, []LineItem, *Rejection) {
	sel := s.Selection

	if s.Variantless() {
		if sel.Quantity > s.Mirror.FallbackStock {
			return s, nil, insufficient("Insufficient stock to complete the requested quantity")
		}
		line := newLineItem(s.Product, "", "", sel.Quantity)
		return committed(s), []LineItem{line}, nil
	}

	if sel.Quantity == 1 {
		if !sel.Complete() {
			return s, nil, &Rejection{Kind: RejectSelectionIncomplete, Message: "Select a size and color"}
		}
		size, color := sel.Size.String(), sel.Color.String()
		stock, ok := s.Index.Lookup(Key(size, color))
		if !ok {
			return s, nil, unavailable(size, color)
		}
		if stock < 1 {
			return s, nil, insufficient(fmt.Sprintf("%s / %s is out of stock", size, color))
		}
		return committed(s), []LineItem{SingleLine(s.Product, size, color)}, nil
	}

	base, rej := FillBase(s.Plan, sel)
	if rej != nil {
		return s, nil, rej
	}
	filled, rej := Fill(s.Plan, s.Index, base, sel.Quantity)
	if rej != nil {
		return s, nil, rej
	}

	// slots appended earlier may have gone stale since
	switch st := checkSlots(filled, s.Index); st.Kind {
	case StatusCombinationUnavailable:
		return s, nil, &Rejection{Kind: RejectCombinationUnavailable, Message: st.Message}
	case StatusOverstock:
		return s, nil, insufficient(st.Message)
	}

	lines, err := Aggregate(s.Product, filled, sel.Quantity)
	if err != nil {
		return s, nil, insufficient(err.Error())
	}
	return committed(s), lines, nil
}

// committed resets the plan and quantity; size and color stay chosen.
func committed(s Session) Session {
	s.Plan = nil
	s.Selection.Quantity = 1
	return s
}

// Snapshot is the shopper-facing view of a session.
type Snapshot struct {
	ProductID     uint           `json:"product_id"`
	Sizes         []string       `json:"sizes"`
	Colors        []ColorOption  `json:"colors"`
	SelectedSize  *string        `json:"selected_size"`
	SelectedColor *string        `json:"selected_color"`
	Quantity      int            `json:"quantity"`
	Plan          []Slot         `json:"plan"`
	Stock         map[string]int `json:"stock"`
	FallbackStock int            `json:"fallback_stock"`
	StockUnknown  bool           `json:"stock_unknown"`
	Loaded        bool           `json:"loaded"`
	Status        Status         `json:"status"`
	CanCommit     bool           `json:"can_commit"`
	Notice        *Rejection     `json:"notice,omitempty"`
}

// Snapshot copies the session into a value safe to hand to other goroutines.
func (s Session) Snapshot() Snapshot {
	stock := make(map[string]int, len(s.Index))
	for k, v := range s.Index {
		stock[k] = v
	}
	plan := make([]Slot, len(s.Plan))
	copy(plan, s.Plan)

	return Snapshot{
		ProductID:     s.Product.ID,
		Sizes:         s.Mirror.Sizes(),
		Colors:        s.Mirror.Colors(),
		SelectedSize:  optional(s.Selection.Size),
		SelectedColor: optional(s.Selection.Color),
		Quantity:      s.Selection.Quantity,
		Plan:          plan,
		Stock:         stock,
		FallbackStock: s.Mirror.FallbackStock,
		StockUnknown:  s.StockUnknown,
		Loaded:        s.Loaded,
		Status:        s.Status,
		CanCommit:     s.Status.CanCommit(),
		Notice:        s.Notice,
	}
}

func optional(c Choice) *string {
	v, ok := c.Get()
	if !ok {
		return nil
	}
	return &v
}
