package websocket

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/variant-reservation/internal/engine"
)

// 클라이언트 -> 서버 메시지 타입
const (
	MessageOpenProduct = "open_product"
	MessagePickSize    = "pick_size"
	MessagePickColor   = "pick_color"
	MessageSetQuantity = "set_quantity"
	MessageCommit      = "commit"
)

// 서버 -> 클라이언트 메시지 타입
const (
	MessageSnapshot = "snapshot"
	MessageLineItem = "line_item"
	MessageError    = "error"
)

// ClientMessage 쇼퍼가 보내는 액션
type ClientMessage struct {
	Type      string `json:"type" validate:"required,oneof=open_product pick_size pick_color set_quantity commit"`
	ProductID uint   `json:"product_id" validate:"required_if=Type open_product"`
	Size      string `json:"size" validate:"required_if=Type pick_size,max=32"`
	Color     string `json:"color" validate:"required_if=Type pick_color,max=64"`
	Quantity  int    `json:"quantity" validate:"required_if=Type set_quantity,gte=0,lte=999"`
}

// ServerMessage 서버가 보내는 메시지
type ServerMessage struct {
	Type     string           `json:"type"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	LineItem *engine.LineItem `json:"line_item,omitempty"`
	Error    *ErrorPayload    `json:"error,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New()

// Event translates a validated action into an engine event. open_product
// has no event of its own and returns nil.
func (m ClientMessage) Event() engine.Event {
	switch m.Type {
	case MessagePickSize:
		return engine.SizePicked{Size: m.Size}
	case MessagePickColor:
		return engine.ColorPicked{Color: m.Color}
	case MessageSetQuantity:
		return engine.QuantityChanged{Quantity: m.Quantity}
	case MessageCommit:
		return engine.CommitRequested{}
	}
	return nil
}

func decodeClientMessage(raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, err
	}
	if err := validate.Struct(msg); err != nil {
		return msg, err
	}
	return msg, nil
}

func encodeSnapshot(snap engine.Snapshot) ([]byte, error) {
	return json.Marshal(ServerMessage{Type: MessageSnapshot, Snapshot: &snap})
}

func encodeLineItem(line engine.LineItem) ([]byte, error) {
	return json.Marshal(ServerMessage{Type: MessageLineItem, LineItem: &line})
}

func encodeError(code, message string) []byte {
	payload, _ := json.Marshal(ServerMessage{
		Type:  MessageError,
		Error: &ErrorPayload{Code: code, Message: message},
	})
	return payload
}
