// Package intake turns raw webhook bodies into a single discriminated
// event type. Downstream code switches on Event.Kind and never looks at
// raw fields again.
package intake

import (
	"encoding/json"
	"errors"
	"strings"
)

type Kind string

const (
	// KindNoop is an update we acknowledge without doing anything:
	// non-message update types, empty texts, undecodable bodies.
	KindNoop     Kind = "noop"
	KindCommand  Kind = "command"
	KindFreeText Kind = "free_text"
	KindOrder    Kind = "order"
)

var ErrInvalidPayload = errors.New("invalid_payload")

// Reserved bot commands. Anything not an exact match is free text.
var commands = map[string]bool{
	"/start":   true,
	"/comanda": true,
}

type ChatMessage struct {
	ChatID  int64
	Text    string
	Command string
}

type Client struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Item struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitCost  float64 `json:"unit_cost"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderPayload struct {
	OrderID string `json:"order_id"`
	Client  Client `json:"client"`
	Items   []Item `json:"items"`
}

// Event is the normalized inbound event. Exactly one of Chat or Order
// is set, matching Kind.
type Event struct {
	Kind  Kind
	Chat  *ChatMessage
	Order *OrderPayload
}

type telegramUpdate struct {
	Message *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// NormalizeUpdate classifies a chat-platform update. It never fails:
// updates without a message (edits, joins, undecodable bodies) become
// noop events, which the caller acknowledges and drops.
func NormalizeUpdate(body []byte) *Event {
	var upd telegramUpdate
	if err := json.Unmarshal(body, &upd); err != nil || upd.Message == nil {
		return &Event{Kind: KindNoop}
	}

	text := strings.TrimSpace(upd.Message.Text)
	if text == "" {
		return &Event{Kind: KindNoop}
	}

	msg := &ChatMessage{ChatID: upd.Message.Chat.ID, Text: text}
	if commands[text] {
		msg.Command = text
		return &Event{Kind: KindCommand, Chat: msg}
	}
	return &Event{Kind: KindFreeText, Chat: msg}
}

type orderWire struct {
	OrderID string  `json:"order_id"`
	Client  *Client `json:"client"`
	Items   *[]Item `json:"items"`
}

// NormalizeOrder parses a direct API order payload. A non-empty
// order_id, a client object and an items array (possibly empty) are
// all required.
func NormalizeOrder(body []byte) (*Event, error) {
	var wire orderWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, ErrInvalidPayload
	}
	if wire.OrderID == "" || wire.Client == nil || wire.Items == nil {
		return nil, ErrInvalidPayload
	}
	return &Event{
		Kind: KindOrder,
		Order: &OrderPayload{
			OrderID: wire.OrderID,
			Client:  *wire.Client,
			Items:   *wire.Items,
		},
	}, nil
}
