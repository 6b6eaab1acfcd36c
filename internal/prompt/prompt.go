// Package prompt renders the system/user prompt pairs sent to the
// completion backend. Rendering is deterministic: the same event always
// produces byte-identical prompts.
package prompt

import (
	"fmt"
	"strings"

	"order-intake-bot/internal/intake"
)

type Mode string

const (
	ModeStrictJSON Mode = "strict-json"
	ModeNatural    Mode = "natural-language"
)

type Pair struct {
	System string
	User   string
	Mode   Mode
}

const orderSystemPrompt = `You are the order-intake assistant of a Romanian commerce operator.
You receive one order with a client and a list of items. Validate the data, compute line_total = qty * unit_price for every item, subtotal as the sum of all line totals, a flat shipping fee of 40, and total = subtotal + shipping.
Respond with strict JSON only, no prose and no code fences, using exactly these fields:
{"order_id": "", "client": {"name": "", "phone": "", "address": ""}, "items": [{"sku": "", "name": "", "qty": 0, "unit_cost": 0, "unit_price": 0, "line_total": 0}], "totals": {"subtotal": 0, "shipping": 0, "total": 0}, "status": "pending|confirmed", "notes": "", "confirmation_message": ""}
Write confirmation_message as a short confirmation in Romanian. If any data is missing or inconsistent, set status to "pending" and explain in notes. Never refuse to answer and never emit anything except the JSON object.`

const chatSystemPrompt = `You are the Telegram assistant of a Romanian commerce operator taking clothing orders.
From the customer's message extract: product, size, quantity, city, name, phone and payment method.
If a required detail is genuinely missing, ask exactly one short, clear follow-up question about it.
Otherwise confirm the order in at most three sentences. Always reply in Romanian, as plain text. Never output JSON or any other structured format.`

// BuildOrder renders the strict-JSON pair for a direct API order.
// Items are rendered in payload order; no timestamps, nothing random.
func BuildOrder(o *intake.OrderPayload) Pair {
	var sb strings.Builder
	sb.WriteString("Comanda: " + o.OrderID + "\n")
	sb.WriteString("Client: " + o.Client.Name + " | " + o.Client.Phone + " | " + o.Client.Address + "\n")
	sb.WriteString(fmt.Sprintf("Produse (%d):\n", len(o.Items)))
	for i, it := range o.Items {
		sb.WriteString(fmt.Sprintf("%d. sku=%s nume=%s qty=%d unit_cost=%g unit_price=%g\n",
			i+1, it.SKU, it.Name, it.Qty, it.UnitCost, it.UnitPrice))
	}
	sb.WriteString("\nProceseaza comanda si raspunde doar cu obiectul JSON cerut.")

	return Pair{System: orderSystemPrompt, User: sb.String(), Mode: ModeStrictJSON}
}

// BuildChat renders the natural-language pair for a free-text message.
func BuildChat(text string) Pair {
	return Pair{System: chatSystemPrompt, User: text, Mode: ModeNatural}
}
