package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"order-intake-bot/internal/intake"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

type OrderItem struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitCost  float64 `json:"unit_cost"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type StructuredOrder struct {
	OrderID             string        `json:"order_id"`
	Client              intake.Client `json:"client"`
	Items               []OrderItem   `json:"items"`
	Totals              Totals        `json:"totals"`
	Status              string        `json:"status"`
	Notes               string        `json:"notes,omitempty"`
	ConfirmationMessage string        `json:"confirmation_message"`
}

// NormalizedResponse is what the API flow returns. Raw always carries
// the backend text verbatim; Parsed is nil when structural validation
// failed, with Warning saying why.
type NormalizedResponse struct {
	Parsed  *StructuredOrder `json:"parsed"`
	Raw     string           `json:"raw,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

const WarnUnstructured = "model did not return valid structured output"

var jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

type orderWire struct {
	OrderID             string         `json:"order_id"`
	Client              *intake.Client `json:"client"`
	Items               *[]OrderItem   `json:"items"`
	Totals              *Totals        `json:"totals"`
	Status              string         `json:"status"`
	Notes               string         `json:"notes"`
	ConfirmationMessage string         `json:"confirmation_message"`
}

// ValidateOrder checks a strict-JSON completion structurally. It never
// fails: anything that does not parse into a field-complete order
// degrades to the warning path with the raw text kept.
func ValidateOrder(ctx context.Context, tracer trace.Tracer, raw string) *NormalizedResponse {
	_, span := tracer.Start(ctx, "pipeline_stage validate")
	defer span.End()

	resp := &NormalizedResponse{Raw: raw}

	wire, ok := decodeOrder(raw)
	if !ok {
		resp.Warning = WarnUnstructured
		span.SetAttributes(
			attribute.Bool("ordbot.valid", false),
			attribute.String("ordbot.warning", resp.Warning),
		)
		return resp
	}

	order := &StructuredOrder{
		OrderID:             wire.OrderID,
		Client:              *wire.Client,
		Items:               *wire.Items,
		Totals:              *wire.Totals,
		Status:              wire.Status,
		Notes:               wire.Notes,
		ConfirmationMessage: wire.ConfirmationMessage,
	}

	// Arithmetic is the model's job; a mismatch is flagged, not fixed.
	// An inconsistent order is never treated as confirmed.
	if violations := checkTotals(order); len(violations) > 0 {
		resp.Warning = "order totals are internally inconsistent: " + strings.Join(violations, "; ")
		if order.Status == "confirmed" {
			order.Status = "pending"
		}
		span.SetAttributes(attribute.StringSlice("ordbot.violations", violations))
	}

	resp.Parsed = order

	span.SetAttributes(
		attribute.Bool("ordbot.valid", true),
		attribute.String("ordbot.order.status", order.Status),
		attribute.Int("ordbot.order.items", len(order.Items)),
	)
	return resp
}

// decodeOrder pulls a JSON object out of the completion (raw or inside
// a fenced block, despite the prompt forbidding fences) and checks the
// required top-level fields.
func decodeOrder(raw string) (*orderWire, bool) {
	candidate := strings.TrimSpace(raw)
	if m := jsonBlockPattern.FindStringSubmatch(candidate); m != nil {
		candidate = m[1]
	}

	var wire orderWire
	if err := json.Unmarshal([]byte(candidate), &wire); err != nil {
		return nil, false
	}
	if wire.OrderID == "" || wire.Client == nil || wire.Items == nil || wire.Totals == nil || wire.Status == "" {
		return nil, false
	}
	return &wire, true
}

const centTolerance = 0.01

func checkTotals(o *StructuredOrder) []string {
	var violations []string
	var sum float64
	for i, it := range o.Items {
		expected := float64(it.Qty) * it.UnitPrice
		if math.Abs(it.LineTotal-expected) > centTolerance {
			violations = append(violations,
				fmt.Sprintf("item %d line_total %g != qty*unit_price %g", i+1, it.LineTotal, expected))
		}
		sum += it.LineTotal
	}
	if math.Abs(o.Totals.Subtotal-sum) > centTolerance {
		violations = append(violations,
			fmt.Sprintf("subtotal %g != sum of line totals %g", o.Totals.Subtotal, sum))
	}
	if math.Abs(o.Totals.Total-(o.Totals.Subtotal+o.Totals.Shipping)) > centTolerance {
		violations = append(violations,
			fmt.Sprintf("total %g != subtotal+shipping %g", o.Totals.Total, o.Totals.Subtotal+o.Totals.Shipping))
	}
	return violations
}
