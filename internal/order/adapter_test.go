package order

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zagu-ph/ordering-portal/internal/kintone"
)

func TestToRecord(t *testing.T) {
	o := testOrder("ITM-BV-001", 50, 85, false)
	o.Notes = "Regular weekly order"
	o.OutstandingBalance = decimal.NewFromInt(12500)

	rec := ToRecord(o)

	if got := rec.String("order_number"); got != "ORD-1756600000000" {
		t.Fatalf("order_number = %q", got)
	}
	if got := rec.String("dealer_lookup"); got != "DLR-001" {
		t.Fatalf("dealer_lookup = %q", got)
	}
	if got := rec.String("is_draft"); got != "No" {
		t.Fatalf("is_draft = %q, want No", got)
	}
	if got := rec.String("outstanding_balance_snapshot"); got != "12500" {
		t.Fatalf("balance snapshot = %q", got)
	}
	if got := rec.String("total_amount"); got != "4250" {
		t.Fatalf("total_amount = %q, want 4250", got)
	}

	rows, ok := rec["order_items"].Value.([]kintone.SubtableRow)
	if !ok || len(rows) != 1 {
		t.Fatalf("order_items = %#v", rec["order_items"].Value)
	}
	row := rows[0].Value
	if got := row.String("quantity"); got != "50" {
		t.Fatalf("quantity serialized as %q, want \"50\"", got)
	}
	if got := row.String("line_total"); got != "4250" {
		t.Fatalf("line_total = %q", got)
	}
}

// wireOrderRecord is a record as it comes back from the store, with
// the subtable as generic JSON maps.
const wireOrderRecord = `{
  "$id": {"value": "1"},
  "order_number": {"value": "ORD-2026-0001"},
  "order_date": {"value": "2026-01-15"},
  "Status": {"value": "Completed"},
  "total_amount": {"value": "8000"},
  "payment_method": {"value": "GCash"},
  "store_name_order": {"value": "SM North EDSA Branch"},
  "notes": {"value": "Regular weekly order"},
  "is_draft": {"value": "No"},
  "dealer_lookup": {"value": "DLR-001"},
  "outstanding_balance_snapshot": {"value": "12500"},
  "order_items": {"value": [
    {"value": {
      "product_lookup": {"value": "ITM-BV-001"},
      "product_name_display": {"value": "Classic Pearl Shake"},
      "quantity": {"value": "50"},
      "item_unit_price": {"value": "85"},
      "line_total": {"value": "4250"}
    }},
    {"value": {
      "product_lookup": {"value": "ITM-FI-001"},
      "product_name_display": {"value": "Tapioca Pearl Mix - 10kg"},
      "quantity": {"value": "3"},
      "item_unit_price": {"value": "1250"},
      "line_total": {"value": "3750"}
    }}
  ]}
}`

func TestFromRecord(t *testing.T) {
	var rec kintone.Record
	if err := json.Unmarshal([]byte(wireOrderRecord), &rec); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	o, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}
	if o.ID != "1" || o.OrderNumber != "ORD-2026-0001" {
		t.Fatalf("order = %+v", o)
	}
	if o.Status != StatusCompleted {
		t.Fatalf("status = %q", o.Status)
	}
	if o.IsDraft {
		t.Fatal("order parsed as draft")
	}
	if len(o.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(o.Items))
	}
	if o.Items[0].Quantity != 50 {
		t.Fatalf("quantity = %d, want 50 (int after ingress)", o.Items[0].Quantity)
	}
	if got := o.Total().String(); got != "8000" {
		t.Fatalf("derived total = %s, want 8000", got)
	}
}

func TestFromRecord_BadQuantity(t *testing.T) {
	var rec kintone.Record
	if err := json.Unmarshal([]byte(wireOrderRecord), &rec); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	// Corrupt the first row's quantity.
	raw := rec["order_items"].Value.([]any)
	row := raw[0].(map[string]any)["value"].(map[string]any)
	row["quantity"] = map[string]any{"value": "-5"}

	_, err := FromRecord(rec)
	if !errors.Is(err, ErrBadQuantity) {
		t.Fatalf("err = %v, want ErrBadQuantity", err)
	}
}

func TestSubmitRequestToOrder(t *testing.T) {
	req := SubmitRequest{
		OrderNumber:        "ORD-1756600000001",
		OrderDate:          "2026-02-03",
		DealerCode:         "DLR-001",
		PaymentMethod:      "Maya",
		OutstandingBalance: "12500",
		Items: []SubmitItem{
			{ProductCode: "ITM-TS-001", ProductName: "Caramel Syrup - 1L", Quantity: "3", UnitPrice: "320"},
		},
	}
	o, err := req.ToOrder()
	if err != nil {
		t.Fatalf("ToOrder: %v", err)
	}
	if o.Items[0].Quantity != 3 {
		t.Fatalf("quantity = %d", o.Items[0].Quantity)
	}
	if got := o.Total().String(); got != "960" {
		t.Fatalf("total = %s, want 960", got)
	}

	req.Items[0].Quantity = "three"
	if _, err := req.ToOrder(); !errors.Is(err, ErrBadQuantity) {
		t.Fatalf("err = %v, want ErrBadQuantity", err)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusSubmitted, StatusPendingApproval, StatusApproved,
		StatusPosted, StatusPicking, StatusReady, StatusCompleted, StatusRejected} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Status("Shipped").Valid() {
		t.Fatal("unknown status accepted")
	}
}
