package portal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zagu-ph/ordering-portal/internal/dealer"
	"github.com/zagu-ph/ordering-portal/internal/order"
)

type stubAPI struct {
	submits   []order.SubmitRequest
	drafts    []bool
	result    *order.SubmitResult
	submitErr error
	orders    []order.Order
	listCalls int
}

func (s *stubAPI) SubmitOrder(ctx context.Context, req order.SubmitRequest, isDraft bool) (*order.SubmitResult, error) {
	s.submits = append(s.submits, req)
	s.drafts = append(s.drafts, isDraft)
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.result, nil
}

func (s *stubAPI) Orders(ctx context.Context, dealerCode string) ([]order.Order, error) {
	s.listCalls++
	return s.orders, nil
}

type toastRecord struct {
	message string
	level   string
}

func testController(api API) (*Controller, *[]toastRecord) {
	var toasts []toastRecord
	c := NewController(api, func(msg, level string) {
		toasts = append(toasts, toastRecord{msg, level})
	})
	c.now = func() time.Time { return time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC) }
	c.Dealer = &dealer.Dealer{
		Code:               "DLR-001",
		Name:               "Juan's Zagu Franchise",
		OutstandingBalance: decimal.NewFromInt(12500),
		Stores:             []dealer.Store{{Code: "STR-001A", Name: "SM North EDSA Branch"}},
	}
	c.PaymentMethod = "GCash"
	c.Screen = ScreenCheckout
	return c, &toasts
}

func pearlShake() Product {
	return Product{Code: "ITM-BV-001", Name: "Classic Pearl Shake", UnitPrice: decimal.NewFromInt(85)}
}

func TestSubmit_EmptyCartIsNoOp(t *testing.T) {
	api := &stubAPI{}
	c, _ := testController(api)

	if err := c.Submit(context.Background(), false); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(api.submits) != 0 {
		t.Fatalf("empty cart still submitted: %d calls", len(api.submits))
	}
}

func TestSubmit_Success(t *testing.T) {
	api := &stubAPI{
		result: &order.SubmitResult{ID: "42", Revision: "1", Status: order.OutcomePendingApproval},
		orders: []order.Order{{OrderNumber: "ORD-2026-0001"}},
	}
	c, toasts := testController(api)
	c.Cart.Add(pearlShake())
	c.Cart.UpdateQty("ITM-BV-001", 1) // qty 2
	c.Notes = "Rush order"

	if err := c.Submit(context.Background(), false); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	req := api.submits[0]
	if !strings.HasPrefix(req.OrderNumber, "ORD-") {
		t.Fatalf("order number = %q", req.OrderNumber)
	}
	if req.OrderDate != "2026-02-03" {
		t.Fatalf("order date = %q", req.OrderDate)
	}
	if req.OutstandingBalance != "12500" {
		t.Fatalf("balance snapshot = %q", req.OutstandingBalance)
	}
	if req.StoreName != "SM North EDSA Branch" {
		t.Fatalf("store = %q", req.StoreName)
	}
	if len(req.Items) != 1 || req.Items[0].Quantity != "2" {
		t.Fatalf("items = %+v (quantity must be a string on the wire)", req.Items)
	}
	if req.Items[0].UnitPrice != "85" || req.Items[0].ProductName != "Classic Pearl Shake" {
		t.Fatalf("item snapshot = %+v", req.Items[0])
	}

	if !c.Cart.Empty() {
		t.Fatal("cart not cleared after success")
	}
	if c.Notes != "" {
		t.Fatal("notes not cleared after success")
	}
	if c.Screen != ScreenConfirmation {
		t.Fatalf("screen = %q, want confirmation", c.Screen)
	}
	if api.listCalls != 1 || len(c.Orders) != 1 {
		t.Fatalf("order list not refreshed (calls=%d, orders=%d)", api.listCalls, len(c.Orders))
	}
	if (*toasts)[0].level != "success" {
		t.Fatalf("toast = %+v", (*toasts)[0])
	}
}

func TestSubmit_Draft(t *testing.T) {
	api := &stubAPI{result: &order.SubmitResult{ID: "43", Revision: "1", Status: order.OutcomeDraft}}
	c, _ := testController(api)
	c.Cart.Add(pearlShake())

	if err := c.Submit(context.Background(), true); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !api.drafts[0] {
		t.Fatal("draft flag not passed through")
	}
	if c.Screen != ScreenCatalog {
		t.Fatalf("screen = %q, want catalog for drafts", c.Screen)
	}
	if !c.Cart.Empty() {
		t.Fatal("cart not cleared after draft save")
	}
}

func TestSubmit_StatusPendingIsSoftSuccess(t *testing.T) {
	api := &stubAPI{result: &order.SubmitResult{
		ID: "42", Revision: "1",
		Status:      order.OutcomeStatusPending,
		StatusError: "Kintone error 500",
	}}
	c, toasts := testController(api)
	c.Cart.Add(pearlShake())

	if err := c.Submit(context.Background(), false); err != nil {
		t.Fatalf("degraded outcome must not surface as error: %v", err)
	}
	// Cleanup is identical to full success; only the messaging differs.
	if !c.Cart.Empty() {
		t.Fatal("cart not cleared")
	}
	if c.Screen != ScreenConfirmation {
		t.Fatalf("screen = %q", c.Screen)
	}
	if api.listCalls != 1 {
		t.Fatal("order list not refreshed")
	}
	if (*toasts)[0].level != "warn" {
		t.Fatalf("toast = %+v, want a softer warn-level message", (*toasts)[0])
	}
}

func TestSubmit_HardFailurePreservesCart(t *testing.T) {
	api := &stubAPI{submitErr: errors.New("GAIA_IL23: invalid lookup")}
	c, toasts := testController(api)
	c.Cart.Add(pearlShake())
	c.Notes = "keep me"

	err := c.Submit(context.Background(), false)
	if err == nil {
		t.Fatal("expected error")
	}
	if c.Cart.Empty() {
		t.Fatal("cart must be preserved so the user can retry")
	}
	if c.Notes != "keep me" {
		t.Fatal("notes cleared on failure")
	}
	if c.Screen != ScreenCheckout {
		t.Fatalf("screen transitioned on failure: %q", c.Screen)
	}
	if api.listCalls != 0 {
		t.Fatal("order list refreshed on failure")
	}
	if (*toasts)[0].level != "error" {
		t.Fatalf("toast = %+v", (*toasts)[0])
	}
	if c.Submitting() {
		t.Fatal("submitting flag stuck after failure")
	}
}

func TestPaymentOptions(t *testing.T) {
	c, _ := testController(&stubAPI{})

	c.Dealer.CreditTerms = "None"
	for _, m := range c.PaymentOptions() {
		if m == "Credit Terms" {
			t.Fatal("Credit Terms offered without terms on file")
		}
	}

	c.Dealer.CreditTerms = "Net 30"
	found := false
	for _, m := range c.PaymentOptions() {
		if m == "Credit Terms" {
			found = true
		}
	}
	if !found {
		t.Fatal("Credit Terms not offered to a dealer with terms")
	}
}

func TestCart(t *testing.T) {
	var cart Cart
	cart.Add(pearlShake())
	cart.Add(pearlShake())
	cart.Add(Product{Code: "ITM-FI-001", Name: "Tapioca Pearl Mix - 10kg", UnitPrice: decimal.NewFromInt(1250)})

	if cart.Count() != 3 {
		t.Fatalf("count = %d", cart.Count())
	}
	if got := cart.Total().String(); got != "1420" {
		t.Fatalf("total = %s, want 1420", got)
	}

	cart.UpdateQty("ITM-BV-001", -5) // floors at 1
	if cart.Lines()[0].Qty != 1 {
		t.Fatalf("qty = %d, want floor of 1", cart.Lines()[0].Qty)
	}

	cart.Remove("ITM-FI-001")
	if len(cart.Lines()) != 1 {
		t.Fatalf("lines = %d", len(cart.Lines()))
	}
	cart.Clear()
	if !cart.Empty() {
		t.Fatal("cart not empty after Clear")
	}
}
