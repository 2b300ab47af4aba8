package portal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zagu-ph/ordering-portal/internal/dealer"
	"github.com/zagu-ph/ordering-portal/internal/order"
)

// Screen is the portal screen currently shown.
type Screen string

const (
	ScreenLogin        Screen = "login"
	ScreenCatalog      Screen = "catalog"
	ScreenCheckout     Screen = "checkout"
	ScreenConfirmation Screen = "confirmation"
)

// API is the slice of the portal service the controller calls.
type API interface {
	SubmitOrder(ctx context.Context, req order.SubmitRequest, isDraft bool) (*order.SubmitResult, error)
	Orders(ctx context.Context, dealerCode string) ([]order.Order, error)
}

// Toast surfaces a user-visible message. level is one of "success",
// "warn", "error".
type Toast func(message, level string)

// Controller owns the dealer session and cart state and reconciles
// them with submission outcomes. All configuration is injected; there
// are no package-level singletons.
type Controller struct {
	mu    sync.Mutex
	api   API
	toast Toast
	now   func() time.Time

	Dealer        *dealer.Dealer
	Cart          Cart
	Notes         string
	PaymentMethod string
	Screen        Screen
	Orders        []order.Order

	submitting bool
}

func NewController(api API, toast Toast) *Controller {
	if toast == nil {
		toast = func(string, string) {}
	}
	return &Controller{
		api:    api,
		toast:  toast,
		now:    time.Now,
		Screen: ScreenLogin,
	}
}

// buildRequest snapshots the cart, today's date and the dealer's
// outstanding balance into a submit payload. The order number is
// time-based; collisions are unlikely, not impossible.
func (c *Controller) buildRequest() order.SubmitRequest {
	items := make([]order.SubmitItem, 0, len(c.Cart.Lines()))
	for _, l := range c.Cart.Lines() {
		items = append(items, order.SubmitItem{
			ProductCode: l.Product.Code,
			ProductName: l.Product.Name,
			Quantity:    fmt.Sprintf("%d", l.Qty),
			UnitPrice:   l.Product.UnitPrice.String(),
		})
	}
	return order.SubmitRequest{
		OrderNumber:        fmt.Sprintf("ORD-%d", c.now().UnixMilli()),
		OrderDate:          c.now().Format("2006-01-02"),
		DealerCode:         c.Dealer.Code,
		StoreName:          c.storeName(),
		PaymentMethod:      c.PaymentMethod,
		Notes:              c.Notes,
		OutstandingBalance: c.Dealer.OutstandingBalance.String(),
		Items:              items,
	}
}

func (c *Controller) storeName() string {
	if len(c.Dealer.Stores) > 0 {
		return c.Dealer.Stores[0].Name
	}
	return ""
}

// Submit sends the cart through the order workflow and reconciles
// local state with the outcome.
//
// Success (draft or pending_approval) and the degraded
// created_but_status_pending outcome all clear the cart and refresh
// the order list; only the messaging differs. A hard failure leaves
// the cart intact so the user can retry, at the acknowledged risk of a
// duplicate order.
func (c *Controller) Submit(ctx context.Context, isDraft bool) error {
	c.mu.Lock()
	if c.Cart.Empty() {
		c.mu.Unlock()
		return nil
	}
	if c.submitting {
		c.mu.Unlock()
		return nil
	}
	c.submitting = true
	req := c.buildRequest()
	c.mu.Unlock()

	res, err := c.api.SubmitOrder(ctx, req, isDraft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		c.toast("Failed to submit order", "error")
		return err
	}

	switch res.Status {
	case order.OutcomeDraft:
		c.toast("Draft saved", "success")
	case order.OutcomeStatusPending:
		c.toast("Order received. Our staff will finish processing it shortly.", "warn")
	default:
		c.toast("Order submitted successfully!", "success")
	}

	c.Cart.Clear()
	c.Notes = ""
	if list, err := c.api.Orders(ctx, c.Dealer.Code); err == nil {
		c.Orders = list
	}
	if res.Status == order.OutcomeDraft {
		c.Screen = ScreenCatalog
	} else {
		c.Screen = ScreenConfirmation
	}
	return nil
}

// PaymentOptions lists the methods offered to the current dealer.
// Credit Terms is only offered to dealers with terms on file.
func (c *Controller) PaymentOptions() []string {
	opts := []string{"GCash", "Maya", "Credit Card", "Bank Transfer"}
	if c.Dealer != nil && c.Dealer.CreditTerms != "" && c.Dealer.CreditTerms != "None" {
		opts = append(opts, "Credit Terms")
	}
	return opts
}

// Submitting reports whether a submission is in flight; the UI uses it
// to disable the submit affordance.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}
