package order

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Status is the workflow status of a persisted order. Transitions are
// owned by the hosted platform's state machine; this side only names
// the states and invokes actions.
type Status string

const (
	StatusNew             Status = "New"
	StatusSubmitted       Status = "Submitted"
	StatusPendingApproval Status = "Pending Approval"
	StatusApproved        Status = "Approved"
	StatusPosted          Status = "Posted"
	StatusPicking         Status = "Picking"
	StatusReady           Status = "Ready"
	StatusCompleted       Status = "Completed"
	StatusRejected        Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusSubmitted, StatusPendingApproval, StatusApproved,
		StatusPosted, StatusPicking, StatusReady, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// PaymentMethods offered to dealers. Credit Terms is only offered when
// the dealer has terms on file; that gating happens client-side.
var PaymentMethods = map[string]bool{
	"GCash":         true,
	"Maya":          true,
	"Credit Card":   true,
	"Bank Transfer": true,
	"Credit Terms":  true,
}

// LineItem is one order line. Name and price are snapshots taken at
// submission time and never change afterwards, even if the product
// record does.
type LineItem struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Order struct {
	ID                 string          `json:"id,omitempty"`
	Revision           string          `json:"revision,omitempty"`
	OrderNumber        string          `json:"order_number"`
	Date               string          `json:"order_date"` // YYYY-MM-DD
	DealerCode         string          `json:"dealer_code"`
	StoreName          string          `json:"store_name"`
	Items              []LineItem      `json:"items"`
	PaymentMethod      string          `json:"payment_method"`
	Notes              string          `json:"notes"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	IsDraft            bool            `json:"is_draft"`
	Status             Status          `json:"status,omitempty"`
}

// Total is the order total, always derived from the lines.
func (o *Order) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range o.Items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}

// Validation errors. These reject a submission before any external
// call is made.
var (
	ErrEmptyOrder     = errors.New("order has no items")
	ErrMissingDealer  = errors.New("dealer code is required")
	ErrMissingDate    = errors.New("order date is required")
	ErrMissingNumber  = errors.New("order number is required")
	ErrBadQuantity    = errors.New("quantity must be a positive integer")
	ErrUnknownPayment = errors.New("unknown payment method")
)

// IsValidationError reports whether err is a local validation failure,
// as opposed to a platform error.
func IsValidationError(err error) bool {
	for _, v := range []error{
		ErrEmptyOrder, ErrMissingDealer, ErrMissingDate,
		ErrMissingNumber, ErrBadQuantity, ErrUnknownPayment,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	if o.DealerCode == "" {
		return ErrMissingDealer
	}
	if o.Date == "" {
		return ErrMissingDate
	}
	if o.OrderNumber == "" {
		return ErrMissingNumber
	}
	if !PaymentMethods[o.PaymentMethod] {
		return ErrUnknownPayment
	}
	for _, li := range o.Items {
		if li.Quantity <= 0 {
			return ErrBadQuantity
		}
	}
	return nil
}
