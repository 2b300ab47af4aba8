package order

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// SubmitItem is one order line on the wire. Quantity and price travel
// as strings because every field value in the store's format does.
// swagger:model SubmitItem
type SubmitItem struct {
	ProductCode string `json:"product_code" example:"ITM-BV-001"`
	ProductName string `json:"product_name" example:"Classic Pearl Shake"`
	Quantity    string `json:"quantity"     example:"50"`
	UnitPrice   string `json:"unit_price"   example:"85"`
}

// SubmitRequest is the order payload accepted by the submit endpoint.
// swagger:model SubmitRequest
type SubmitRequest struct {
	OrderNumber        string       `json:"order_number" example:"ORD-1756600000000"`
	OrderDate          string       `json:"order_date"   example:"2026-02-03"`
	DealerCode         string       `json:"dealer_code"  example:"DLR-001"`
	StoreName          string       `json:"store_name"   example:"SM North EDSA Branch"`
	PaymentMethod      string       `json:"payment_method" example:"GCash"`
	Notes              string       `json:"notes"`
	OutstandingBalance string       `json:"outstanding_balance" example:"12500"`
	Items              []SubmitItem `json:"items"`
}

// ToOrder converts and validates the wire payload into a typed Order.
// This is the only place the store's stringly values cross into the
// typed schema.
func (r SubmitRequest) ToOrder() (*Order, error) {
	items := make([]LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		qty, err := strconv.Atoi(it.Quantity)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("item %s: %w", it.ProductCode, ErrBadQuantity)
		}
		price, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("item %s: bad unit price %q", it.ProductCode, it.UnitPrice)
		}
		items = append(items, LineItem{
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    qty,
			UnitPrice:   price,
		})
	}

	balance := decimal.Zero
	if r.OutstandingBalance != "" {
		b, err := decimal.NewFromString(r.OutstandingBalance)
		if err != nil {
			return nil, fmt.Errorf("bad outstanding balance %q", r.OutstandingBalance)
		}
		balance = b
	}

	o := &Order{
		OrderNumber:        r.OrderNumber,
		Date:               r.OrderDate,
		DealerCode:         r.DealerCode,
		StoreName:          r.StoreName,
		Items:              items,
		PaymentMethod:      r.PaymentMethod,
		Notes:              r.Notes,
		OutstandingBalance: balance,
		Status:             StatusNew,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}
