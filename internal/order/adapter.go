package order

import (
	"fmt"
	"strconv"

	"github.com/zagu-ph/ordering-portal/internal/kintone"
)

// Field codes in the orders app.
const (
	fldOrderNumber = "order_number"
	fldOrderDate   = "order_date"
	fldDealer      = "dealer_lookup"
	fldStoreName   = "store_name_order"
	fldPayment     = "payment_method"
	fldNotes       = "notes"
	fldBalance     = "outstanding_balance_snapshot"
	fldIsDraft     = "is_draft"
	fldTotal       = "total_amount"
	fldItems       = "order_items"
	fldStatus      = "Status"

	fldItemProduct = "product_lookup"
	fldItemName    = "product_name_display"
	fldItemQty     = "quantity"
	fldItemPrice   = "item_unit_price"
	fldItemTotal   = "line_total"
)

// ToRecord maps a typed Order to the store's wire format. Line totals
// and the order total are written from the derived values, never from
// caller input.
func ToRecord(o *Order) kintone.Record {
	rows := make([]kintone.Record, len(o.Items))
	for i, li := range o.Items {
		rows[i] = kintone.Record{
			fldItemProduct: kintone.Str(li.ProductCode),
			fldItemName:    kintone.Str(li.ProductName),
			fldItemQty:     kintone.Str(strconv.Itoa(li.Quantity)),
			fldItemPrice:   kintone.Str(li.UnitPrice.String()),
			fldItemTotal:   kintone.Str(li.LineTotal().String()),
		}
	}
	isDraft := "No"
	if o.IsDraft {
		isDraft = "Yes"
	}
	return kintone.Record{
		fldOrderNumber: kintone.Str(o.OrderNumber),
		fldOrderDate:   kintone.Str(o.Date),
		fldDealer:      kintone.Str(o.DealerCode),
		fldStoreName:   kintone.Str(o.StoreName),
		fldPayment:     kintone.Str(o.PaymentMethod),
		fldNotes:       kintone.Str(o.Notes),
		fldBalance:     kintone.Str(o.OutstandingBalance.String()),
		fldIsDraft:     kintone.Str(isDraft),
		fldTotal:       kintone.Str(o.Total().String()),
		fldItems:       kintone.Subtable(rows),
	}
}

// FromRecord maps a store record back to a typed Order, validating on
// ingress so the rest of the system never sees the wire shapes.
func FromRecord(rec kintone.Record) (*Order, error) {
	balance, err := rec.Decimal(fldBalance)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", rec.String(fldOrderNumber), err)
	}

	var items []LineItem
	for _, row := range rec.Rows(fldItems) {
		qty, err := row.Int(fldItemQty)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("order %s item %s: %w",
				rec.String(fldOrderNumber), row.String(fldItemProduct), ErrBadQuantity)
		}
		price, err := row.Decimal(fldItemPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s item %s: %w",
				rec.String(fldOrderNumber), row.String(fldItemProduct), err)
		}
		items = append(items, LineItem{
			ProductCode: row.String(fldItemProduct),
			ProductName: row.String(fldItemName),
			Quantity:    qty,
			UnitPrice:   price,
		})
	}

	status := Status(rec.String(fldStatus))
	if status == "" {
		status = StatusNew
	}

	return &Order{
		ID:                 rec.String("$id"),
		OrderNumber:        rec.String(fldOrderNumber),
		Date:               rec.String(fldOrderDate),
		DealerCode:         rec.String(fldDealer),
		StoreName:          rec.String(fldStoreName),
		Items:              items,
		PaymentMethod:      rec.String(fldPayment),
		Notes:              rec.String(fldNotes),
		OutstandingBalance: balance,
		IsDraft:            rec.String(fldIsDraft) == "Yes",
		Status:             status,
	}, nil
}
