package portal

import (
	"github.com/shopspring/decimal"

	"github.com/zagu-ph/ordering-portal/internal/kintone"
)

// Product is one catalog entry from the products app.
type Product struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Stock        int             `json:"stock"`
	Status       string          `json:"status"`
	ItemCategory string          `json:"item_category,omitempty"`
	VariantLabel string          `json:"variant_label,omitempty"`
}

func productFromRecord(rec kintone.Record) Product {
	price, err := rec.Decimal("unit_price")
	if err != nil {
		price = decimal.Zero
	}
	stock, err := rec.Int("stock_qty")
	if err != nil {
		stock = 0
	}
	return Product{
		ID:           rec.String("$id"),
		Code:         rec.String("product_code"),
		Name:         rec.String("product_name"),
		Category:     rec.String("category"),
		Description:  rec.String("description"),
		UnitPrice:    price,
		Stock:        stock,
		Status:       rec.String("product_status"),
		ItemCategory: rec.String("item_category"),
		VariantLabel: rec.String("variant_label"),
	}
}
