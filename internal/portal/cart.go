package portal

import "github.com/shopspring/decimal"

// CartLine is a product with a chosen quantity.
type CartLine struct {
	Product Product
	Qty     int
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Cart holds the in-memory lines of an unsubmitted order. Not safe for
// concurrent use; the Controller serializes access.
type Cart struct {
	lines []CartLine
}

// Add appends a product, or bumps its quantity when already present.
func (c *Cart) Add(p Product) {
	for i := range c.lines {
		if c.lines[i].Product.Code == p.Code {
			c.lines[i].Qty++
			return
		}
	}
	c.lines = append(c.lines, CartLine{Product: p, Qty: 1})
}

// UpdateQty adjusts a line's quantity by delta, flooring at 1.
func (c *Cart) UpdateQty(code string, delta int) {
	for i := range c.lines {
		if c.lines[i].Product.Code == code {
			q := c.lines[i].Qty + delta
			if q < 1 {
				q = 1
			}
			c.lines[i].Qty = q
			return
		}
	}
}

func (c *Cart) Remove(code string) {
	for i := range c.lines {
		if c.lines[i].Product.Code == code {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Lines() []CartLine { return c.lines }

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) Clear() { c.lines = nil }

// Count is the total unit count across lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}
