// Package portal is the dealer-facing side of the system: an HTTP
// client for the portal API and the submission controller that drives
// cart state through the order workflow.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zagu-ph/ordering-portal/internal/dealer"
	"github.com/zagu-ph/ordering-portal/internal/kintone"
	"github.com/zagu-ph/ordering-portal/internal/order"
)

// Client talks to the portal service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = fmt.Sprintf("API error %d", res.StatusCode)
		}
		return fmt.Errorf("%s", payload.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) Login(ctx context.Context, code, password string) (*dealer.Dealer, error) {
	var out struct {
		Dealer *dealer.Dealer `json:"dealer"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"code": code, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return out.Dealer, nil
}

// Products lists active catalog entries. An empty query defaults to
// active products ordered by code.
func (c *Client) Products(ctx context.Context, query string) ([]Product, error) {
	if query == "" {
		query = `product_status in ("Active") order by product_code asc`
	}
	var out struct {
		Records []kintone.Record `json:"records"`
	}
	path := "/api/products/records?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(out.Records))
	for _, rec := range out.Records {
		products = append(products, productFromRecord(rec))
	}
	return products, nil
}

// Orders lists a dealer's orders, newest first. Records that fail to
// parse are skipped rather than sinking the whole listing.
func (c *Client) Orders(ctx context.Context, dealerCode string) ([]order.Order, error) {
	query := fmt.Sprintf("dealer_lookup = %q order by order_date desc", dealerCode)
	var out struct {
		Records []kintone.Record `json:"records"`
	}
	path := "/api/orders/records?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	orders := make([]order.Order, 0, len(out.Records))
	for _, rec := range out.Records {
		o, err := order.FromRecord(rec)
		if err != nil {
			continue
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// SubmitOrder runs the composite create + status-advance workflow.
func (c *Client) SubmitOrder(ctx context.Context, req order.SubmitRequest, isDraft bool) (*order.SubmitResult, error) {
	body := struct {
		Order   order.SubmitRequest `json:"order"`
		IsDraft bool                `json:"isDraft"`
	}{Order: req, IsDraft: isDraft}
	var out order.SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/orders/submit-order", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus runs a single workflow action on an order. Staff
// tooling uses this to unstick created_but_status_pending orders.
func (c *Client) UpdateOrderStatus(ctx context.Context, id, action, assignee string) error {
	body := map[string]string{"id": id, "action": action}
	if assignee != "" {
		body["assignee"] = assignee
	}
	return c.do(ctx, http.MethodPost, "/api/orders/status", body, nil)
}
