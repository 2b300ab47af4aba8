// Package kintone is a minimal client for the hosted record/workflow
// platform the portal delegates all persistence to. It covers the
// endpoints the portal actually calls: record CRUD, record queries and
// workflow status transitions.
package kintone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Well-known app keys.
const (
	AppProducts = "products"
	AppDealers  = "dealers"
	AppOrders   = "orders"
)

// AppConfig identifies one app on the platform.
type AppConfig struct {
	ID    string
	Token string
}

// APIError is a failed platform call. Message and StatusCode are
// propagated verbatim from the platform response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Apps    map[string]AppConfig
}

func New(baseURL string, apps map[string]AppConfig) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Apps:    apps,
	}
}

// App returns the config for an app key.
func (c *Client) App(key string) (AppConfig, bool) {
	app, ok := c.Apps[key]
	return app, ok
}

// CombinedToken joins the orders, products and dealers tokens. Order
// records embed lookup fields into the other two apps, and the platform
// resolves those only when the request carries all three tokens.
func (c *Client) CombinedToken() string {
	return strings.Join([]string{
		c.Apps[AppOrders].Token,
		c.Apps[AppProducts].Token,
		c.Apps[AppDealers].Token,
	}, ",")
}

type CreateResult struct {
	ID       string `json:"id"`
	Revision string `json:"revision"`
}

type UpdateResult struct {
	Revision string `json:"revision"`
}

type RecordsResult struct {
	Records    []Record `json:"records"`
	TotalCount string   `json:"totalCount"`
}

func (c *Client) request(ctx context.Context, method, endpoint, token string, query url.Values, body, out any) error {
	u := c.BaseURL + endpoint
	if method == http.MethodGet && len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd *bytes.Reader
	if body != nil && method != http.MethodGet {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("X-Cybozu-API-Token", token)
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var payload struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		_ = json.NewDecoder(res.Body).Decode(&payload)
		msg := payload.Message
		if msg == "" {
			msg = fmt.Sprintf("Kintone error %d", res.StatusCode)
		}
		return &APIError{StatusCode: res.StatusCode, Code: payload.Code, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// GetRecords queries an app. query uses the platform's query syntax;
// fields, when non-empty, limits the returned field set.
func (c *Client) GetRecords(ctx context.Context, appKey, query, fields string) (*RecordsResult, error) {
	app, ok := c.Apps[appKey]
	if !ok {
		return nil, fmt.Errorf("unknown app: %s", appKey)
	}
	q := url.Values{}
	q.Set("app", app.ID)
	q.Set("totalCount", "true")
	if query != "" {
		q.Set("query", query)
	}
	if fields != "" {
		q.Set("fields", fields)
	}
	var out RecordsResult
	if err := c.request(ctx, http.MethodGet, "/k/v1/records.json", app.Token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecord fetches a single record by id.
func (c *Client) GetRecord(ctx context.Context, appKey, id string) (Record, error) {
	app, ok := c.Apps[appKey]
	if !ok {
		return nil, fmt.Errorf("unknown app: %s", appKey)
	}
	q := url.Values{}
	q.Set("app", app.ID)
	q.Set("id", id)
	var out struct {
		Record Record `json:"record"`
	}
	if err := c.request(ctx, http.MethodGet, "/k/v1/record.json", app.Token, q, nil, &out); err != nil {
		return nil, err
	}
	return out.Record, nil
}

// CreateRecord persists a new record. Creating an order uses the
// combined token so its cross-app lookup fields resolve.
func (c *Client) CreateRecord(ctx context.Context, appKey string, rec Record) (*CreateResult, error) {
	app, ok := c.Apps[appKey]
	if !ok {
		return nil, fmt.Errorf("unknown app: %s", appKey)
	}
	token := app.Token
	if appKey == AppOrders {
		token = c.CombinedToken()
	}
	body := map[string]any{"app": app.ID, "record": rec}
	var out CreateResult
	if err := c.request(ctx, http.MethodPost, "/k/v1/record.json", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecord overwrites fields of an existing record.
func (c *Client) UpdateRecord(ctx context.Context, appKey, id string, rec Record) (*UpdateResult, error) {
	app, ok := c.Apps[appKey]
	if !ok {
		return nil, fmt.Errorf("unknown app: %s", appKey)
	}
	body := map[string]any{"app": app.ID, "id": id, "record": rec}
	var out UpdateResult
	if err := c.request(ctx, http.MethodPut, "/k/v1/record.json", app.Token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus runs a workflow action on a record. assignee is optional
// and only sent when non-empty.
func (c *Client) UpdateStatus(ctx context.Context, appKey, id, action, assignee string) (*UpdateResult, error) {
	app, ok := c.Apps[appKey]
	if !ok {
		return nil, fmt.Errorf("unknown app: %s", appKey)
	}
	body := map[string]any{"app": app.ID, "id": id, "action": action}
	if assignee != "" {
		body["assignee"] = assignee
	}
	var out UpdateResult
	if err := c.request(ctx, http.MethodPut, "/k/v1/record/status.json", app.Token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
