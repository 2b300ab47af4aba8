// Package notify sends best-effort push notifications through the
// external messaging provider. Delivery failures are logged and
// swallowed; callers never see them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type Pusher struct {
	Endpoint  string
	ServerKey string
	HTTP      *http.Client
}

// New returns a Pusher, or nil when no endpoint is configured. A nil
// Pusher is safe to call and does nothing.
func New(endpoint, serverKey string) *Pusher {
	if endpoint == "" {
		return nil
	}
	return &Pusher{
		Endpoint:  endpoint,
		ServerKey: serverKey,
		HTTP:      &http.Client{Timeout: 5 * time.Second},
	}
}

// Send delivers a notification to the recipient token or topic.
func (p *Pusher) Send(ctx context.Context, recipient, title, body string) {
	if p == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"to": recipient,
		"notification": map[string]string{
			"title": title,
			"body":  body,
		},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[push] build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if p.ServerKey != "" {
		req.Header.Set("Authorization", "key="+p.ServerKey)
	}
	res, err := p.HTTP.Do(req)
	if err != nil {
		log.Printf("[push] send to %s: %v", recipient, err)
		return
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		log.Printf("[push] send to %s: status %d", recipient, res.StatusCode)
	}
}
