package sender

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

const webhookTimeout = 10 * time.Second

// HTTPWebhookPoster posts JSON payloads to registered webhook URLs with a
// bounded timeout; a timeout is a delivery failure, never a retry loop.
type HTTPWebhookPoster struct{ client *http.Client }

func NewHTTPWebhookPoster() *HTTPWebhookPoster {
	return &HTTPWebhookPoster{client: &http.Client{Timeout: webhookTimeout}}
}

func (p *HTTPWebhookPoster) Post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook target returned %d", resp.StatusCode)
	}
	return nil
}
