// Package notify pings the maintenance desk when a new ticket arrives.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/facilops/chamados-service/internal/model"
)

// Client POSTs new tickets to a configured webhook (best-effort, never blocks
// the submission flow).
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient returns a client. With an empty URL every call is a no-op.
func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type chamadoPayload struct {
	ChamadoID   int64  `json:"chamado_id"`
	Requester   string `json:"requester"`
	Location    string `json:"location"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// NotifyNewChamado delivers one ticket to the webhook.
func (c *Client) NotifyNewChamado(ctx context.Context, chamado *model.Chamado) {
	if c.webhookURL == "" {
		return
	}
	payload := chamadoPayload{
		ChamadoID:   int64(chamado.ID),
		Requester:   chamado.Requester,
		Location:    chamado.Location,
		Description: chamado.Description,
		CreatedAt:   chamado.CreatedAt.Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify: marshal: %v", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("notify: new request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("notify: request: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("notify: status %d for chamado %d", resp.StatusCode, chamado.ID)
	}
}

// NotifyNewChamadoAsync runs NotifyNewChamado in its own goroutine.
func (c *Client) NotifyNewChamadoAsync(chamado *model.Chamado) {
	if c.webhookURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.NotifyNewChamado(ctx, chamado)
	}()
}
