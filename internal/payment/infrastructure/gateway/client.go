package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/craftline/marketplace/internal/payment/application"
)

// Client talks to the external payment gateway's order API. The key id is
// the public identifier the browser checkout flow uses; the secret never
// leaves the backend.
type Client struct {
	log     *slog.Logger
	http    *http.Client
	baseURL string
	keyID   string
	secret  string
}

func NewClient(log *slog.Logger, baseURL, keyID, secret string) *Client {
	return &Client{
		log:     log,
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		keyID:   keyID,
		secret:  secret,
	}
}

type createOrderReq struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createOrderResp struct {
	ID string `json:"id"`
}

func (c *Client) CreateRemoteOrder(ctx context.Context, amountCents int64, currency string) (application.RemoteOrder, error) {
	body, err := json.Marshal(createOrderReq{Amount: amountCents, Currency: currency})
	if err != nil {
		return application.RemoteOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return application.RemoteOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return application.RemoteOrder{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return application.RemoteOrder{}, fmt.Errorf("gateway create order: unexpected status %d", resp.StatusCode)
	}

	var out createOrderResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return application.RemoteOrder{}, err
	}
	return application.RemoteOrder{ID: out.ID, PublicKey: c.keyID}, nil
}
