// Package client sends single JSON-RPC calls to a running stub.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 2 * time.Second

type Client struct {
	url  string
	http *http.Client
}

func New(url string) *Client {
	return &Client{url: url, http: &http.Client{Timeout: defaultTimeout}}
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// Reply is a decoded response. Error is set only for malformed-body replies.
type Reply struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
}

// Call posts method with a fresh uuid id and checks that the id is echoed.
func (c *Client) Call(ctx context.Context, method string) (*Reply, error) {
	id := uuid.NewString()
	body, err := json.Marshal(request{JSONRPC: "2.0", ID: id, Method: method, Params: []any{}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call %s: unexpected status %s", method, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}

	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("parse reply: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("call %s: stub error: %s", method, reply.Error)
	}

	var echoed string
	if err := json.Unmarshal(reply.ID, &echoed); err != nil || echoed != id {
		return nil, fmt.Errorf("call %s: id mismatch: sent %q, got %s", method, id, reply.ID)
	}
	return &reply, nil
}
