// Package line is a minimal client for the LINE Messaging API push
// endpoint, used as the external notification channel.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.line.me"

type Client struct {
	channelToken string
	baseURL      string
	httpClient   *http.Client
}

// NewClient creates a client authenticated with the given channel token.
func NewClient(channelToken string) *Client {
	return &Client{
		channelToken: channelToken,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL creates a client pointed at a custom endpoint (used for testing)
func NewClientWithBaseURL(channelToken, baseURL string) *Client {
	c := NewClient(channelToken)
	c.baseURL = baseURL
	return c
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

// PushMessage sends a text message to the given LINE user ID.
func (c *Client) PushMessage(ctx context.Context, lineUserID, text string) error {
	body, err := json.Marshal(pushRequest{
		To:       lineUserID,
		Messages: []textMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/bot/message/push", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push rejected with status %d: %s", resp.StatusCode, detail)
	}

	return nil
}
