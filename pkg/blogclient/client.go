package blogclient

import (
	"context"
	"fmt"

	"resty.dev/v3"
)

// identityHeader carries the acting user's id; the server side trusts
// it behind the authenticating proxy.
const identityHeader = "X-User-ID"

// Client is a typed client for the bloglytics HTTP API.
type Client struct {
	client  *resty.Client
	baseURL string
}

func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig
	}
	if config.TransportSettings == nil {
		config.TransportSettings = DefaultConfig.TransportSettings
	}

	client := resty.NewWithTransportSettings(config.TransportSettings)

	for _, m := range config.RequestMiddlewares {
		client.AddRequestMiddleware(m)
	}
	for _, m := range config.ResponseMiddlewares {
		client.AddResponseMiddleware(m)
	}

	if config.UserID != "" {
		client.SetHeader(identityHeader, config.UserID)
	}

	return &Client{
		client:  client,
		baseURL: config.BaseURL,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx)
}

type apiMessage struct {
	Message string `json:"message"`
}

// apiError converts a non-2xx response into an error carrying the
// server's message.
func apiError(res *resty.Response) error {
	if !res.IsError() {
		return nil
	}

	msg := "request failed"
	if m, ok := res.Error().(*apiMessage); ok && m.Message != "" {
		msg = m.Message
	}
	return fmt.Errorf("bloglytics: %s (%s)", msg, res.Status())
}
