package blogclient

import (
	"time"

	"resty.dev/v3"
)

type ClientConfig struct {
	// BaseURL of the bloglytics API server.
	BaseURL string

	// UserID is the acting identity sent with every request.
	UserID string

	TransportSettings *resty.TransportSettings

	ResponseMiddlewares []resty.ResponseMiddleware
	RequestMiddlewares  []resty.RequestMiddleware
}

var DefaultConfig = &ClientConfig{
	BaseURL: "http://localhost:8080",

	TransportSettings: &resty.TransportSettings{
		DialerTimeout:         1 * time.Second,
		DialerKeepAlive:       1 * time.Second,
		IdleConnTimeout:       1 * time.Second,
		TLSHandshakeTimeout:   1 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	},
}
