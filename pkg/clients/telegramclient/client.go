package telegramclient

import (
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client calls the Telegram Bot API. Delivery is fire-and-forget from
// the system's point of view: pacing between batch sends is the
// notification layer's concern, not the client's.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given bot token.
func New(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(token, baseURL string) *Client {
	c := New(token)
	c.baseURL = baseURL
	return c
}
