package foxess

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/joshp123/gridgate/internal/fault"
)

const (
	vendor         = "foxess"
	requestTimeout = 15 * time.Second
	realtimePath   = "/api/v1/device/realtime"
)

// APIError surfaces FoxESS application-level error codes embedded in a 2xx
// response.
type APIError struct {
	Code int
	Msg  string
}

func (e APIError) Error() string {
	return fmt.Sprintf("foxess api error %d: %s", e.Code, e.Msg)
}

// Client talks to the FoxESS cloud API. Each call is a single signed
// request; there is no challenge round trip and no state shared between
// invocations.
type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" || cfg.DeviceSN == "" {
		return nil, fmt.Errorf("foxess credentials are required")
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: requestTimeout},
		now:  time.Now,
	}, nil
}

// Realtime fetches and normalizes the inverter's live readings.
func (c *Client) Realtime(ctx context.Context) (Snapshot, error) {
	payload, err := json.Marshal(map[string]string{"sn": c.cfg.DeviceSN})
	if err != nil {
		return Snapshot{}, fault.New(vendor, "request", fault.Transport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+realtimePath, bytes.NewReader(payload))
	if err != nil {
		return Snapshot{}, fault.New(vendor, "request", fault.Transport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range signedHeaders(realtimePath, c.cfg.Token, c.now().UnixMilli()) {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, fault.New(vendor, "request", fault.Transport, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Snapshot{}, fault.New(vendor, "request", fault.Transport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Snapshot{}, fault.New(vendor, "request", fault.AuthRejected, fmt.Errorf("signed request status %d", resp.StatusCode))
	}

	var wrapper struct {
		Errno  int             `json:"errno"`
		Msg    string          `json:"msg"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return Snapshot{}, fault.New(vendor, "decode", fault.UpstreamError, err)
	}
	if wrapper.Errno != 0 {
		return Snapshot{}, fault.New(vendor, "decode", fault.UpstreamError, APIError{Code: wrapper.Errno, Msg: wrapper.Msg})
	}

	return normalize(wrapper.Result, c.cfg.ReportsWatts)
}
