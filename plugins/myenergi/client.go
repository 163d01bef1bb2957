package myenergi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joshp123/gridgate/internal/fault"
)

const (
	vendor         = "myenergi"
	requestTimeout = 15 * time.Second

	// The director names the hub's assigned server in this header, on
	// success and on error responses alike.
	serverHeader = "X_MyEnergi-asn"

	statusPath = "/cgi-jstatus-E"

	// Single-shot handshake: the nonce count never advances.
	nonceCount = "00000001"
)

// Client talks to the myenergi director and status API. Every call performs
// the full discovery and digest handshake from scratch: the director hands
// out single-use nonces and may reassign servers between calls, so nothing
// is cached across invocations.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Serial == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("myenergi credentials are required")
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: requestTimeout},
	}, nil
}

// Resolve asks the director which server currently holds this hub's data.
// The director is known to answer with a client-error status while still
// carrying the assignment header, so the header is read unconditionally of
// the status code.
func (c *Client) Resolve(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.DirectorURL+statusPath, nil)
	if err != nil {
		return "", fault.New(vendor, "discovery", fault.DiscoveryFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fault.New(vendor, "discovery", fault.DiscoveryFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	host := strings.TrimSpace(resp.Header.Get(serverHeader))
	if host == "" {
		return "", fault.New(vendor, "discovery", fault.DiscoveryFailed, fmt.Errorf("response carries no %s header", serverHeader))
	}
	return host, nil
}

// Status resolves the assigned server, runs the digest handshake, and
// normalizes the live eddi snapshot.
func (c *Client) Status(ctx context.Context) (Snapshot, error) {
	host, err := c.Resolve(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	body, err := c.fetchAuthenticated(ctx, host, http.MethodGet, statusPath)
	if err != nil {
		return Snapshot{}, err
	}

	return normalize(body)
}

// fetchAuthenticated runs the two round-trip digest handshake against host
// and returns the final body unvalidated. A 2xx probe response is returned
// immediately with no second round trip.
func (c *Client) fetchAuthenticated(ctx context.Context, host, method, path string) ([]byte, error) {
	target := serverURL(host) + path

	probe, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fault.New(vendor, "probe", fault.Transport, err)
	}
	resp, err := c.http.Do(probe)
	if err != nil {
		return nil, fault.New(vendor, "probe", fault.Transport, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fault.New(vendor, "probe", fault.Transport, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return nil, fault.New(vendor, "probe", fault.AuthRejected, fmt.Errorf("unexpected probe status %d", resp.StatusCode))
	}

	header := resp.Header.Get("WWW-Authenticate")
	if header == "" {
		return nil, fault.New(vendor, "challenge", fault.ChallengeMissing, fmt.Errorf("401 response carries no challenge"))
	}
	ch, err := parseChallenge(header)
	if err != nil {
		return nil, fault.New(vendor, "challenge", fault.ChallengeMalformed, err)
	}

	qop := ch.qop
	if qop == "" {
		qop = "auth"
	}
	params := digestParams{
		username: c.cfg.Serial,
		password: c.cfg.APIKey,
		method:   method,
		path:     path,
		realm:    ch.realm,
		nonce:    ch.nonce,
		cnonce:   newCnonce(),
		nc:       nonceCount,
		qop:      qop,
	}
	response := computeDigest(params)

	authed, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fault.New(vendor, "auth", fault.Transport, err)
	}
	authed.Header.Set("Authorization", authorizationHeader(params, ch, response))

	resp, err = c.http.Do(authed)
	if err != nil {
		return nil, fault.New(vendor, "auth", fault.Transport, err)
	}
	defer resp.Body.Close()
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.New(vendor, "auth", fault.Transport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fault.New(vendor, "auth", fault.AuthRejected, fmt.Errorf("authenticated request status %d", resp.StatusCode))
	}
	return body, nil
}

// serverURL turns a discovered host into a base URL. The director returns a
// bare hostname in production; tests may hand back a full URL.
func serverURL(host string) string {
	if strings.Contains(host, "://") {
		return strings.TrimRight(host, "/")
	}
	return "https://" + host
}
