package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/totegamma/filmpulse"
)

const (
	defaultTimeout = 3 * time.Second
	userAgent      = "filmpulse-client/1.0"
)

type Client struct {
	client  *http.Client
	cache   *cache.Cache
	baseURL string
}

// New returns a client for the node at baseURL, e.g. "https://filmpulse.example".
func New(baseURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:  &httpClient,
		cache:   cache.New(10*time.Minute, 15*time.Minute),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// APIError is a non-2xx answer from the node.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Code    int    `json:"code"`
	Name    string `json:"name"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
	}
	return fmt.Sprintf("unexpected status code %d: %s", e.Status, e.Message)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	return apiErr
}

func (c *Client) WellKnown(ctx context.Context) (filmpulse.WellKnownFilmpulse, error) {
	cacheKey := "wellknown:" + c.baseURL
	if x, found := c.cache.Get(cacheKey); found {
		return x.(filmpulse.WellKnownFilmpulse), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/.well-known/filmpulse", nil)
	if err != nil {
		return filmpulse.WellKnownFilmpulse{}, fmt.Errorf("failed to create request: %v", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return filmpulse.WellKnownFilmpulse{}, fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return filmpulse.WellKnownFilmpulse{}, decodeError(resp)
	}

	var wk filmpulse.WellKnownFilmpulse
	if err := json.NewDecoder(resp.Body).Decode(&wk); err != nil {
		return filmpulse.WellKnownFilmpulse{}, fmt.Errorf("failed to decode well-known filmpulse: %v", err)
	}
	c.cache.Set(cacheKey, wk, cache.DefaultExpiration)
	return wk, nil
}

func (c *Client) endpoint(ctx context.Context, name, fallback string) string {
	wk, err := c.WellKnown(ctx)
	if err != nil {
		return fallback
	}
	ep, ok := wk.Endpoints[name]
	if !ok {
		return fallback
	}
	return ep.Template
}

func (c *Client) Commit(ctx context.Context, sd filmpulse.SignedDocument) (filmpulse.CommitResult, error) {
	body, err := json.Marshal(sd)
	if err != nil {
		return filmpulse.CommitResult{}, err
	}

	path := c.endpoint(ctx, "dev.filmpulse.commit", "/commit")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return filmpulse.CommitResult{}, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return filmpulse.CommitResult{}, fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return filmpulse.CommitResult{}, decodeError(resp)
	}

	var result filmpulse.CommitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return filmpulse.CommitResult{}, fmt.Errorf("failed to decode commit result: %v", err)
	}
	return result, nil
}

// Submit signs value under schema with kp and commits it.
func Submit[T any](ctx context.Context, c *Client, kp filmpulse.Keypair, schema string, value T) (filmpulse.CommitResult, error) {
	sd, err := filmpulse.SignDocument(filmpulse.Document[T]{
		Schema:   schema,
		Value:    value,
		CreateAt: time.Now().UTC(),
	}, kp)
	if err != nil {
		return filmpulse.CommitResult{}, err
	}
	return c.Commit(ctx, sd)
}

type cachedAccount struct {
	etag string
	body []byte
}

// GetAccount decodes the account at address into result. Cached copies are
// revalidated with their ETag.
func (c *Client) GetAccount(ctx context.Context, address filmpulse.Pubkey, result any) error {
	cacheKey := "account:" + address.String()

	path := c.endpoint(ctx, "dev.filmpulse.account", "/account/{address}")
	path = strings.ReplaceAll(path, "{address}", address.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	var cached cachedAccount
	if x, found := c.cache.Get(cacheKey); found {
		cached = x.(cachedAccount)
		req.Header.Set("If-None-Match", cached.etag)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		return json.Unmarshal(cached.body, result)
	case http.StatusOK:
	default:
		c.cache.Delete(cacheKey)
		return decodeError(resp)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}
	if etag := resp.Header.Get("ETag"); etag != "" {
		c.cache.Set(cacheKey, cachedAccount{etag: etag, body: buf.Bytes()}, cache.DefaultExpiration)
	}
	if err := json.Unmarshal(buf.Bytes(), result); err != nil {
		return fmt.Errorf("failed to decode account: %v", err)
	}
	return nil
}

func (c *Client) WalletBalance(ctx context.Context, wallet filmpulse.Pubkey) (uint64, error) {
	path := c.endpoint(ctx, "dev.filmpulse.wallet", "/wallet/{address}")
	path = strings.ReplaceAll(path, "{address}", wallet.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %v", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}

	var body struct {
		Lamports uint64 `json:"lamports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode wallet: %v", err)
	}
	return body.Lamports, nil
}
