package spapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/constants"
	"github.com/singer-io/tap-amazon-sp/telemetry"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"golang.org/x/oauth2"
)

const defaultTimeout = 2 * time.Minute

// Call describes one remote operation
type Call struct {
	// Operation names the call in logs and metrics, e.g. getOrders
	Operation string
	Method    string
	Path      string
	Params    url.Values
}

func (c Call) method() string {
	if c.Method == "" {
		return http.MethodGet
	}
	return c.Method
}

// Response is a decoded successful page
type Response struct {
	StatusCode int
	// Payload is the content of the payload envelope, or the whole body when there is none
	Payload   json.RawMessage
	NextToken string
	Header    http.Header
}

// Decode unmarshals the payload into v
func (r *Response) Decode(v any) error {
	if len(r.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(r.Payload, v)
}

type envelope struct {
	Payload json.RawMessage `json:"payload"`
	Errors  []APIError      `json:"errors"`
}

type Options struct {
	Endpoint   string
	UserAgent  string
	HTTPClient *http.Client
	Tokens     oauth2.TokenSource
	// Signer is optional; requests are sent unsigned without it
	Signer RequestSigner
	// Cache is optional; nil disables call memoization
	Cache *CallCache
}

// Client talks to one regional endpoint of the Selling Partner API
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	signer     RequestSigner
	cache      *CallCache
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}

	return &Client{
		endpoint:   strings.TrimRight(opts.Endpoint, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		tokens:     opts.Tokens,
		signer:     opts.Signer,
		cache:      opts.Cache,
	}
}

// Do issues the call once. Throttling, transport and request failures come back as
// *ThrottledError, *ConnectionError and *RequestError.
func (c *Client) Do(ctx context.Context, call Call) (*Response, error) {
	if c.cache != nil {
		if response, found := c.cache.Get(call); found {
			logger.Debugf("cache hit for %s %s", call.Operation, call.Path)
			return response, nil
		}
	}

	startTime := time.Now()
	response, err := c.do(ctx, call)
	status := 0
	if response != nil {
		status = response.StatusCode
	}
	telemetry.ObserveRequest(call.Operation, status, time.Since(startTime), err)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Put(call, response)
	}

	return response, nil
}

func (c *Client) do(ctx context.Context, call Call) (*Response, error) {
	target := c.endpoint + call.Path
	if len(call.Params) > 0 {
		target += "?" + call.Params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, call.method(), target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %s", call.Operation, err)
	}
	req.Header.Set("user-agent", c.userAgent)
	req.Header.Set("accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to get access token: %w", err)
		}
		req.Header.Set("x-amz-access-token", token.AccessToken)
	}

	if c.signer != nil {
		if err := c.signer.Sign(ctx, req, nil); err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Operation: call.Operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Operation: call.Operation, Err: err}
	}

	decoded := envelope{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &decoded); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("failed to decode %s response: %s", call.Operation, err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classify(call.Operation, resp.StatusCode, resp.Header, decoded.Errors)
	}

	payload := decoded.Payload
	if len(payload) == 0 {
		payload = body
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Payload:    payload,
		NextToken:  nextToken(payload),
		Header:     resp.Header,
	}, nil
}

// nextToken finds the page token of both the NextToken and pagination.nextToken styles
func nextToken(payload json.RawMessage) string {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}

	token := ""
	if raw, found := fields["NextToken"]; found {
		_ = json.Unmarshal(raw, &token)
	}
	if raw, found := fields["pagination"]; token == "" && found {
		pagination := map[string]string{}
		if err := json.Unmarshal(raw, &pagination); err == nil {
			token = pagination["nextToken"]
		}
	}

	return token
}
