package spapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cache *CallCache) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Options{
		Endpoint: server.URL,
		Tokens:   oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "Atza|token"}),
		Cache:    cache,
	})
}

func TestClientDo_Page(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/v0/orders", r.URL.Path)
		assert.Equal(t, "ATVPDKIKX0DER", r.URL.Query().Get("MarketplaceIds"))
		assert.Equal(t, "Atza|token", r.Header.Get("x-amz-access-token"))
		assert.Equal(t, "tap-amazon-sp", r.Header.Get("user-agent"))

		w.Header().Set("x-amzn-RateLimit-Limit", "0.0167")
		_, _ = w.Write([]byte(`{"payload": {"Orders": [{"AmazonOrderId": "1"}], "NextToken": "page-2"}}`))
	}, nil)

	response, err := client.Do(context.Background(), Call{
		Operation: "getOrders",
		Path:      "/orders/v0/orders",
		Params:    url.Values{"MarketplaceIds": []string{"ATVPDKIKX0DER"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "page-2", response.NextToken)
	assert.Equal(t, "0.0167", response.Header.Get("x-amzn-RateLimit-Limit"))

	page := struct {
		Orders []map[string]any `json:"Orders"`
	}{}
	require.NoError(t, response.Decode(&page))
	assert.Equal(t, []map[string]any{{"AmazonOrderId": "1"}}, page.Orders)
}

func TestClientDo_PaginationObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"payload": {"orders": [], "pagination": {"nextToken": "vendor-2"}}}`))
	}, nil)

	response, err := client.Do(context.Background(), Call{Operation: "getPurchaseOrders", Path: "/vendor/orders/v1/purchaseOrders"})
	require.NoError(t, err)
	assert.Equal(t, "vendor-2", response.NextToken)
}

func TestClientDo_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "too many requests",
			status: http.StatusTooManyRequests,
			body:   `{"errors": [{"code": "QuotaExceeded", "message": "You exceeded your quota for the requested resource."}]}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsThrottled(err))
				var throttled *ThrottledError
				require.ErrorAs(t, err, &throttled)
				assert.Equal(t, "QuotaExceeded", throttled.Code)
			},
		},
		{
			name:   "quota code on another status",
			status: http.StatusServiceUnavailable,
			body:   `{"errors": [{"code": "QuotaExceeded", "message": "slow down"}]}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsThrottled(err))
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusForbidden,
			body:   `{"errors": [{"code": "Unauthorized", "message": "Access to requested resource is denied."}]}`,
			check: func(t *testing.T, err error) {
				assert.False(t, IsThrottled(err))
				assert.True(t, IsUnauthorized(err))
				assert.Contains(t, err.Error(), "Access to requested resource is denied.")
			},
		},
		{
			name:   "server error without body",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var reqErr *RequestError
				require.ErrorAs(t, err, &reqErr)
				assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, nil)

			_, err := client.Do(context.Background(), Call{Operation: "getOrders", Path: "/orders/v0/orders"})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClientDo_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(Options{Endpoint: endpoint})
	_, err := client.Do(context.Background(), Call{Operation: "getOrders", Path: "/orders/v0/orders"})

	require.Error(t, err)
	assert.True(t, IsConnectionFailure(err))
	assert.False(t, IsThrottled(err))
}

func TestClientDo_Cache(t *testing.T) {
	var hits atomic.Int32
	cache := NewCallCache(2)
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"payload": []}`))
	}, cache)

	call := Call{Operation: "getOrderMetrics", Path: "/sales/v1/orderMetrics", Params: url.Values{"granularity": []string{"DAY"}}}
	for i := 0; i < 3; i++ {
		_, err := client.Do(context.Background(), call)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 2, cache.Hits())
}

func TestCallCache_Eviction(t *testing.T) {
	cache := NewCallCache(2)
	calls := []Call{
		{Path: "/a", Params: url.Values{"NextToken": []string{"1"}}},
		{Path: "/a", Params: url.Values{"NextToken": []string{"2"}}},
		{Path: "/a", Params: url.Values{"NextToken": []string{"3"}}},
	}
	for idx, call := range calls {
		cache.Put(call, &Response{StatusCode: 200 + idx})
	}

	assert.Equal(t, 2, cache.Len())
	_, found := cache.Get(calls[0])
	assert.False(t, found)
	response, found := cache.Get(calls[2])
	require.True(t, found)
	assert.Equal(t, 202, response.StatusCode)
}

func TestTokenSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "Atzr|abc123", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "amzn123", r.PostForm.Get("client_id"))
		assert.Equal(t, "abcde", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "Atza|fresh", "token_type": "bearer", "expires_in": 3600}`))
	}))
	defer server.Close()

	tokens := NewTokenSource(context.Background(), Credentials{
		RefreshToken: "Atzr|abc123",
		ClientID:     "amzn123",
		ClientSecret: "abcde",
	}, server.URL)

	token, err := tokens.Token()
	require.NoError(t, err)
	assert.Equal(t, "Atza|fresh", token.AccessToken)
}

func TestSigner(t *testing.T) {
	signer := NewSignerWithProvider(credentials.NewStaticCredentialsProvider("ABCDE", "abc123", ""), NorthAmerica.AWSRegion)

	req, err := http.NewRequest(http.MethodGet, NorthAmerica.Endpoint+"/orders/v0/orders", nil)
	require.NoError(t, err)
	require.NoError(t, signer.Sign(context.Background(), req, nil))

	authorization := req.Header.Get("Authorization")
	assert.True(t, strings.HasPrefix(authorization, "AWS4-HMAC-SHA256 Credential=ABCDE/"), authorization)
	assert.Contains(t, authorization, "/us-east-1/execute-api/aws4_request")
	assert.NotEmpty(t, req.Header.Get("X-Amz-Date"))
}
