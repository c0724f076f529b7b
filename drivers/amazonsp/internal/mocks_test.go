package driver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/singer-io/tap-amazon-sp/drivers/abstract"
	"github.com/singer-io/tap-amazon-sp/pkg/spapi"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/stretchr/testify/require"
)

const tokenPath = "/auth/o2/token"

var (
	testStart = time.Date(2021, 8, 1, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2021, 8, 10, 0, 0, 0, 0, time.UTC)
)

type recordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// apiServer serves the token endpoint and the routes of a test, recording every API call
type apiServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]http.HandlerFunc
	tokenErr bool
}

func newAPIServer(t *testing.T, routes map[string]http.HandlerFunc) *apiServer {
	s := &apiServer{routes: routes}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == tokenPath {
		w.Header().Set("Content-Type", "application/json")
		if s.tokenErr {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"invalid_grant","error_description":"The request has an invalid grant parameter"}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"access-token","token_type":"bearer","expires_in":3600}`)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, recordedRequest{Path: r.URL.Path, Query: r.URL.Query(), Header: r.Header.Clone()})
	s.mu.Unlock()

	handler, found := s.routes[r.URL.Path]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errors":[{"code":"NotFound","message":"no route"}]}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	handler(w, r)
}

func (s *apiServer) calls(path string) []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var output []recordedRequest
	for _, request := range s.requests {
		if request.Path == path {
			output = append(output, request)
		}
	}
	return output
}

// sleepRecorder replaces every sleep of the driver
type sleepRecorder struct {
	durations []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.durations = append(s.durations, d)
}

func testConfig() Config {
	return Config{
		RefreshToken: "refresh",
		ClientID:     "client",
		ClientSecret: "secret",
		AWSAccessKey: "AKID",
		AWSSecretKey: "SECRET",
		RoleARN:      "arn:aws:iam::123456789012:role/tap",
		StartDate:    "2021-08-01T00:00:00Z",
		EndDate:      "2021-08-10T00:00:00Z",
		Marketplaces: "US",
	}
}

func lookbackHours(hours int) *int {
	return &hours
}

func newTestDriver(t *testing.T, server *apiServer, config Config) (*AmazonSP, *sleepRecorder) {
	recorder := &sleepRecorder{}
	driver := New().
		WithEndpoint(server.URL).
		WithTokenURL(server.URL + tokenPath).
		WithSigner(spapi.NewSignerWithProvider(credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""), "us-east-1")).
		WithHTTPClient(server.Client()).
		WithSleep(recorder.sleep)
	*driver.config = config

	require.NoError(t, driver.Setup(context.Background()))
	return driver, recorder
}

func (a *AmazonSP) definition(id string) *abstract.StreamDefinition {
	for _, definition := range a.streams {
		if definition.ID == id {
			return definition
		}
	}
	return nil
}

func readAll(t *testing.T, source abstract.RecordSource, req *abstract.Request) ([]types.Record, error) {
	t.Helper()

	var records []types.Record
	err := source.Read(context.Background(), req, func(_ context.Context, record types.Record) error {
		records = append(records, record)
		return nil
	})
	return records, err
}
