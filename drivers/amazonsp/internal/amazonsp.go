package driver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/singer-io/tap-amazon-sp/drivers/abstract"
	"github.com/singer-io/tap-amazon-sp/pkg/ratelimit"
	"github.com/singer-io/tap-amazon-sp/pkg/retry"
	"github.com/singer-io/tap-amazon-sp/pkg/spapi"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"golang.org/x/oauth2"
)

const (
	driverType = "amazon-sp"
	// calls memoized per sync when cache_calls is enabled
	cacheCapacity = 1024
)

// AmazonSP reads the Selling Partner API of every configured marketplace
type AmazonSP struct {
	config       *Config
	marketplaces []spapi.Marketplace
	start        time.Time
	end          time.Time
	tokens       oauth2.TokenSource
	clients      map[string]*spapi.Client
	streams      []*abstract.StreamDefinition
	sleep        ratelimit.SleepFunc
	now          func() time.Time

	// overrides, mostly for tests
	endpoint   string
	tokenURL   string
	signer     spapi.RequestSigner
	httpClient *http.Client
}

func New() *AmazonSP {
	a := &AmazonSP{
		config:  &Config{},
		clients: map[string]*spapi.Client{},
		sleep:   time.Sleep,
		now:     time.Now,
	}
	a.streams = a.definitions()
	return a
}

// WithEndpoint sends every call to endpoint instead of the regional ones
func (a *AmazonSP) WithEndpoint(endpoint string) *AmazonSP {
	a.endpoint = endpoint
	return a
}

func (a *AmazonSP) WithTokenURL(tokenURL string) *AmazonSP {
	a.tokenURL = tokenURL
	return a
}

func (a *AmazonSP) WithSigner(signer spapi.RequestSigner) *AmazonSP {
	a.signer = signer
	return a
}

func (a *AmazonSP) WithHTTPClient(client *http.Client) *AmazonSP {
	a.httpClient = client
	return a
}

// WithSleep replaces the sleeps of backoffs and rate limit pacing
func (a *AmazonSP) WithSleep(sleep ratelimit.SleepFunc) *AmazonSP {
	a.sleep = sleep
	return a
}

// WithClock replaces the clock deciding whether a window ends too close to now
func (a *AmazonSP) WithClock(now func() time.Time) *AmazonSP {
	a.now = now
	return a
}

func (a *AmazonSP) GetConfigRef() abstract.Config {
	return a.config
}

func (a *AmazonSP) Spec() any {
	return Config{}
}

func (a *AmazonSP) Type() string {
	return driverType
}

func (a *AmazonSP) Setup(ctx context.Context) error {
	if err := a.config.Validate(); err != nil {
		return fmt.Errorf("failed to validate config: %s", err)
	}

	// errors already reported by Validate
	a.marketplaces, _ = a.config.ParsedMarketplaces()
	a.start, _ = a.config.Start()
	a.end, _ = a.config.End()

	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}
	a.tokens = spapi.NewTokenSource(ctx, a.config.Credentials(), a.tokenURL)

	var cache *spapi.CallCache
	if a.config.CacheCalls {
		cache = spapi.NewCallCache(cacheCapacity)
	}

	a.clients = map[string]*spapi.Client{}
	for _, marketplace := range a.marketplaces {
		region := marketplace.Region
		if _, found := a.clients[region.Name]; found {
			continue
		}

		signer := a.signer
		if signer == nil {
			regionSigner, err := spapi.NewSigner(ctx, a.config.Credentials(), region.AWSRegion)
			if err != nil {
				return fmt.Errorf("failed to setup signer for region[%s]: %s", region.Name, err)
			}
			signer = regionSigner
		}

		a.clients[region.Name] = spapi.NewClient(spapi.Options{
			Endpoint:   a.regionEndpoint(region),
			UserAgent:  a.config.UserAgent,
			HTTPClient: a.httpClient,
			Tokens:     a.tokens,
			Signer:     signer,
			Cache:      cache,
		})
	}

	a.scopeRegionalStreams()
	logger.Infof("Setup amazon selling partner source with %s", a.config)
	return nil
}

func (a *AmazonSP) regionEndpoint(region spapi.Region) string {
	switch {
	case a.endpoint != "":
		return a.endpoint
	case a.config.Sandbox:
		return region.Sandbox
	default:
		return region.Endpoint
	}
}

// scopeRegionalStreams runs streams that are not filtered by marketplace once per region
func (a *AmazonSP) scopeRegionalStreams() {
	seen := map[string]bool{}
	codes := []string{}
	for _, marketplace := range a.marketplaces {
		if !seen[marketplace.Region.Name] {
			seen[marketplace.Region.Name] = true
			codes = append(codes, marketplace.Code)
		}
	}

	for _, definition := range a.streams {
		if definition.ID == vendorPurchaseOrdersStream {
			definition.Marketplaces = codes
		}
	}
}

// Check fetches an access token and lists the marketplace participations of the seller
func (a *AmazonSP) Check(ctx context.Context) error {
	if _, err := a.tokens.Token(); err != nil {
		return fmt.Errorf("failed to fetch access token: %s", err)
	}

	for _, marketplace := range a.marketplaces {
		client := a.clients[marketplace.Region.Name]
		err := a.policy(retry.Default()).Do(ctx, func(ctx context.Context) error {
			_, err := client.Do(ctx, spapi.Call{
				Operation: "getMarketplaceParticipations",
				Path:      "/sellers/v1/marketplaceParticipations",
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("marketplace[%s]: %w", marketplace.Code, err)
		}
	}

	return nil
}

func (a *AmazonSP) Streams() []*abstract.StreamDefinition {
	return a.streams
}

func (a *AmazonSP) Marketplaces() []string {
	codes := make([]string, 0, len(a.marketplaces))
	for _, marketplace := range a.marketplaces {
		codes = append(codes, marketplace.Code)
	}
	return codes
}

func (a *AmazonSP) StartDate() time.Time {
	return a.start
}

func (a *AmazonSP) EndDate() time.Time {
	return a.end
}

// client returns the regional client serving a marketplace code
func (a *AmazonSP) client(code string) (*spapi.Client, spapi.Marketplace, error) {
	marketplace, err := spapi.LookupMarketplace(code)
	if err != nil {
		return nil, spapi.Marketplace{}, err
	}

	client, found := a.clients[marketplace.Region.Name]
	if !found {
		return nil, marketplace, fmt.Errorf("source not setup for marketplace[%s]", code)
	}

	return client, marketplace, nil
}

func (a *AmazonSP) policy(policy *retry.Policy) *retry.Policy {
	return policy.WithSleep(a.sleep)
}
