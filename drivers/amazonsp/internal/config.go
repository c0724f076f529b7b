package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/singer-io/tap-amazon-sp/constants"
	"github.com/singer-io/tap-amazon-sp/pkg/spapi"
	"github.com/singer-io/tap-amazon-sp/utils"
	"github.com/singer-io/tap-amazon-sp/utils/typeutils"
)

type Config struct {
	// RefreshToken
	//
	// @jsonSchema(
	//   title="Refresh Token",
	//   description="Login with Amazon refresh token of the selling partner",
	//   type="string",
	//   format="password",
	//   order=1
	// )
	RefreshToken string `json:"refresh_token" validate:"required"`

	// ClientID
	//
	// @jsonSchema(
	//   title="Client ID",
	//   description="Login with Amazon client id of the application",
	//   type="string",
	//   order=2
	// )
	ClientID string `json:"client_id" validate:"required"`

	// ClientSecret
	//
	// @jsonSchema(
	//   title="Client Secret",
	//   description="Login with Amazon client secret of the application",
	//   type="string",
	//   format="password",
	//   order=3
	// )
	ClientSecret string `json:"client_secret" validate:"required"`

	// AWSAccessKey
	//
	// @jsonSchema(
	//   title="AWS Access Key",
	//   description="Access key of the IAM user registered with the application",
	//   type="string",
	//   order=4
	// )
	AWSAccessKey string `json:"aws_access_key" validate:"required"`

	// AWSSecretKey
	//
	// @jsonSchema(
	//   title="AWS Secret Key",
	//   description="Secret key of the IAM user registered with the application",
	//   type="string",
	//   format="password",
	//   order=5
	// )
	AWSSecretKey string `json:"aws_secret_key" validate:"required"`

	// RoleARN
	//
	// @jsonSchema(
	//   title="Role ARN",
	//   description="IAM role assumed before signing requests",
	//   type="string",
	//   order=6
	// )
	RoleARN string `json:"role_arn" validate:"required"`

	// StartDate
	//
	// @jsonSchema(
	//   title="Start Date",
	//   description="Records updated before this date are not synced",
	//   type="string",
	//   format="date-time",
	//   order=7
	// )
	StartDate string `json:"start_date" validate:"required"`

	// EndDate
	//
	// @jsonSchema(
	//   title="End Date",
	//   description="Upper bound of every sync window; now when empty",
	//   type="string",
	//   format="date-time",
	//   order=8
	// )
	EndDate string `json:"end_date,omitempty"`

	// Marketplaces
	//
	// @jsonSchema(
	//   title="Marketplaces",
	//   description="Space delimited marketplace codes, e.g. \"GB US\"",
	//   type="string",
	//   default="US",
	//   order=9
	// )
	Marketplaces string `json:"marketplaces,omitempty"`

	// SalesDataGranularity
	//
	// @jsonSchema(
	//   title="Sales Data Granularity",
	//   description="Aggregation of the sales metrics: HOUR, DAY, WEEK, MONTH, YEAR or TOTAL",
	//   type="string",
	//   default="HOUR",
	//   order=10
	// )
	SalesDataGranularity string `json:"sales_data_granularity,omitempty"`

	// Sandbox
	//
	// @jsonSchema(
	//   title="Sandbox",
	//   description="Send requests to the sandbox endpoints",
	//   type="boolean",
	//   default=false,
	//   order=11
	// )
	Sandbox bool `json:"sandbox,omitempty"`

	// UserAgent
	//
	// @jsonSchema(
	//   title="User Agent",
	//   type="string",
	//   default="tap-amazon-sp",
	//   order=12
	// )
	UserAgent string `json:"user_agent,omitempty"`

	// LookbackHours
	//
	// @jsonSchema(
	//   title="Lookback Hours",
	//   description="Hours subtracted from the start of the orders window",
	//   type="integer",
	//   default=1,
	//   order=13
	// )
	LookbackHours *int `json:"lookback_hours,omitempty" validate:"omitempty,gte=0"`

	// CacheCalls
	//
	// @jsonSchema(
	//   title="Cache Calls",
	//   description="Memoize identical calls within a sync",
	//   type="boolean",
	//   default=false,
	//   order=14
	// )
	CacheCalls bool `json:"cache_calls,omitempty"`
}

// Validate checks the required fields and then reports every invalid value at once
func (c *Config) Validate() error {
	if err := utils.Validate(c); err != nil {
		return err
	}

	return utils.ErrExecSequential(
		utils.ErrExecFormat("invalid start_date: %s", func() error {
			_, err := c.Start()
			return err
		}),
		utils.ErrExecFormat("invalid end_date: %s", func() error {
			_, err := c.End()
			return err
		}),
		func() error {
			_, err := c.ParsedMarketplaces()
			return err
		},
		func() error {
			_, err := c.Granularity()
			return err
		},
	)
}

func (c *Config) Start() (time.Time, error) {
	return typeutils.ParseTimestamp(c.StartDate)
}

// End returns the zero time when no end date is configured
func (c *Config) End() (time.Time, error) {
	if strings.TrimSpace(c.EndDate) == "" {
		return time.Time{}, nil
	}
	return typeutils.ParseTimestamp(c.EndDate)
}

func (c *Config) ParsedMarketplaces() ([]spapi.Marketplace, error) {
	return spapi.ParseMarketplaces(c.Marketplaces)
}

func (c *Config) Granularity() (spapi.Granularity, error) {
	return spapi.ParseGranularity(c.SalesDataGranularity)
}

// Lookback defaults to one hour when lookback_hours is absent; an explicit 0 disables it
func (c *Config) Lookback() time.Duration {
	if c.LookbackHours == nil {
		return constants.DefaultLookback
	}
	return time.Duration(*c.LookbackHours) * time.Hour
}

func (c *Config) Credentials() spapi.Credentials {
	return spapi.Credentials{
		RefreshToken: c.RefreshToken,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		AWSAccessKey: c.AWSAccessKey,
		AWSSecretKey: c.AWSSecretKey,
		RoleARN:      c.RoleARN,
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("marketplaces[%s] start[%s] granularity[%s]", c.Marketplaces, c.StartDate, c.SalesDataGranularity)
}
