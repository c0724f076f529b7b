package spapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"golang.org/x/oauth2"
)

const (
	lwaTokenURL    = "https://api.amazon.com/auth/o2/token"
	signingService = "execute-api"
	sessionName    = "tap-amazon-sp"
)

// Credentials of a selling partner application
type Credentials struct {
	RefreshToken string
	ClientID     string
	ClientSecret string
	AWSAccessKey string
	AWSSecretKey string
	RoleARN      string
}

// NewTokenSource exchanges the refresh token for Login with Amazon access tokens.
// Tokens are cached until shortly before they expire.
func NewTokenSource(ctx context.Context, creds Credentials, tokenURL string) oauth2.TokenSource {
	if tokenURL == "" {
		tokenURL = lwaTokenURL
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
}

// RequestSigner signs an outgoing request with its body
type RequestSigner interface {
	Sign(ctx context.Context, req *http.Request, body []byte) error
}

// Signer signs requests with AWS SigV4 for the region of a marketplace
type Signer struct {
	provider aws.CredentialsProvider
	signer   *v4.Signer
	region   string
	now      func() time.Time
}

// NewSigner signs with the IAM user keys, assuming the role first when one is configured
func NewSigner(ctx context.Context, creds Credentials, region string) (*Signer, error) {
	var provider aws.CredentialsProvider = credentials.NewStaticCredentialsProvider(creds.AWSAccessKey, creds.AWSSecretKey, "")
	if creds.RoleARN != "" {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region), config.WithCredentialsProvider(provider))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %s", err)
		}

		provider = stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), creds.RoleARN, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = sessionName
		})
	}

	return NewSignerWithProvider(aws.NewCredentialsCache(provider), region), nil
}

func NewSignerWithProvider(provider aws.CredentialsProvider, region string) *Signer {
	return &Signer{
		provider: provider,
		signer:   v4.NewSigner(),
		region:   region,
		now:      time.Now,
	}
}

func (s *Signer) Sign(ctx context.Context, req *http.Request, body []byte) error {
	awsCreds, err := s.provider.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve aws credentials: %s", err)
	}

	hash := sha256.Sum256(body)
	return s.signer.SignHTTP(ctx, awsCreds, req, hex.EncodeToString(hash[:]), signingService, s.region, s.now())
}
