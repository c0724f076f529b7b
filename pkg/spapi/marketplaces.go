package spapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/singer-io/tap-amazon-sp/constants"
)

// Region groups the marketplaces served by one endpoint
type Region struct {
	Name     string
	Endpoint string
	Sandbox  string
	// AWS region used to sign requests
	AWSRegion string
}

var (
	NorthAmerica = Region{
		Name:      "na",
		Endpoint:  "https://sellingpartnerapi-na.amazon.com",
		Sandbox:   "https://sandbox.sellingpartnerapi-na.amazon.com",
		AWSRegion: "us-east-1",
	}
	Europe = Region{
		Name:      "eu",
		Endpoint:  "https://sellingpartnerapi-eu.amazon.com",
		Sandbox:   "https://sandbox.sellingpartnerapi-eu.amazon.com",
		AWSRegion: "eu-west-1",
	}
	FarEast = Region{
		Name:      "fe",
		Endpoint:  "https://sellingpartnerapi-fe.amazon.com",
		Sandbox:   "https://sandbox.sellingpartnerapi-fe.amazon.com",
		AWSRegion: "us-west-2",
	}
)

type Marketplace struct {
	Code   string
	ID     string
	Region Region
}

var marketplaces = map[string]Marketplace{
	"US": {Code: "US", ID: "ATVPDKIKX0DER", Region: NorthAmerica},
	"CA": {Code: "CA", ID: "A2EUQ1WTGCTBG2", Region: NorthAmerica},
	"MX": {Code: "MX", ID: "A1AM78C64UM0Y8", Region: NorthAmerica},
	"BR": {Code: "BR", ID: "A2Q3Y263D00KWC", Region: NorthAmerica},
	"GB": {Code: "GB", ID: "A1F83G8C2ARO7P", Region: Europe},
	"DE": {Code: "DE", ID: "A1PA6795UKMFR9", Region: Europe},
	"FR": {Code: "FR", ID: "A13V1IB3VIYZZH", Region: Europe},
	"IT": {Code: "IT", ID: "APJ6JRA9NG5V4", Region: Europe},
	"ES": {Code: "ES", ID: "A1RKKUPIHCS9HS", Region: Europe},
	"NL": {Code: "NL", ID: "A1805IZSGTT6HS", Region: Europe},
	"SE": {Code: "SE", ID: "A2NODRKZP88ZB9", Region: Europe},
	"PL": {Code: "PL", ID: "A1C3SOZRARQ6R3", Region: Europe},
	"BE": {Code: "BE", ID: "AMEN7PMS3EDWL", Region: Europe},
	"TR": {Code: "TR", ID: "A33AVAJ2PDY3EV", Region: Europe},
	"EG": {Code: "EG", ID: "ARBP9OOSHTCHU", Region: Europe},
	"SA": {Code: "SA", ID: "A17E79C6D8DWNP", Region: Europe},
	"AE": {Code: "AE", ID: "A2VIGQ35RCS4UG", Region: Europe},
	"IN": {Code: "IN", ID: "A21TJRUUN4KGV", Region: Europe},
	"JP": {Code: "JP", ID: "A1VC38T7YXB528", Region: FarEast},
	"AU": {Code: "AU", ID: "A39IBJ37TRP1C6", Region: FarEast},
	"SG": {Code: "SG", ID: "A19VAU5U5O7RUS", Region: FarEast},
}

// MarketplaceCodes returns the supported codes, sorted
func MarketplaceCodes() []string {
	codes := make([]string, 0, len(marketplaces))
	for code := range marketplaces {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func LookupMarketplace(code string) (Marketplace, error) {
	marketplace, found := marketplaces[strings.ToUpper(strings.TrimSpace(code))]
	if !found {
		return Marketplace{}, fmt.Errorf("provided marketplace '%s' is not in marketplaces set: %v", code, MarketplaceCodes())
	}
	return marketplace, nil
}

// ParseMarketplaces resolves a space delimited list of codes; an empty list means US
func ParseMarketplaces(value string) ([]Marketplace, error) {
	codes := strings.Fields(value)
	if len(codes) == 0 {
		codes = []string{constants.DefaultMarketplace}
	}

	seen := map[string]bool{}
	output := []Marketplace{}
	for _, code := range codes {
		marketplace, err := LookupMarketplace(code)
		if err != nil {
			return nil, err
		}
		if seen[marketplace.Code] {
			continue
		}
		seen[marketplace.Code] = true
		output = append(output, marketplace)
	}

	return output, nil
}

// Granularity of the sales metrics buckets
type Granularity string

var granularities = []Granularity{"HOUR", "DAY", "WEEK", "MONTH", "YEAR", "TOTAL"}

func ParseGranularity(value string) (Granularity, error) {
	if strings.TrimSpace(value) == "" {
		return Granularity(constants.DefaultGranularity), nil
	}

	for _, granularity := range granularities {
		if strings.EqualFold(string(granularity), strings.TrimSpace(value)) {
			return granularity, nil
		}
	}

	return "", fmt.Errorf("provided granularity '%s' is not in granularity set: %v", value, granularities)
}
