package spapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarketplaces(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
		err      string
	}{
		{name: "default", value: "", expected: []string{"US"}},
		{name: "space delimited", value: "GB US", expected: []string{"GB", "US"}},
		{name: "lower case and duplicates", value: " de  DE jp", expected: []string{"DE", "JP"}},
		{name: "unknown code", value: "US XX", err: "provided marketplace 'XX' is not in marketplaces set"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marketplaces, err := ParseMarketplaces(tc.value)
			if tc.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)
				assert.Contains(t, err.Error(), "GB")
				return
			}

			require.NoError(t, err)
			codes := []string{}
			for _, marketplace := range marketplaces {
				codes = append(codes, marketplace.Code)
			}
			assert.Equal(t, tc.expected, codes)
		})
	}
}

func TestLookupMarketplaceRegion(t *testing.T) {
	marketplace, err := LookupMarketplace("gb")
	require.NoError(t, err)
	assert.Equal(t, "A1F83G8C2ARO7P", marketplace.ID)
	assert.Equal(t, Europe, marketplace.Region)
}

func TestParseGranularity(t *testing.T) {
	granularity, err := ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, Granularity("HOUR"), granularity)

	granularity, err = ParseGranularity("week")
	require.NoError(t, err)
	assert.Equal(t, Granularity("WEEK"), granularity)

	_, err = ParseGranularity("FORTNIGHT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORTNIGHT")
	assert.Contains(t, err.Error(), "TOTAL")
}
