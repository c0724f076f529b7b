package driver

import (
	"context"
	"fmt"
	"net/url"

	"github.com/singer-io/tap-amazon-sp/drivers/abstract"
	"github.com/singer-io/tap-amazon-sp/pkg/retry"
	"github.com/singer-io/tap-amazon-sp/pkg/spapi"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils/typeutils"
)

// salesSource aggregates the order metrics of the whole window by the configured granularity
type salesSource struct {
	driver *AmazonSP
}

func (s *salesSource) Read(ctx context.Context, req *abstract.Request, emit abstract.EmitFn) error {
	client, marketplace, err := s.driver.client(req.Marketplace)
	if err != nil {
		return err
	}

	granularity, err := s.driver.config.Granularity()
	if err != nil {
		return err
	}

	start, end := typeutils.CreateDateInterval(req.Window.Start, req.Window.End, s.driver.config.Lookback())
	params := url.Values{}
	params.Set("marketplaceIds", marketplace.ID)
	params.Set("interval", fmt.Sprintf("%s--%s", start, end))
	params.Set("granularity", string(granularity))
	params.Set("granularityTimeZone", "UTC")

	return s.driver.paginate(ctx, client, pager{
		call: spapi.Call{
			Operation: "getOrderMetrics",
			Path:      "/sales/v1/orderMetrics",
			Params:    params,
		},
		policy: retry.Default(),
	}, func(response *spapi.Response) error {
		var metrics []types.Record
		if err := response.Decode(&metrics); err != nil {
			return fmt.Errorf("failed to decode order metrics: %s", err)
		}

		for _, metric := range metrics {
			metric["marketplaceId"] = marketplace.ID
			metric["granularity"] = string(granularity)
			if err := emit(ctx, metric); err != nil {
				return err
			}
		}
		return nil
	})
}
