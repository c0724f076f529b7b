package driver

import (
	"context"
	"fmt"
	"net/url"

	"github.com/singer-io/tap-amazon-sp/constants"
	"github.com/singer-io/tap-amazon-sp/drivers/abstract"
	"github.com/singer-io/tap-amazon-sp/pkg/retry"
	"github.com/singer-io/tap-amazon-sp/pkg/spapi"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/singer-io/tap-amazon-sp/utils/typeutils"
)

const vendorPageSize = "100"

// vendorOrdersSource lists the purchase orders changed in the window. The API accepts
// at most seven days per query so the window is read in slices.
type vendorOrdersSource struct {
	driver *AmazonSP
}

func (s *vendorOrdersSource) Read(ctx context.Context, req *abstract.Request, emit abstract.EmitFn) error {
	client, _, err := s.driver.client(req.Marketplace)
	if err != nil {
		return err
	}

	for _, window := range req.Window.Split(constants.VendorWindow) {
		logger.Debugf("Reading vendor purchase orders changed in %s", window)

		params := url.Values{}
		params.Set("limit", vendorPageSize)
		params.Set("changedAfter", typeutils.FormatTimestamp(window.Start))
		params.Set("changedBefore", typeutils.FormatTimestamp(window.End))

		err := s.driver.paginate(ctx, client, pager{
			call: spapi.Call{
				Operation: "getPurchaseOrders",
				Path:      "/vendor/orders/v1/purchaseOrders",
				Params:    params,
			},
			policy:     retry.Critical(),
			tokenParam: "nextToken",
		}, func(response *spapi.Response) error {
			page := struct {
				Orders []types.Record `json:"orders"`
			}{}
			if err := response.Decode(&page); err != nil {
				return fmt.Errorf("failed to decode purchase orders page: %s", err)
			}

			for _, order := range page.Orders {
				order["lastUpdatedDate"] = purchaseOrderWatermark(order)
				if err := emit(ctx, order); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("window %s: %w", window, err)
		}
	}

	return nil
}

// purchaseOrderWatermark is the change date of the order, or its creation date when
// it never changed
func purchaseOrderWatermark(order types.Record) any {
	details, ok := order["orderDetails"].(map[string]any)
	if !ok {
		return nil
	}

	if changed, found := details["purchaseOrderChangedDate"]; found && changed != nil {
		return changed
	}
	return details["purchaseOrderDate"]
}
