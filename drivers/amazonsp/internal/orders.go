package driver

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/singer-io/tap-amazon-sp/drivers/abstract"
	"github.com/singer-io/tap-amazon-sp/pkg/ratelimit"
	"github.com/singer-io/tap-amazon-sp/pkg/retry"
	"github.com/singer-io/tap-amazon-sp/pkg/spapi"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/singer-io/tap-amazon-sp/utils/typeutils"
)

// the orders API refuses LastUpdatedBefore values closer than this to now
const ordersBeforeMargin = 2 * time.Minute

type ordersSource struct {
	driver *AmazonSP
}

func (s *ordersSource) Read(ctx context.Context, req *abstract.Request, emit abstract.EmitFn) error {
	client, marketplace, err := s.driver.client(req.Marketplace)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("MarketplaceIds", marketplace.ID)
	params.Set("LastUpdatedAfter", typeutils.FormatAPIDate(req.Window.Start.Add(-s.driver.config.Lookback())))
	if req.Window.End.Before(s.driver.now().Add(-ordersBeforeMargin)) {
		params.Set("LastUpdatedBefore", typeutils.FormatAPIDate(req.Window.End))
	}

	return s.driver.paginate(ctx, client, pager{
		call: spapi.Call{
			Operation: "getOrders",
			Path:      "/orders/v0/orders",
			Params:    params,
		},
		policy:     retry.Default(),
		tokenParam: "NextToken",
	}, func(response *spapi.Response) error {
		page := struct {
			Orders []types.Record `json:"Orders"`
		}{}
		if err := response.Decode(&page); err != nil {
			return fmt.Errorf("failed to decode orders page: %s", err)
		}

		for _, order := range page.Orders {
			if err := emit(ctx, order); err != nil {
				return err
			}
		}
		return nil
	})
}

// orderItemsSource lists the items of every parent order, one record per item
type orderItemsSource struct {
	driver *AmazonSP
	pacer  *ratelimit.Pacer
}

func (s *orderItemsSource) Read(ctx context.Context, req *abstract.Request, emit abstract.EmitFn) error {
	if req.Parents == nil {
		return fmt.Errorf("order items are read through their parent orders")
	}

	client, _, err := s.driver.client(req.Marketplace)
	if err != nil {
		return err
	}

	return req.Parents(ctx, func(ctx context.Context, parent abstract.ParentRef) error {
		return s.driver.paginate(ctx, client, pager{
			call: spapi.Call{
				Operation: "getOrderItems",
				Path:      fmt.Sprintf("/orders/v0/orders/%s/orderItems", url.PathEscape(parent.Key)),
			},
			policy:     retry.Default(),
			tokenParam: "NextToken",
			pacer:      s.pacer,
		}, func(response *spapi.Response) error {
			page := struct {
				AmazonOrderID string         `json:"AmazonOrderId"`
				OrderItems    []types.Record `json:"OrderItems"`
			}{}
			if err := response.Decode(&page); err != nil {
				return fmt.Errorf("failed to decode items of order[%s]: %s", parent.Key, err)
			}

			for _, item := range flattenOrderItems(page.AmazonOrderID, page.OrderItems, parent) {
				if err := emit(ctx, item); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// flattenOrderItems stamps every item with its order id and the order watermark
func flattenOrderItems(orderID string, items []types.Record, parent abstract.ParentRef) []types.Record {
	if orderID == "" {
		orderID = parent.Key
	}

	for _, item := range items {
		item["AmazonOrderId"] = orderID
		item["OrderLastUpdateDate"] = parent.Watermark
	}
	return items
}

// orderDetailSource reads one object per parent order, such as its buyer info or address
type orderDetailSource struct {
	driver    *AmazonSP
	operation string
	resource  string
	pacer     *ratelimit.Pacer
}

func newOrderDetailSource(driver *AmazonSP, operation, resource string) *orderDetailSource {
	return &orderDetailSource{
		driver:    driver,
		operation: operation,
		resource:  resource,
		pacer:     driver.orderDetailPacer(),
	}
}

func (s *orderDetailSource) Read(ctx context.Context, req *abstract.Request, emit abstract.EmitFn) error {
	if req.Parents == nil {
		return fmt.Errorf("%s is read through the parent orders", s.resource)
	}

	client, _, err := s.driver.client(req.Marketplace)
	if err != nil {
		return err
	}

	return req.Parents(ctx, func(ctx context.Context, parent abstract.ParentRef) error {
		return s.driver.paginate(ctx, client, pager{
			call: spapi.Call{
				Operation: s.operation,
				Path:      fmt.Sprintf("/orders/v0/orders/%s/%s", url.PathEscape(parent.Key), s.resource),
			},
			policy: retry.Default(),
			pacer:  s.pacer,
		}, func(response *spapi.Response) error {
			record := types.Record{}
			if err := response.Decode(&record); err != nil {
				return fmt.Errorf("failed to decode %s of order[%s]: %s", s.resource, parent.Key, err)
			}
			if len(record) == 0 {
				logger.Debugf("no %s for order[%s]", s.resource, parent.Key)
				return nil
			}

			if _, found := record["AmazonOrderId"]; !found {
				record["AmazonOrderId"] = parent.Key
			}
			record["OrderLastUpdateDate"] = parent.Watermark
			return emit(ctx, record)
		})
	})
}
