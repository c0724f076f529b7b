package driver

import (
	"time"

	"github.com/singer-io/tap-amazon-sp/drivers/abstract"
	"github.com/singer-io/tap-amazon-sp/pkg/ratelimit"
	"github.com/singer-io/tap-amazon-sp/types"
)

const (
	ordersStream               = "orders"
	orderItemsStream           = "order_items"
	orderBuyerInfoStream       = "order_buyer_info"
	orderAddressStream         = "order_address"
	salesStream                = "sales"
	vendorPurchaseOrdersStream = "vendor_purchase_orders"
)

// quota of the per order endpoints: one request every two seconds, bursts of 30
const (
	orderDetailRate  = 0.5
	orderDetailBurst = 30
)

func (a *AmazonSP) definitions() []*abstract.StreamDefinition {
	orders := &abstract.StreamDefinition{
		ID:             ordersStream,
		Mode:           types.INCREMENTAL,
		KeyFields:      []string{"AmazonOrderId"},
		ReplicationKey: "LastUpdateDate",
		Source:         &ordersSource{driver: a},
		Schema:         loadSchema(ordersStream),
		Priority:       true,
	}

	child := func(id string, keyFields []string, source abstract.RecordSource, priority bool) *abstract.StreamDefinition {
		return &abstract.StreamDefinition{
			ID:             id,
			Mode:           types.INCREMENTAL,
			KeyFields:      keyFields,
			ReplicationKey: "OrderLastUpdateDate",
			Parent:         orders,
			Source:         source,
			Schema:         loadSchema(id),
			Priority:       priority,
		}
	}

	return []*abstract.StreamDefinition{
		orders,
		child(orderItemsStream, []string{"OrderItemId"}, &orderItemsSource{driver: a, pacer: a.orderDetailPacer()}, true),
		child(orderBuyerInfoStream, []string{"AmazonOrderId"}, newOrderDetailSource(a, "getOrderBuyerInfo", "buyerInfo"), false),
		child(orderAddressStream, []string{"AmazonOrderId"}, newOrderDetailSource(a, "getOrderAddress", "address"), false),
		{
			ID:        salesStream,
			Mode:      types.FULLTABLE,
			KeyFields: []string{"marketplaceId", "interval"},
			Source:    &salesSource{driver: a},
			Schema:    loadSchema(salesStream),
		},
		{
			ID:             vendorPurchaseOrdersStream,
			Mode:           types.INCREMENTAL,
			KeyFields:      []string{"purchaseOrderNumber"},
			ReplicationKey: "lastUpdatedDate",
			Source:         &vendorOrdersSource{driver: a},
			Schema:         loadSchema(vendorPurchaseOrdersStream),
		},
	}
}

func (a *AmazonSP) orderDetailPacer() *ratelimit.Pacer {
	return ratelimit.NewPacer(orderDetailRate, orderDetailBurst).WithSleep(func(d time.Duration) {
		a.sleep(d)
	})
}
