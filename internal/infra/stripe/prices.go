package stripe

import (
	"context"
	"errors"

	stripeapi "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
)

// PriceClient lists recurring prices with their products expanded.
type PriceClient struct {
	api price.Client
}

func NewPriceClient(secretKey string) (*PriceClient, error) {
	if secretKey == "" {
		return nil, errors.New("stripe: secret key not configured")
	}
	return &PriceClient{api: price.Client{
		B:   stripeapi.GetBackend(stripeapi.APIBackend),
		Key: secretKey,
	}}, nil
}

func (c *PriceClient) ListRecurring(ctx context.Context) ([]*stripeapi.Price, error) {
	params := &stripeapi.PriceListParams{}
	params.Context = ctx
	params.Active = stripeapi.Bool(true)
	params.Type = stripeapi.String(string(stripeapi.PriceTypeRecurring))
	params.AddExpand("data.product")

	var out []*stripeapi.Price
	it := c.api.List(params)
	for it.Next() {
		out = append(out, it.Price())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
