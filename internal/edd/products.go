package edd

import (
	"context"
	"net/url"
	"strconv"
)

// productsEnvelope wraps the products list response. The request_speed
// diagnostic field is deliberately not mapped so it never reaches
// callers.
type productsEnvelope struct {
	Products []Product `json:"products"`
}

// ProductListOptions filters the product list. Zero values are omitted
// from the request.
type ProductListOptions struct {
	Count     int
	ProductID int
}

// Products lists products. This is the one public endpoint: no key or
// token is sent.
func (c *Client) Products(ctx context.Context, opts ProductListOptions) ([]Product, error) {
	params := url.Values{}
	if opts.Count > 0 {
		params.Set("number", strconv.Itoa(opts.Count))
	}
	if opts.ProductID > 0 {
		params.Set("product", strconv.Itoa(opts.ProductID))
	}

	env, err := request[productsEnvelope](ctx, c, endpointProducts, true, params)
	if err != nil {
		return nil, err
	}
	return env.Products, nil
}

// Product fetches a single product by ID, implemented upstream as a
// filtered list. Returns nil (no error) when there is no match.
func (c *Client) Product(ctx context.Context, id int) (*Product, error) {
	products, err := c.Products(ctx, ProductListOptions{ProductID: id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}
