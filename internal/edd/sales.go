package edd

import (
	"context"
	"net/url"
	"strconv"
)

type salesEnvelope struct {
	Sales []Sale `json:"sales"`
}

// SaleListOptions filters the sales list. Dates are 8-digit YYYYMMDD
// strings with no delimiters; zero values are omitted from the request.
type SaleListOptions struct {
	Count     int
	Page      int
	Email     string
	StartDate string
	EndDate   string
}

// Sales lists sales matching opts.
func (c *Client) Sales(ctx context.Context, opts SaleListOptions) ([]Sale, error) {
	params := url.Values{}
	if opts.Count > 0 {
		params.Set("number", strconv.Itoa(opts.Count))
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	params.Set("email", opts.Email)
	params.Set("startdate", opts.StartDate)
	params.Set("enddate", opts.EndDate)

	env, err := request[salesEnvelope](ctx, c, endpointSales, false, params)
	if err != nil {
		return nil, err
	}
	return env.Sales, nil
}

// SaleByID fetches a single sale by payment ID. Returns nil on no match.
func (c *Client) SaleByID(ctx context.Context, id int) (*Sale, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(id))
	return c.firstSale(ctx, params)
}

// SaleByKey fetches a single sale by purchase key. Returns nil on no
// match.
func (c *Client) SaleByKey(ctx context.Context, key string) (*Sale, error) {
	params := url.Values{}
	params.Set("purchasekey", key)
	return c.firstSale(ctx, params)
}

func (c *Client) firstSale(ctx context.Context, params url.Values) (*Sale, error) {
	env, err := request[salesEnvelope](ctx, c, endpointSales, false, params)
	if err != nil {
		return nil, err
	}
	if len(env.Sales) == 0 {
		return nil, nil
	}
	return &env.Sales[0], nil
}
