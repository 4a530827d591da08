package edd

import (
	"context"
	"net/url"
	"strconv"
)

type customersEnvelope struct {
	Customers []Customer `json:"customers"`
}

// Customers lists customers. count and page are omitted when zero.
func (c *Client) Customers(ctx context.Context, count, page int) ([]Customer, error) {
	params := url.Values{}
	if count > 0 {
		params.Set("number", strconv.Itoa(count))
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	env, err := request[customersEnvelope](ctx, c, endpointCustomers, false, params)
	if err != nil {
		return nil, err
	}
	return env.Customers, nil
}

// CustomerByID fetches a single customer by numeric ID. Returns nil on
// no match.
func (c *Client) CustomerByID(ctx context.Context, id int) (*Customer, error) {
	return c.firstCustomer(ctx, strconv.Itoa(id))
}

// CustomerByEmail fetches a single customer by email address. Returns
// nil on no match.
func (c *Client) CustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	return c.firstCustomer(ctx, email)
}

// firstCustomer runs a filtered list through the single upstream
// customer parameter, which accepts either an ID or an email.
func (c *Client) firstCustomer(ctx context.Context, filter string) (*Customer, error) {
	params := url.Values{}
	params.Set("customer", filter)

	env, err := request[customersEnvelope](ctx, c, endpointCustomers, false, params)
	if err != nil {
		return nil, err
	}
	if len(env.Customers) == 0 {
		return nil, nil
	}
	return &env.Customers[0], nil
}
