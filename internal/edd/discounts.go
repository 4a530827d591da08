package edd

import (
	"context"
	"net/url"
	"strconv"
)

type discountsEnvelope struct {
	Discounts []Discount `json:"discounts"`
}

// Discounts lists discount codes. count is omitted when zero.
func (c *Client) Discounts(ctx context.Context, count int) ([]Discount, error) {
	params := url.Values{}
	if count > 0 {
		params.Set("number", strconv.Itoa(count))
	}

	env, err := request[discountsEnvelope](ctx, c, endpointDiscounts, false, params)
	if err != nil {
		return nil, err
	}
	return env.Discounts, nil
}

// Discount fetches a single discount by ID. Returns nil on no match.
func (c *Client) Discount(ctx context.Context, id int) (*Discount, error) {
	params := url.Values{}
	params.Set("discount", strconv.Itoa(id))

	env, err := request[discountsEnvelope](ctx, c, endpointDiscounts, false, params)
	if err != nil {
		return nil, err
	}
	if len(env.Discounts) == 0 {
		return nil, nil
	}
	return &env.Discounts[0], nil
}
