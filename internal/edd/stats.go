package edd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// StatType selects which statistic the stats endpoint reports.
type StatType string

const (
	StatSales    StatType = "sales"
	StatEarnings StatType = "earnings"
)

// AllProducts is the literal product filter meaning "every product" on
// the per-product stats endpoint.
const AllProducts = "all"

// Diagnostic and summary keys that appear inside flat stats responses
// alongside the data. They are numeric too, so they must be excluded by
// name, not by type.
const (
	statKeyRequestSpeed = "request_speed"
	statKeyTotals       = "totals"
)

// Stats fetches store totals for typ. The endpoint returns one of two
// shapes: an explicit {"stats": {...}} wrapper, or a flat object where
// the typ key sits directly beside request_speed. Both normalize to the
// same category-to-value mapping.
func (c *Client) Stats(ctx context.Context, typ StatType) (map[string]float64, error) {
	params := url.Values{}
	params.Set("type", string(typ))

	body, err := c.requestRaw(ctx, endpointStats, params)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("edd: decode stats response: %w", err)
	}

	source := top
	if wrapped, ok := top["stats"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(wrapped, &inner); err != nil {
			return nil, fmt.Errorf("edd: decode stats wrapper: %w", err)
		}
		source = inner
	}

	raw, ok := source[string(typ)]
	if !ok {
		return nil, fmt.Errorf("edd: stats response missing %q field", typ)
	}
	var totals map[string]float64
	if err := json.Unmarshal(raw, &totals); err != nil {
		return nil, fmt.Errorf("edd: decode %s totals: %w", typ, err)
	}
	return totals, nil
}

// StatsByDateRange fetches per-day values for typ between start and end
// (8-digit YYYYMMDD). The flat response mixes date keys with the
// request_speed diagnostic and a totals summary; both are excluded by
// name from the returned mapping.
func (c *Client) StatsByDateRange(ctx context.Context, typ StatType, start, end string) (map[string]float64, error) {
	params := url.Values{}
	params.Set("type", string(typ))
	params.Set("date", "range")
	params.Set("startdate", start)
	params.Set("enddate", end)

	body, err := c.requestRaw(ctx, endpointStats, params)
	if err != nil {
		return nil, err
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("edd: decode stats response: %w", err)
	}

	result := make(map[string]float64, len(flat))
	for key, raw := range flat {
		if key == statKeyRequestSpeed || key == statKeyTotals {
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		result[key] = v
	}
	return result, nil
}

// StatsByProduct fetches per-product values for typ. product is a
// numeric ID rendered as a string, or AllProducts. The flat response is
// walked in server order, keeping numeric-valued fields and dropping
// the request_speed diagnostic by name.
func (c *Client) StatsByProduct(ctx context.Context, typ StatType, product string) ([]ProductStat, error) {
	if product == "" {
		product = AllProducts
	}
	params := url.Values{}
	params.Set("type", string(typ))
	params.Set("product", product)

	body, err := c.requestRaw(ctx, endpointStats, params)
	if err != nil {
		return nil, err
	}
	return decodeProductStats(body)
}

// decodeProductStats walks the top-level object token by token so the
// result preserves the response's key order, which a map decode would
// lose.
func decodeProductStats(body []byte) ([]ProductStat, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("edd: decode stats response: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("edd: stats response is not an object")
	}

	var stats []ProductStat
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("edd: decode stats key: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("edd: decode stats value for %q: %w", key, err)
		}
		if key == statKeyRequestSpeed {
			continue
		}

		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			// Non-numeric fields are metadata, not product data.
			continue
		}
		stats = append(stats, ProductStat{Name: key, Value: v})
	}
	return stats, nil
}
