package edd

import (
	"context"
	"net/url"
	"strconv"
)

type downloadLogsEnvelope struct {
	DownloadLogs []DownloadLog `json:"download_logs"`
}

// DownloadLogOptions filters the file download log list. Zero values
// are omitted from the request.
type DownloadLogOptions struct {
	Count      int
	ProductID  int
	CustomerID int
}

// DownloadLogs lists file download log entries. An absent envelope
// field yields an empty slice, not an error.
func (c *Client) DownloadLogs(ctx context.Context, opts DownloadLogOptions) ([]DownloadLog, error) {
	params := url.Values{}
	if opts.Count > 0 {
		params.Set("number", strconv.Itoa(opts.Count))
	}
	if opts.ProductID > 0 {
		params.Set("product", strconv.Itoa(opts.ProductID))
	}
	if opts.CustomerID > 0 {
		params.Set("customer", strconv.Itoa(opts.CustomerID))
	}

	env, err := request[downloadLogsEnvelope](ctx, c, endpointDownloadLogs, false, params)
	if err != nil {
		return nil, err
	}
	if env.DownloadLogs == nil {
		return []DownloadLog{}, nil
	}
	return env.DownloadLogs, nil
}
