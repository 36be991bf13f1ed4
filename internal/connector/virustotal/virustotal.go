// Package virustotal looks up indicator analysis stats in the VirusTotal
// v3 API.
package virustotal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hejijunhao/falcomd/internal/connector/httpclient"
	"github.com/hejijunhao/falcomd/internal/reputation"
)

const DefaultBaseURL = "https://www.virustotal.com/api/v3/"

// Client implements reputation.Looker against VirusTotal.
type Client struct {
	http *httpclient.Client
}

// New creates a Client. An empty baseURL selects DefaultBaseURL. Each
// Lookup sends a single request; throttled or failed lookups are not
// retried.
func New(baseURL, apiKey string, opts ...httpclient.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]httpclient.Option{
		httpclient.WithAPIKeyHeader("x-apikey", apiKey),
		httpclient.WithMaxRetries(0),
	}, opts...)
	return &Client{http: httpclient.New(baseURL, opts...)}
}

type objectResponse struct {
	Data struct {
		Attributes struct {
			LastAnalysisStats struct {
				Malicious  *int `json:"malicious"`
				Suspicious *int `json:"suspicious"`
			} `json:"last_analysis_stats"`
		} `json:"attributes"`
	} `json:"data"`
}

// Lookup fetches the last analysis stats for indicator.
func (c *Client) Lookup(ctx context.Context, mode reputation.Mode, indicator string) (reputation.Stats, error) {
	var collection string
	switch mode {
	case reputation.ModeIPs:
		collection = "ip_addresses"
	case reputation.ModeHashes:
		collection = "files"
	default:
		return reputation.Stats{}, fmt.Errorf("virustotal: unsupported mode %q", mode)
	}

	var resp objectResponse
	if err := c.http.GetJSON(ctx, collection+"/"+url.PathEscape(indicator), nil, &resp); err != nil {
		switch httpclient.StatusCode(err) {
		case 401:
			return reputation.Stats{}, fmt.Errorf("virustotal: authentication error: %w", err)
		case 404:
			return reputation.Stats{}, fmt.Errorf("virustotal: indicator not found: %w", err)
		}
		return reputation.Stats{}, fmt.Errorf("virustotal: %w", err)
	}

	stats := resp.Data.Attributes.LastAnalysisStats
	return reputation.Stats{Malicious: stats.Malicious, Suspicious: stats.Suspicious}, nil
}
