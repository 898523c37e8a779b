// Package upstream fetches the read-only catalog of followable channels.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spec-kit/subscriber-service/pkg/util"
)

const catalogPath = "api/vtubers"

// CatalogClient exposes the single upstream call the service depends on.
type CatalogClient interface {
	Catalog(ctx context.Context) (raw []byte, entries int, err error)
}

type client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a catalog client for the upstream base URL.
func NewClient(baseURL string, timeout time.Duration) CatalogClient {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Catalog performs one GET of the catalog listing. Transport errors, non-2xx
// statuses and bodies that are not a JSON array are all reported uniformly
// as upstream unavailability; there is no retry.
func (c *client) Catalog(ctx context.Context) ([]byte, int, error) {
	endpoint, err := url.JoinPath(c.baseURL, catalogPath)
	if err != nil {
		return nil, 0, util.NewUpstreamUnavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, util.NewUpstreamUnavailable(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, util.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, util.NewUpstreamUnavailable(fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, util.NewUpstreamUnavailable(err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, 0, util.NewUpstreamUnavailable(err)
	}
	return raw, len(entries), nil
}
