// Package catalogservice is the client of the downstream service that turns a
// saved brand into a catalog entry.
package catalogservice

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client posts deferred create payloads to {base}/catalogs.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type createRequest struct {
	ExternalID        string   `json:"externalId"`
	Name              string   `json:"name"`
	CompanyName       string   `json:"companyName"`
	ProductType       []string `json:"productType"`
	CountryCode       string   `json:"countryCode"`
	CountryName       string   `json:"countryName"`
	Website           string   `json:"website"`
	ContactEmail      string   `json:"contactEmail"`
	ContactName       string   `json:"contactName,omitempty"`
	ContactJobTitle   string   `json:"contactJobTitle,omitempty"`
	ExcludedCountries []string `json:"excludedCountries,omitempty"`
	IsDisabled        bool     `json:"isDisabled"`
	LogoURL           string   `json:"logoUrl,omitempty"`
}

// The service answers either {"id": ...} or {"catalog": {"id": ...}}.
type createResponse struct {
	ID      string `json:"id"`
	Catalog *struct {
		ID string `json:"id"`
	} `json:"catalog"`
}

// New creates a client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, eris.New("catalog service base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, token: opts.Token, http: httpClient}, nil
}

// CreateCatalog submits p and returns the downstream catalog id. A 4xx answer
// is reported as repository.ErrCatalogServiceRejected.
func (c *Client) CreateCatalog(ctx context.Context, p entity.DeferredCreatePayload) (string, error) {
	body, err := json.Marshal(createRequest{
		ExternalID:        p.RecordID,
		Name:              p.Name,
		CompanyName:       p.CompanyName,
		ProductType:       p.ProductType,
		CountryCode:       p.CountryCode,
		CountryName:       p.CountryName,
		Website:           p.Website,
		ContactEmail:      p.ContactEmail,
		ContactName:       p.ContactName,
		ContactJobTitle:   p.ContactJobTitle,
		ExcludedCountries: p.ExcludedCountries,
		IsDisabled:        p.IsDisabled,
		LogoURL:           p.LogoURL,
	})
	if err != nil {
		return "", eris.Wrap(err, "encode catalog request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/catalogs", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "build catalog request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "create catalog for %s", p.RecordID)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", eris.Wrap(err, "read catalog response")
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", eris.Wrapf(repository.ErrCatalogServiceRejected, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if resp.StatusCode >= 300 {
		return "", eris.Errorf("catalog service answered %d", resp.StatusCode)
	}

	var parsed createResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", eris.Wrap(err, "decode catalog response")
	}
	id := parsed.ID
	if id == "" && parsed.Catalog != nil {
		id = parsed.Catalog.ID
	}
	if id == "" {
		return "", eris.New("catalog response carries no id")
	}
	return id, nil
}
