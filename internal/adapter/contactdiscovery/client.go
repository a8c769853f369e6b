// Package contactdiscovery is a client for a domain-search contact service
// that returns the people publicly associated with an email domain.
package contactdiscovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

const sourceName = "domain-search"

// Options configures a Client.
type Options struct {
	BaseURL string
	APIKey  string
	// RequestsPerSecond caps outgoing calls. Zero means one per second.
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// Client calls GET {base}/v2/domain-search.
type Client struct {
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	http    *http.Client
}

type searchResponse struct {
	Data struct {
		Emails []struct {
			Value     string `json:"value"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Position  string `json:"position"`
		} `json:"emails"`
	} `json:"data"`
}

// New creates a client. An empty base URL or API key yields a client that
// always reports the service as unavailable.
func New(opts Options) *Client {
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		apiKey:  strings.TrimSpace(opts.APIKey),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		http:    httpClient,
	}
}

// DomainSearch returns up to limit contacts for domain.
func (c *Client) DomainSearch(ctx context.Context, domain string, limit int) ([]entity.EnrichmentContact, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, repository.ErrContactDiscoveryUnavailable
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "wait for contact discovery rate limit")
	}

	q := url.Values{}
	q.Set("domain", domain)
	q.Set("api_key", c.apiKey)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/domain-search?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "build domain search request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(repository.ErrContactDiscoveryUnavailable, "domain search %s: %v", domain, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, eris.Wrapf(repository.ErrContactDiscoveryUnavailable, "read domain search %s: %v", domain, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, eris.Wrapf(repository.ErrContactDiscoveryUnavailable, "domain search %s: status %d", domain, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, eris.Errorf("domain search %s: status %d: %s", domain, resp.StatusCode, snippet(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrapf(err, "decode domain search %s", domain)
	}

	contacts := make([]entity.EnrichmentContact, 0, len(parsed.Data.Emails))
	for _, e := range parsed.Data.Emails {
		email := strings.TrimSpace(e.Value)
		if email == "" {
			continue
		}
		contacts = append(contacts, entity.EnrichmentContact{
			Email:    email,
			Name:     strings.TrimSpace(e.FirstName + " " + e.LastName),
			JobTitle: strings.TrimSpace(e.Position),
			Source:   sourceName,
		})
		if limit > 0 && len(contacts) == limit {
			break
		}
	}
	return contacts, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return fmt.Sprintf("%s...", s[:200])
	}
	return s
}
