package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// DefaultMetadataURL is the production delegate names endpoint.
const DefaultMetadataURL = "https://vote.makerdao.com/api/delegates/names"

// MetadataClient fetches the delegate name/status metadata list.
type MetadataClient struct {
	endpoint string
	client   *http.Client
}

// NewMetadataClient creates a metadata client. A nil httpClient falls
// back to a default client with DefaultTimeout.
func NewMetadataClient(endpoint string, httpClient *http.Client) *MetadataClient {
	if endpoint == "" {
		endpoint = DefaultMetadataURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &MetadataClient{endpoint: endpoint, client: httpClient}
}

// DelegateMetadata returns the metadata record list. Delegates missing
// from the list simply stay unenriched.
func (c *MetadataClient) DelegateMetadata(ctx context.Context) ([]domain.DelegateMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstream, c.endpoint, resp.StatusCode)
	}

	var metadata []domain.DelegateMetadata
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("%w: decoding metadata: %v", ErrUpstream, err)
	}
	return metadata, nil
}
