// Package upstream implements the fetch collaborators: the polling
// database GraphQL API, the delegate metadata endpoint, the blocks
// subgraph and the chief contract log filter. Each collaborator returns
// a plain value set or fails; reduction never touches the network.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single upstream HTTP request.
const DefaultTimeout = 30 * time.Second

// graphqlClient posts GraphQL queries to a single endpoint.
type graphqlClient struct {
	endpoint string
	client   *http.Client
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

func newGraphqlClient(endpoint string, client *http.Client) graphqlClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return graphqlClient{endpoint: endpoint, client: client}
}

// query posts the request and decodes the response's data field into out.
func (c graphqlClient) query(ctx context.Context, req graphqlRequest, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: encoding query: %v", ErrUpstream, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", ErrUpstream, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrUpstream, c.endpoint, resp.StatusCode)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrUpstream, gqlResp.Errors[0].Message)
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("%w: decoding data: %v", ErrUpstream, err)
	}
	return nil
}
