package upstream

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBlocksAPIURL is the blocks subgraph endpoint used to resolve
// block numbers to timestamps.
const DefaultBlocksAPIURL = "https://api.thegraph.com/subgraphs/name/blocklytics/ethereum-blocks"

// blocksPageSize is the subgraph's maximum page size.
const blocksPageSize = 1000

// BlocksClient resolves block numbers to timestamps in batches.
type BlocksClient struct {
	gql graphqlClient
}

// NewBlocksClient creates a blocks subgraph client. A nil httpClient
// falls back to a default client with DefaultTimeout.
func NewBlocksClient(endpoint string, httpClient *http.Client) *BlocksClient {
	if endpoint == "" {
		endpoint = DefaultBlocksAPIURL
	}
	return &BlocksClient{gql: newGraphqlClient(endpoint, httpClient)}
}

// Timestamps resolves the given block numbers to timestamps, querying in
// pages of at most 1000 numbers. Blocks unknown to the subgraph are
// simply absent from the returned map; the normalizer treats them as
// data-integrity gaps.
func (c *BlocksClient) Timestamps(ctx context.Context, blockNumbers []uint64) (map[uint64]time.Time, error) {
	unique := make(map[uint64]struct{}, len(blockNumbers))
	for _, n := range blockNumbers {
		unique[n] = struct{}{}
	}
	numbers := make([]uint64, 0, len(unique))
	for n := range unique {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	times := make(map[uint64]time.Time, len(numbers))

	for start := 0; start < len(numbers); start += blocksPageSize {
		end := start + blocksPageSize
		if end > len(numbers) {
			end = len(numbers)
		}
		if err := c.fetchPage(ctx, numbers[start:end], times); err != nil {
			return nil, err
		}
	}

	return times, nil
}

func (c *BlocksClient) fetchPage(ctx context.Context, numbers []uint64, times map[uint64]time.Time) error {
	list := make([]string, len(numbers))
	for i, n := range numbers {
		list[i] = strconv.FormatUint(n, 10)
	}

	query := fmt.Sprintf(`{
  blocks(first: %d, where: {number_in: [%s]}) {
    number
    timestamp
  }
}`, len(numbers), strings.Join(list, ","))

	var data struct {
		Blocks []struct {
			Number    string `json:"number"`
			Timestamp string `json:"timestamp"`
		} `json:"blocks"`
	}

	if err := c.gql.query(ctx, graphqlRequest{Query: query}, &data); err != nil {
		return fmt.Errorf("fetching block timestamps: %w", err)
	}

	for _, b := range data.Blocks {
		number, err := strconv.ParseUint(b.Number, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: bad block number %q", ErrUpstream, b.Number)
		}
		unix, err := strconv.ParseInt(b.Timestamp, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: bad block timestamp %q", ErrUpstream, b.Timestamp)
		}
		times[number] = time.Unix(unix, 0).UTC()
	}
	return nil
}
